// Package cueschema backs the engine's schema validation with CUE. Schemas
// are compiled once into handles and shared across evaluations; validation
// unifies the value with the schema, which both checks constraints and fills
// in defaults.
package cueschema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	criterion "github.com/tomymaritano/criterion-sub000"
)

// Schema is a compiled CUE definition, usable wherever the engine expects a
// schema handle.
type Schema struct {
	val cue.Value
}

// Compiler compiles CUE source and validates values against the result.
// Schemas compiled by one Compiler must be validated by the same Compiler;
// CUE values from different contexts do not mix.
type Compiler struct {
	ctx *cue.Context
}

var _ criterion.Validator = (*Compiler)(nil)

// New creates a Compiler with a fresh CUE context.
func New() *Compiler {
	return &Compiler{ctx: cuecontext.New()}
}

// Compile turns CUE source into a schema handle.
func (c *Compiler) Compile(src string) (Schema, error) {
	v := c.ctx.CompileString(src)
	if v.Err() != nil {
		return Schema{}, fmt.Errorf("failed to compile schema: %w", v.Err())
	}
	return Schema{val: v}, nil
}

// MustCompile is Compile for package-level schema variables. It panics on
// invalid source.
func (c *Compiler) MustCompile(src string) Schema {
	s, err := c.Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate implements criterion.Validator. The value is encoded into the
// schema's CUE context, unified with the schema and checked for concreteness,
// so missing required fields surface as violations. On success the unified
// value is decoded back, which is where defaults land in the normalized
// result.
func (c *Compiler) Validate(schema criterion.Schema, value any) (any, []criterion.Violation) {
	if schema == nil {
		return value, nil
	}
	s, ok := schema.(Schema)
	if !ok {
		return nil, []criterion.Violation{{Message: fmt.Sprintf("unsupported schema type %T", schema)}}
	}

	v := c.ctx.Encode(value)
	if v.Err() != nil {
		return nil, []criterion.Violation{{Message: v.Err().Error()}}
	}

	unified := s.val.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, violations(err)
	}

	var normalized any
	if err := unified.Decode(&normalized); err != nil {
		return nil, violations(err)
	}
	return normalized, nil
}

// violations flattens a CUE error chain into one violation per reported
// problem, keeping the field path CUE attributes it to.
func violations(err error) []criterion.Violation {
	var out []criterion.Violation
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, criterion.Violation{
			Path:    e.Path(),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, criterion.Violation{Message: err.Error()})
	}
	return out
}
