// Package celrule builds rule conditions from CEL expressions. CEL's
// strength is exactly the boolean predicate shape rule conditions have, so
// this package deliberately covers conditions only; outputs and explanations
// are better served by Go closures or the exprrule package.
package celrule

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// costLimit caps per-evaluation expression cost so a pathological condition
// cannot stall the rule loop.
const costLimit = 1000000

// NewEnv creates a CEL environment declaring the two variables every rule
// condition sees: "input" and "profile", both dynamically typed. Hosts with
// typed schemas can build their own environment instead and pass it to
// Condition.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.DynType),
		cel.Variable("profile", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Condition compiles src against env into a rule condition. Compilation and
// type checking happen here; evaluation failures panic and are absorbed by
// the engine as rule evaluation errors. Non-boolean results count as no
// match.
func Condition(env *cel.Env, src string) (func(input, profile any) bool, error) {
	ast, issues := env.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling condition %q: %w", src, issues.Err())
	}
	prog, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", src, err)
	}

	return func(input, profile any) bool {
		out, _, err := prog.Eval(map[string]any{
			"input":   input,
			"profile": profile,
		})
		if err != nil {
			panic(fmt.Sprintf("condition %q: %v", src, err))
		}
		b, ok := out.Value().(bool)
		return ok && b
	}, nil
}

// MustCondition is Condition for rule tables defined as package variables;
// it panics on compile errors and uses the default environment.
func MustCondition(src string) func(input, profile any) bool {
	env, err := NewEnv()
	if err != nil {
		panic(err)
	}
	f, err := Condition(env, src)
	if err != nil {
		panic(err)
	}
	return f
}
