// Package exprrule builds rule functions from expr-lang expressions, so
// decision tables can be authored as strings instead of Go closures. The
// expressions see the evaluation's input and profile under the names "input"
// and "profile".
//
// Compilation errors are reported when the rule is built. Runtime failures
// (missing fields, type mismatches) panic on purpose: the engine catches
// them and folds them into the result as rule evaluation errors.
package exprrule

import (
	"fmt"

	"github.com/expr-lang/expr"

	criterion "github.com/tomymaritano/criterion-sub000"
)

func environment(input, profile any) map[string]any {
	return map[string]any{
		"input":   input,
		"profile": profile,
	}
}

// Condition compiles src into a rule condition. The expression must yield a
// boolean.
func Condition(src string) (func(input, profile any) bool, error) {
	prog, err := expr.Compile(src, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling condition %q: %w", src, err)
	}
	return func(input, profile any) bool {
		out, err := expr.Run(prog, environment(input, profile))
		if err != nil {
			panic(fmt.Sprintf("condition %q: %v", src, err))
		}
		b, ok := out.(bool)
		return ok && b
	}, nil
}

// Emit compiles src into a rule emit function. The expression result is the
// rule's raw output, handed to output validation as-is.
func Emit(src string) (func(input, profile any) any, error) {
	prog, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compiling emit %q: %w", src, err)
	}
	return func(input, profile any) any {
		out, err := expr.Run(prog, environment(input, profile))
		if err != nil {
			panic(fmt.Sprintf("emit %q: %v", src, err))
		}
		return out
	}, nil
}

// Explain compiles src into a rule explain function. Non-string results are
// rendered with %v so expressions may end in numbers or booleans.
func Explain(src string) (func(input, profile any) string, error) {
	prog, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compiling explain %q: %w", src, err)
	}
	return func(input, profile any) string {
		out, err := expr.Run(prog, environment(input, profile))
		if err != nil {
			panic(fmt.Sprintf("explain %q: %v", src, err))
		}
		if s, ok := out.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", out)
	}, nil
}

// Rule assembles a complete rule from expression sources. An empty explain
// source leaves the rule without an explain function.
func Rule(id, conditionSrc, emitSrc, explainSrc string) (criterion.Rule, error) {
	condition, err := Condition(conditionSrc)
	if err != nil {
		return criterion.Rule{}, fmt.Errorf("rule '%s': %w", id, err)
	}
	emit, err := Emit(emitSrc)
	if err != nil {
		return criterion.Rule{}, fmt.Errorf("rule '%s': %w", id, err)
	}
	rule := criterion.Rule{
		ID:        id,
		Condition: condition,
		Emit:      emit,
	}
	if explainSrc != "" {
		explain, err := Explain(explainSrc)
		if err != nil {
			return criterion.Rule{}, fmt.Errorf("rule '%s': %w", id, err)
		}
		rule.Explain = explain
	}
	return rule, nil
}

// MustCondition is Condition for rule tables defined as package variables.
func MustCondition(src string) func(input, profile any) bool {
	f, err := Condition(src)
	if err != nil {
		panic(err)
	}
	return f
}

// MustEmit is Emit, panicking on compile errors.
func MustEmit(src string) func(input, profile any) any {
	f, err := Emit(src)
	if err != nil {
		panic(err)
	}
	return f
}

// MustExplain is Explain, panicking on compile errors.
func MustExplain(src string) func(input, profile any) string {
	f, err := Explain(src)
	if err != nil {
		panic(err)
	}
	return f
}
