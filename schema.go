package criterion

import (
	"fmt"
	"strings"
)

// Schema is an opaque handle describing the expected shape of a value. The
// engine never inspects schemas itself; it only hands them to the Validator
// alongside the value to check. What a handle actually is (a CUE value, a
// JSON Schema document, a hand-rolled checker) is the validator's business.
type Schema = any

// Violation is a single field-level complaint produced by a Validator.
type Violation struct {
	// Path locates the offending field, outermost segment first.
	// An empty path means the violation concerns the value as a whole.
	Path []string `json:"path,omitempty"`

	// Message is a human-readable description of what is wrong.
	Message string `json:"message"`
}

func (v Violation) String() string {
	if len(v.Path) == 0 {
		return v.Message
	}
	return strings.Join(v.Path, ".") + ": " + v.Message
}

// Validator checks values against schemas. Validate returns the normalized
// value (defaults applied, types coerced) when value conforms to schema, or
// a non-empty violation list when it does not. Implementations must treat a
// nil schema as "no constraints" and pass the value through unchanged.
type Validator interface {
	Validate(schema Schema, value any) (normalized any, violations []Violation)
}

// formatViolations renders a violation list into the single-line explanation
// carried by failed results, e.g.
//
//	Input validation failed: amount: must be positive, user.age: required
func formatViolations(subject string, violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s validation failed: %s", subject, strings.Join(parts, ", "))
}
