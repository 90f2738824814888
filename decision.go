package criterion

import "fmt"

// Rule pairs a matching condition with the output it stands for. Rules are
// checked in the order they appear on the Decision; the first one whose
// Condition returns true wins and no later rule is looked at.
type Rule struct {
	// ID identifies the rule in traces, explanations and metrics. Must be
	// unique within its Decision.
	ID string

	// Condition reports whether this rule applies to the given (validated)
	// input and profile. It must not mutate its arguments.
	Condition func(input, profile any) bool

	// Emit builds the rule's output. Only called after Condition returned
	// true, and only for the winning rule.
	Emit func(input, profile any) any

	// Explain produces a human-readable reason why the rule fired. Optional;
	// a nil Explain leaves the explanation empty.
	Explain func(input, profile any) string
}

// Decision is an evaluatable unit: an ordered rule list plus optional
// schemas constraining what goes in and what comes out. Decisions are plain
// values; the engine never mutates them, so one Decision can safely serve
// concurrent evaluations.
type Decision struct {
	// ID names the decision, e.g. "risk-score".
	ID string

	// Version distinguishes revisions of the same decision. Free-form.
	Version string

	// InputSchema, OutputSchema and ProfileSchema are opaque handles for
	// the engine's Validator. Any of them may be nil, which skips that
	// validation stage.
	InputSchema   Schema
	OutputSchema  Schema
	ProfileSchema Schema

	// Rules in evaluation order. First match wins.
	Rules []Rule

	// Metadata is free-form host data (owner, tags, links). The engine
	// ignores it.
	Metadata map[string]any
}

// DefineDecision returns d unchanged. It marks the construction site of a
// decision so definitions read declaratively; pair it with Validate at
// startup to catch authoring mistakes early.
func DefineDecision(d Decision) Decision {
	return d
}

// DefineRule returns r unchanged, the rule counterpart of DefineDecision.
func DefineRule(r Rule) Rule {
	return r
}

// Validate checks that the decision is structurally sound: a non-empty id,
// at least one rule, unique non-empty rule ids, and condition/emit functions
// on every rule. It is an authoring aid for host startup; Run does not call
// it and stays total either way.
//
// Validate deliberately does not demand a catch-all rule. A decision where
// no rule matches is a legitimate NO_MATCH outcome, not an authoring error.
func (d Decision) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("decision has no id")
	}
	if len(d.Rules) == 0 {
		return fmt.Errorf("decision '%s' has no rules", d.ID)
	}
	seen := make(map[string]struct{}, len(d.Rules))
	for i, rule := range d.Rules {
		if rule.ID == "" {
			return fmt.Errorf("decision '%s': rule #%d has no id", d.ID, i)
		}
		if _, ok := seen[rule.ID]; ok {
			return fmt.Errorf("decision '%s': duplicate rule id '%s'", d.ID, rule.ID)
		}
		seen[rule.ID] = struct{}{}
		if rule.Condition == nil {
			return fmt.Errorf("decision '%s': rule '%s' has no condition", d.ID, rule.ID)
		}
		if rule.Emit == nil {
			return fmt.Errorf("decision '%s': rule '%s' has no emit", d.ID, rule.ID)
		}
	}
	return nil
}
