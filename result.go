package criterion

import "time"

// Status classifies the terminal outcome of a single evaluation.
type Status string

const (
	// StatusOK means a rule matched and its output passed validation.
	StatusOK Status = "OK"

	// StatusNoMatch means every rule condition came back false.
	StatusNoMatch Status = "NO_MATCH"

	// StatusInvalidInput covers input schema violations, profile resolution
	// and validation failures, and rule conditions that panicked.
	StatusInvalidInput Status = "INVALID_INPUT"

	// StatusInvalidOutput means the matched rule produced output that failed
	// validation, or its emit function panicked.
	StatusInvalidOutput Status = "INVALID_OUTPUT"
)

// TraceEntry records the outcome of checking one rule's condition.
type TraceEntry struct {
	RuleID  string `json:"rule_id"`
	Matched bool   `json:"matched"`

	// Explanation is the matched rule's own account of why it fired.
	// Unmatched entries never carry one.
	Explanation string `json:"explanation,omitempty"`
}

// Meta carries the audit context of a Result: which decision ran, which
// profile was used, which rules were checked and why the run ended the way
// it did.
type Meta struct {
	DecisionID      string `json:"decision_id"`
	DecisionVersion string `json:"decision_version,omitempty"`

	// ProfileID is set only when the profile was resolved from a registry
	// by identifier. Inline profiles leave it empty.
	ProfileID string `json:"profile_id,omitempty"`

	// MatchedRule is the id of the rule whose output was returned.
	// Empty unless Status is OK.
	MatchedRule string `json:"matched_rule,omitempty"`

	// EvaluatedRules lists every rule whose condition was checked, in
	// evaluation order. At most one entry has Matched set, and when one
	// does it is the last entry.
	EvaluatedRules []TraceEntry `json:"evaluated_rules"`

	// Explanation is the matched rule's explanation on OK, and the failure
	// reason otherwise.
	Explanation string `json:"explanation,omitempty"`

	// EvaluatedAt is the wall-clock time of the run, the one field two
	// otherwise identical evaluations may disagree on.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Result is the complete outcome of one evaluation. It is always returned
// fully populated, never alongside an error: callers branch on Status.
type Result struct {
	Status Status `json:"status"`

	// Data is the matched rule's validated output. Nil unless Status is OK.
	Data any `json:"data,omitempty"`

	Meta Meta `json:"meta"`
}

// OK reports whether the evaluation matched a rule and produced valid output.
func (r Result) OK() bool {
	return r.Status == StatusOK
}
