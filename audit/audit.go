// Package audit persists evaluation results for later review. Every sink
// stores the same Entry shape; pick the one matching the deployment: in
// memory for tests and tooling, a JSON-lines file for single-node setups, or
// SQL for anything shared.
package audit

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	criterion "github.com/tomymaritano/criterion-sub000"
)

// Entry is one persisted evaluation record.
type Entry struct {
	// ID is a unique, time-ordered identifier for this record.
	ID string `json:"id"`

	// Time is when the evaluation ran, taken from the result itself.
	Time time.Time `json:"time"`

	DecisionID      string `json:"decision_id"`
	DecisionVersion string `json:"decision_version,omitempty"`
	ProfileID       string `json:"profile_id,omitempty"`

	Status      string `json:"status"`
	MatchedRule string `json:"matched_rule,omitempty"`
	Explanation string `json:"explanation,omitempty"`

	// Trace is the per-rule match trail from the result.
	Trace []criterion.TraceEntry `json:"trace,omitempty"`

	// InputFingerprint is a hash of the evaluation input, never the input
	// itself. See WithInputFingerprint.
	InputFingerprint string `json:"input_fingerprint,omitempty"`

	// Metadata carries free-form host fields (caller, correlation id, ...).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Auditor persists evaluation records.
type Auditor interface {
	Log(entry Entry) error
	Close() error
}

// Option decorates an Entry before NewEntry returns it.
type Option func(*Entry)

// WithInputFingerprint attaches a fingerprint of the evaluation input. Only
// the hash is stored, so sensitive inputs stay out of the audit trail while
// identical inputs remain correlatable.
func WithInputFingerprint(input any) Option {
	return func(e *Entry) {
		e.InputFingerprint = Fingerprint(input)
	}
}

// WithMetadata merges m into the entry metadata.
func WithMetadata(m map[string]any) Option {
	return func(e *Entry) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any, len(m))
		}
		for k, v := range m {
			e.Metadata[k] = v
		}
	}
}

// NewEntry builds an audit record from an evaluation result.
func NewEntry(res criterion.Result, opts ...Option) Entry {
	e := Entry{
		ID:              uuid.Must(uuid.NewV7()).String(),
		Time:            res.Meta.EvaluatedAt,
		DecisionID:      res.Meta.DecisionID,
		DecisionVersion: res.Meta.DecisionVersion,
		ProfileID:       res.Meta.ProfileID,
		Status:          string(res.Status),
		MatchedRule:     res.Meta.MatchedRule,
		Explanation:     res.Meta.Explanation,
		Trace:           res.Meta.EvaluatedRules,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Fingerprint hashes v into a short stable identifier. Values that cannot
// be serialized fingerprint as "(n/a)".
func Fingerprint(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "(n/a)"
	}
	hash := sha256.Sum256(raw)
	return base64.StdEncoding.EncodeToString(hash[:])
}
