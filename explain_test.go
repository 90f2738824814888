package criterion

import (
	"strings"
	"testing"
	"time"
)

func TestExplain(t *testing.T) {
	evaluatedAt := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		res  Result
		want []string // expected output lines
	}{
		{
			name: "full successful result",
			res: Result{
				Status: StatusOK,
				Data:   map[string]any{"level": "MEDIUM"},
				Meta: Meta{
					DecisionID:      "risk-score",
					DecisionVersion: "2.1.0",
					ProfileID:       "us-standard",
					MatchedRule:     "medium-risk",
					Explanation:     "amount 7500 is between 5000 and 10000",
					EvaluatedRules: []TraceEntry{
						{RuleID: "high-risk"},
						{RuleID: "medium-risk", Matched: true, Explanation: "amount 7500 is between 5000 and 10000"},
					},
					EvaluatedAt: evaluatedAt,
				},
			},
			want: []string{
				"Decision: risk-score (version 2.1.0)",
				"Profile: us-standard",
				"Status: OK",
				"Matched rule: medium-risk",
				"Reason: amount 7500 is between 5000 and 10000",
				"Trace:",
				"  ✖ high-risk",
				"  ✔ medium-risk",
			},
		},
		{
			name: "validation failure before any rule ran",
			res: Result{
				Status: StatusInvalidInput,
				Meta: Meta{
					DecisionID:      "risk-score",
					DecisionVersion: "2.1.0",
					Explanation:     "Input validation failed: amount: must be positive",
					EvaluatedAt:     evaluatedAt,
				},
			},
			want: []string{
				"Decision: risk-score (version 2.1.0)",
				"Status: INVALID_INPUT",
				"Explanation: Input validation failed: amount: must be positive",
			},
		},
		{
			name: "no match keeps the failure explanation and trace",
			res: Result{
				Status: StatusNoMatch,
				Meta: Meta{
					DecisionID:     "loan-eligibility",
					Explanation:    "No rule matched the given context",
					EvaluatedRules: []TraceEntry{{RuleID: "age-eligible"}},
					EvaluatedAt:    evaluatedAt,
				},
			},
			want: []string{
				"Decision: loan-eligibility",
				"Status: NO_MATCH",
				"Explanation: No rule matched the given context",
				"Trace:",
				"  ✖ age-eligible",
			},
		},
		{
			name: "status only",
			res:  Result{Status: StatusOK},
			want: []string{"Status: OK"},
		},
		{
			name: "zero result renders empty",
			res:  Result{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := ""
			if len(tt.want) > 0 {
				want = strings.Join(tt.want, "\n") + "\n"
			}
			if got := Explain(tt.res); got != want {
				t.Errorf("Explain() = %q, want %q", got, want)
			}
		})
	}
}

func TestExplain_AfterRun(t *testing.T) {
	eng := New(funcValidator{})
	res := eng.Run(riskDecision(), map[string]any{"amount": 12000.0}, ProfileValue(nil), nil)

	got := Explain(res)

	for _, line := range []string{
		"Decision: risk-score (version 2.1.0)",
		"Status: OK",
		"Matched rule: high-risk",
		"  ✔ high-risk",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("Explain() missing line %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "Profile:") {
		t.Errorf("Explain() mentions a profile for an inline run:\n%s", got)
	}
}
