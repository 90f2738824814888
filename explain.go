package criterion

import (
	"fmt"
	"strings"
)

// Explain renders a result into a small human-readable report: which
// decision ran, how it ended, which rule won and the full match trace.
// Fields absent from the result are omitted rather than printed empty, so a
// zero Result renders to "".
//
// Explain is a pure function of its argument. It never panics, and calling
// it twice on the same result yields the same string.
func Explain(res Result) string {
	var b strings.Builder

	if res.Meta.DecisionID != "" || res.Meta.DecisionVersion != "" {
		b.WriteString("Decision: ")
		b.WriteString(res.Meta.DecisionID)
		if res.Meta.DecisionVersion != "" {
			fmt.Fprintf(&b, " (version %s)", res.Meta.DecisionVersion)
		}
		b.WriteByte('\n')
	}
	if res.Meta.ProfileID != "" {
		fmt.Fprintf(&b, "Profile: %s\n", res.Meta.ProfileID)
	}
	if res.Status != "" {
		fmt.Fprintf(&b, "Status: %s\n", res.Status)
	}

	if res.Status == StatusOK {
		if res.Meta.MatchedRule != "" {
			fmt.Fprintf(&b, "Matched rule: %s\n", res.Meta.MatchedRule)
		}
		if res.Meta.Explanation != "" {
			fmt.Fprintf(&b, "Reason: %s\n", res.Meta.Explanation)
		}
	} else if res.Meta.Explanation != "" {
		fmt.Fprintf(&b, "Explanation: %s\n", res.Meta.Explanation)
	}

	if len(res.Meta.EvaluatedRules) > 0 {
		b.WriteString("Trace:\n")
		for _, entry := range res.Meta.EvaluatedRules {
			marker := "✖"
			if entry.Matched {
				marker = "✔"
			}
			fmt.Fprintf(&b, "  %s %s\n", marker, entry.RuleID)
		}
	}

	return b.String()
}
