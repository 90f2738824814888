package criterion

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// FprintResult writes a colored, table-formatted rendering of res to w. It
// is the terminal-friendly sibling of Explain: same information, plus the
// output data, dressed up for humans debugging a decision.
func FprintResult(w io.Writer, res Result) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\n%s %s", bold("Decision:"), res.Meta.DecisionID)
	if res.Meta.DecisionVersion != "" {
		fmt.Fprintf(w, " %s", faint("(version "+res.Meta.DecisionVersion+")"))
	}
	fmt.Fprintln(w)

	if res.Meta.ProfileID != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Profile:"), res.Meta.ProfileID)
	}

	status := string(res.Status)
	switch res.Status {
	case StatusOK:
		status = green(status)
	case StatusNoMatch:
		status = yellow(status)
	default:
		status = red(status)
	}
	fmt.Fprintf(w, "%s %s\n", bold("Status:"), status)

	if res.Meta.Explanation != "" {
		label := "Explanation:"
		if res.Status == StatusOK {
			label = "Reason:"
		}
		fmt.Fprintf(w, "%s %s\n", bold(label), res.Meta.Explanation)
	}

	if len(res.Meta.EvaluatedRules) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"", "Rule", "Explanation"})

		for _, entry := range res.Meta.EvaluatedRules {
			icon := red("✖")
			if entry.Matched {
				icon = green("✔")
			}
			t.AppendRow(table.Row{
				icon,
				bold(entry.RuleID),
				faint(truncate(entry.Explanation, 64)),
			})
		}

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
	}

	if res.Status == StatusOK && res.Data != nil {
		fmt.Fprintf(w, "%s\n%s", bold("Data:"), faint(spew.Sdump(res.Data)))
	}
}

// PrintResult renders res to stdout.
func PrintResult(res Result) {
	FprintResult(os.Stdout, res)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
