package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	criterion "github.com/tomymaritano/criterion-sub000"
)

// In-memory SQLite gives every pool connection its own database, so the test
// pool is pinned to a single connection.
func newTestAuditor(t *testing.T) *SQLAuditor {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)

	auditor, err := NewSQLAuditor(db)
	if err != nil {
		t.Fatalf("NewSQLAuditor() error = %v, want nil", err)
	}
	t.Cleanup(func() { auditor.Close() })
	return auditor
}

func TestSQLAuditor_RoundTrip(t *testing.T) {
	auditor := newTestAuditor(t)

	entry := NewEntry(sampleResult(),
		WithInputFingerprint(map[string]any{"amount": 7500.0}),
		WithMetadata(map[string]any{"caller": "api"}),
	)
	if err := auditor.Log(entry); err != nil {
		t.Fatalf("Log() error = %v, want nil", err)
	}

	entries, err := auditor.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v, want nil", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Recent() returned %d entries, want 1", len(entries))
	}
	if diff := cmp.Diff(entry, entries[0]); diff != "" {
		t.Errorf("entry mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestSQLAuditor_RecentOrdersNewestFirst(t *testing.T) {
	auditor := newTestAuditor(t)

	base := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	ids := make([]string, 3)
	for i := 0; i < 3; i++ {
		entry := NewEntry(sampleResult())
		entry.Time = base.Add(time.Duration(i) * time.Minute)
		ids[i] = entry.ID
		if err := auditor.Log(entry); err != nil {
			t.Fatalf("Log() error = %v, want nil", err)
		}
	}

	entries, err := auditor.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v, want nil", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent(2) returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != ids[2] || entries[1].ID != ids[1] {
		t.Errorf("Recent(2) = [%s %s], want [%s %s]",
			entries[0].ID, entries[1].ID, ids[2], ids[1])
	}
}

func TestSQLAuditor_ByDecision(t *testing.T) {
	auditor := newTestAuditor(t)

	riskRes := sampleResult()
	loanRes := sampleResult()
	loanRes.Meta.DecisionID = "loan-eligibility"
	loanRes.Status = criterion.StatusNoMatch

	for _, res := range []criterion.Result{riskRes, loanRes, riskRes} {
		if err := auditor.Log(NewEntry(res)); err != nil {
			t.Fatalf("Log() error = %v, want nil", err)
		}
	}

	riskEntries, err := auditor.ByDecision("risk-score", 10)
	if err != nil {
		t.Fatalf("ByDecision() error = %v, want nil", err)
	}
	if len(riskEntries) != 2 {
		t.Fatalf("ByDecision(risk-score) returned %d entries, want 2", len(riskEntries))
	}
	for _, e := range riskEntries {
		if e.DecisionID != "risk-score" {
			t.Errorf("ByDecision(risk-score) returned decision %q", e.DecisionID)
		}
	}

	loanEntries, err := auditor.ByDecision("loan-eligibility", 10)
	if err != nil {
		t.Fatalf("ByDecision() error = %v, want nil", err)
	}
	if len(loanEntries) != 1 {
		t.Fatalf("ByDecision(loan-eligibility) returned %d entries, want 1", len(loanEntries))
	}
	if loanEntries[0].Status != string(criterion.StatusNoMatch) {
		t.Errorf("status = %q, want NO_MATCH", loanEntries[0].Status)
	}

	none, err := auditor.ByDecision("unknown", 10)
	if err != nil {
		t.Fatalf("ByDecision() error = %v, want nil", err)
	}
	if len(none) != 0 {
		t.Errorf("ByDecision(unknown) returned %d entries, want 0", len(none))
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	db, err := Open("sqlite://" + path)
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}

	auditor, err := NewSQLAuditor(db)
	if err != nil {
		t.Fatalf("NewSQLAuditor() error = %v, want nil", err)
	}
	defer auditor.Close()

	if err := auditor.Log(NewEntry(sampleResult())); err != nil {
		t.Fatalf("Log() error = %v, want nil", err)
	}
	entries, err := auditor.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error = %v, want nil", err)
	}
	if len(entries) != 1 {
		t.Errorf("Recent(1) returned %d entries, want 1", len(entries))
	}
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	if _, err := Open("mysql://root@localhost/audit"); err == nil {
		t.Errorf("Open() error = nil, want unsupported scheme error")
	}
}
