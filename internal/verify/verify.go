// Package verify checks a repository state against the rule table
// after (or instead of) a rewrite. It reports discrepancies rather
// than failing silently: history rewriting is manually supervised, so
// the operator gets both an automated report and a recent-history
// listing for a visual check.
package verify

import (
	"sort"
	"strings"

	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// RuleStatus classifies the outcome for one rule.
type RuleStatus string

const (
	// StatusApplied means no commit carries the original ID and some
	// commit carries the literal replacement message.
	StatusApplied RuleStatus = "applied"
	// StatusPending means a commit still matches the original ID.
	StatusPending RuleStatus = "pending"
	// StatusAbsent means neither the original ID nor the replacement
	// message is present. On a freshly rewritten history this is a
	// discrepancy; on an unrelated repository it just means the rule
	// does not apply.
	StatusAbsent RuleStatus = "absent"
)

// RuleResult is the verification outcome for a single rule.
type RuleResult struct {
	Rule    rewrite.Rule
	Status  RuleStatus
	Commit  string // Commit found for the rule, old ID if pending, new ID if applied
	Message string
}

// BackupResult checks the backup invariant for one ref: a backup ref
// must exist and point at the pre-rewrite tip.
type BackupResult struct {
	BackupRef string
	WantTip   string
	GotTip    string
	OK        bool
}

// Report is the full verification result.
type Report struct {
	Rules   []RuleResult
	Backups []BackupResult
	Recent  []HistoryLine
}

// HistoryLine is one entry of the recent-history listing.
type HistoryLine struct {
	ID      string
	Subject string
}

// Clean reports whether no rule is pending: either everything was
// applied or nothing matched (the idempotent re-run case).
func (r *Report) Clean() bool {
	for _, res := range r.Rules {
		if res.Status == StatusPending {
			return false
		}
	}
	return true
}

// BackupsOK reports whether every expected backup ref exists with the
// pre-rewrite tip.
func (r *Report) BackupsOK() bool {
	for _, b := range r.Backups {
		if !b.OK {
			return false
		}
	}
	return true
}

// Applied counts rules whose replacement message is present.
func (r *Report) Applied() int {
	n := 0
	for _, res := range r.Rules {
		if res.Status == StatusApplied {
			n++
		}
	}
	return n
}

// Check verifies the graph against the rule table and, when expected
// backups are given, against the backup invariant (a backup ref must
// exist and point at the pre-rewrite tip).
func Check(graph *rewrite.Graph, table *rewrite.Table, expected []rewrite.Ref, actual []rewrite.Ref) *Report {
	report := &Report{}

	for _, rule := range table.Rules() {
		res := RuleResult{Rule: rule, Status: StatusAbsent}
		for id, c := range graph.Commits {
			if rule.Matches(id) {
				res.Status = StatusPending
				res.Commit = id
				res.Message = c.Subject()
				break
			}
			if strings.TrimRight(c.Message, "\n") == rule.Message {
				res.Status = StatusApplied
				res.Commit = id
				res.Message = c.Subject()
			}
		}
		report.Rules = append(report.Rules, res)
	}

	tips := make(map[string]string, len(actual))
	for _, ref := range actual {
		tips[ref.Name] = ref.Tip
	}
	for _, want := range expected {
		got, ok := tips[want.Name]
		report.Backups = append(report.Backups, BackupResult{
			BackupRef: want.Name,
			WantTip:   want.Tip,
			GotTip:    got,
			OK:        ok && got == want.Tip,
		})
	}

	return report
}

// RecentHistory walks first-parent history from the given tip and
// returns up to limit oneline entries, newest first.
func RecentHistory(graph *rewrite.Graph, tip string, limit int) []HistoryLine {
	var lines []HistoryLine
	id := tip
	for id != "" && len(lines) < limit {
		c, ok := graph.Commits[id]
		if !ok {
			break
		}
		lines = append(lines, HistoryLine{ID: shortID(id), Subject: c.Subject()})
		if len(c.Parents) == 0 {
			break
		}
		id = c.Parents[0]
	}
	return lines
}

// SortedRefs returns ref names in a stable order for display.
func SortedRefs(refs []rewrite.Ref) []rewrite.Ref {
	out := append([]rewrite.Ref(nil), refs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
