package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONPlanWriter writes rewrite plan reports as JSON.
type JSONPlanWriter struct{}

// JSONPlanReport is the JSON output structure for a rewrite plan.
type JSONPlanReport struct {
	RepoPath     string          `json:"repo"`
	GeneratedAt  string          `json:"generatedAt"`
	Applied      bool            `json:"applied"`
	TotalCommits int             `json:"totalCommits"`
	Rewrites     []JSONRewrite   `json:"rewrites"`
	Unmatched    []JSONRule      `json:"unmatchedRules,omitempty"`
	Updates      []JSONRefUpdate `json:"refUpdates,omitempty"`
}

// JSONRewrite is the JSON output structure for a single rewritten commit.
type JSONRewrite struct {
	OldID      string `json:"oldId"`
	NewID      string `json:"newId"`
	Rule       string `json:"rule,omitempty"`
	OldMessage string `json:"oldMessage"`
	NewMessage string `json:"newMessage"`
}

// JSONRule is the JSON output structure for a rewrite rule.
type JSONRule struct {
	Commit  string `json:"commit"`
	Message string `json:"message"`
}

// JSONRefUpdate is the JSON output structure for a moved ref.
type JSONRefUpdate struct {
	Name      string `json:"name"`
	OldTip    string `json:"oldTip"`
	NewTip    string `json:"newTip"`
	BackupRef string `json:"backupRef"`
}

// Write outputs the plan report as JSON.
func (w *JSONPlanWriter) Write(report *PlanReport, options OutputOptions) error {
	rewrites := make([]JSONRewrite, 0, len(report.Rewrites))
	for _, rw := range limitTop(report.Rewrites, options.Top) {
		item := JSONRewrite{
			OldID:      rw.OldID,
			NewID:      rw.NewID,
			OldMessage: rw.OldMessage,
			NewMessage: rw.NewMessage,
		}
		if rw.MatchedRule != nil {
			item.Rule = rw.MatchedRule.Match
		}
		rewrites = append(rewrites, item)
	}

	unmatched := make([]JSONRule, 0, len(report.Unmatched))
	for _, rule := range report.Unmatched {
		unmatched = append(unmatched, JSONRule{Commit: rule.Match, Message: rule.Message})
	}

	updates := make([]JSONRefUpdate, 0, len(report.Updates))
	for _, up := range report.Updates {
		updates = append(updates, JSONRefUpdate{
			Name:      up.Name,
			OldTip:    up.OldTip,
			NewTip:    up.NewTip,
			BackupRef: up.BackupRef,
		})
	}

	jsonReport := JSONPlanReport{
		RepoPath:     report.RepoPath,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Applied:      report.Applied,
		TotalCommits: report.TotalCommits,
		Rewrites:     rewrites,
		Unmatched:    unmatched,
		Updates:      updates,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONVerifyWriter writes verification reports as JSON.
type JSONVerifyWriter struct{}

// JSONVerifyReport is the JSON output structure for verification.
type JSONVerifyReport struct {
	RepoPath    string           `json:"repo"`
	GeneratedAt string           `json:"generatedAt"`
	Clean       bool             `json:"clean"`
	BackupsOK   bool             `json:"backupsOk"`
	Rules       []JSONRuleResult `json:"rules"`
	Backups     []JSONBackup     `json:"backups,omitempty"`
	Recent      []JSONHistory    `json:"recent,omitempty"`
}

// JSONRuleResult is the JSON output structure for one rule outcome.
type JSONRuleResult struct {
	Rule    string `json:"rule"`
	Status  string `json:"status"`
	Commit  string `json:"commit,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONBackup is the JSON output structure for one backup check.
type JSONBackup struct {
	BackupRef string `json:"backupRef"`
	WantTip   string `json:"wantTip"`
	GotTip    string `json:"gotTip,omitempty"`
	OK        bool   `json:"ok"`
}

// JSONHistory is the JSON output structure for one history line.
type JSONHistory struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
}

// Write outputs the verification report as JSON.
func (w *JSONVerifyWriter) Write(report *VerifyReport, options OutputOptions) error {
	res := report.Result

	rules := make([]JSONRuleResult, 0, len(res.Rules))
	for _, r := range res.Rules {
		rules = append(rules, JSONRuleResult{
			Rule:    r.Rule.Match,
			Status:  string(r.Status),
			Commit:  r.Commit,
			Message: r.Message,
		})
	}

	backups := make([]JSONBackup, 0, len(res.Backups))
	for _, b := range res.Backups {
		backups = append(backups, JSONBackup{
			BackupRef: b.BackupRef,
			WantTip:   b.WantTip,
			GotTip:    b.GotTip,
			OK:        b.OK,
		})
	}

	recent := make([]JSONHistory, 0, len(res.Recent))
	for _, line := range res.Recent {
		recent = append(recent, JSONHistory{ID: line.ID, Subject: line.Subject})
	}

	jsonReport := JSONVerifyReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Clean:       res.Clean(),
		BackupsOK:   res.BackupsOK(),
		Rules:       rules,
		Backups:     backups,
		Recent:      recent,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
