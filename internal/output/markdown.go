package output

import (
	"fmt"
	"strings"
)

// MarkdownPlanWriter writes rewrite plan reports as Markdown.
type MarkdownPlanWriter struct{}

// Write outputs the plan report as Markdown.
func (w *MarkdownPlanWriter) Write(report *PlanReport, options OutputOptions) error {
	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if report.Applied {
		fmt.Fprintln(out, "# History Rewrite Applied")
	} else {
		fmt.Fprintln(out, "# History Rewrite Plan (dry run)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "**Commits inspected:** %d\n\n", report.TotalCommits)
	fmt.Fprintf(out, "**Commits rewritten:** %d\n\n", len(report.Rewrites))

	if len(report.Rewrites) > 0 {
		fmt.Fprintln(out, "## Rewritten Commits")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Old ID | New ID | Change | Message |")
		fmt.Fprintln(out, "|--------|--------|--------|---------|")
		for _, rw := range limitTop(report.Rewrites, options.Top) {
			change := "reparent"
			if rw.MatchedRule != nil {
				change = "message"
			}
			fmt.Fprintf(out, "| %s | %s | %s | %s |\n",
				shortID(rw.OldID), shortID(rw.NewID), change, escapeMarkdown(firstLine(rw.NewMessage)))
		}
		fmt.Fprintln(out)
	}

	if len(report.Unmatched) > 0 {
		fmt.Fprintln(out, "## Unmatched Rules")
		fmt.Fprintln(out)
		for _, rule := range report.Unmatched {
			fmt.Fprintf(out, "- `%s` matched no commit\n", rule.Match)
		}
		fmt.Fprintln(out)
	}

	if len(report.Updates) > 0 {
		fmt.Fprintln(out, "## Updated Refs")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| Ref | Old Tip | New Tip | Backup |")
		fmt.Fprintln(out, "|-----|---------|---------|--------|")
		for _, up := range report.Updates {
			fmt.Fprintf(out, "| %s | %s | %s | %s |\n",
				up.Name, shortID(up.OldTip), shortID(up.NewTip), up.BackupRef)
		}
		fmt.Fprintln(out)
	}

	return nil
}

// MarkdownVerifyWriter writes verification reports as Markdown.
type MarkdownVerifyWriter struct{}

// Write outputs the verification report as Markdown.
func (w *MarkdownVerifyWriter) Write(report *VerifyReport, options OutputOptions) error {
	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	res := report.Result

	fmt.Fprintln(out, "# Rewrite Verification")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))

	fmt.Fprintln(out, "## Rules")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| Rule | Status | Commit | Message |")
	fmt.Fprintln(out, "|------|--------|--------|---------|")
	for _, r := range res.Rules {
		fmt.Fprintf(out, "| %s | %s | %s | %s |\n",
			r.Rule.Match, r.Status, shortID(r.Commit), escapeMarkdown(r.Message))
	}
	fmt.Fprintln(out)

	if len(res.Backups) > 0 {
		fmt.Fprintln(out, "## Backup Refs")
		fmt.Fprintln(out)
		for _, b := range res.Backups {
			if b.OK {
				fmt.Fprintf(out, "- `%s` -> `%s`\n", b.BackupRef, shortID(b.GotTip))
			} else {
				fmt.Fprintf(out, "- `%s` missing or wrong tip (want `%s`)\n", b.BackupRef, shortID(b.WantTip))
			}
		}
		fmt.Fprintln(out)
	}

	if len(res.Recent) > 0 {
		fmt.Fprintln(out, "## Recent History")
		fmt.Fprintln(out)
		for _, line := range res.Recent {
			fmt.Fprintf(out, "- `%s` %s\n", line.ID, escapeMarkdown(line.Subject))
		}
		fmt.Fprintln(out)
	}

	return nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
