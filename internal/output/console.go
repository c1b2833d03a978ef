package output

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsolePlanWriter writes rewrite plan reports to the console.
type ConsolePlanWriter struct{}

// Write outputs the plan report to the console.
func (w *ConsolePlanWriter) Write(report *PlanReport, options OutputOptions) error {
	if report.Applied {
		color.Green("History Rewrite Applied")
	} else {
		color.Green("History Rewrite Plan (dry run)")
	}
	fmt.Printf("Repository: %s\n", report.RepoPath)
	fmt.Printf("Commits inspected: %d\n", report.TotalCommits)
	fmt.Printf("Commits rewritten: %d\n\n", len(report.Rewrites))

	if len(report.Rewrites) == 0 {
		color.Yellow("Nothing to rewrite: no commit matches the rule table.")
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Old ID\tNew ID\tChange\tMessage")
		for _, rw := range limitTop(report.Rewrites, options.Top) {
			change := "reparent"
			if rw.MatchedRule != nil {
				change = "message"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				shortID(rw.OldID), shortID(rw.NewID), change, firstLine(rw.NewMessage))
		}
		tw.Flush()
	}

	for _, rule := range report.Unmatched {
		fmt.Println("")
		color.Yellow("Rule %s matched no commit (already rewritten, or wrong repository).", rule.Match)
	}

	if len(report.Updates) > 0 {
		fmt.Println("")
		colorTitle := color.New(color.FgGreen).Add(color.Underline)
		colorTitle.Println("Updated refs:")
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, up := range report.Updates {
			fmt.Fprintf(tw, "%s\t%s -> %s\t(backup: %s)\n",
				up.Name, shortID(up.OldTip), shortID(up.NewTip), up.BackupRef)
		}
		tw.Flush()
	}

	return nil
}

// ConsoleVerifyWriter writes verification reports to the console.
type ConsoleVerifyWriter struct{}

// Write outputs the verification report to the console.
func (w *ConsoleVerifyWriter) Write(report *VerifyReport, options OutputOptions) error {
	color.Green("Rewrite Verification")
	fmt.Printf("Repository: %s\n\n", report.RepoPath)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rule\tStatus\tCommit\tMessage")
	for _, res := range report.Result.Rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			res.Rule.Match, res.Status, shortID(res.Commit), res.Message)
	}
	tw.Flush()

	if len(report.Result.Backups) > 0 {
		fmt.Println("")
		colorTitle := color.New(color.FgGreen).Add(color.Underline)
		colorTitle.Println("Backup refs:")
		for _, b := range report.Result.Backups {
			if b.OK {
				color.Green("\t%s -> %s", b.BackupRef, shortID(b.GotTip))
			} else {
				color.Red("\t%s missing or wrong tip (want %s, got %s)",
					b.BackupRef, shortID(b.WantTip), shortID(b.GotTip))
			}
		}
	}

	if len(report.Result.Recent) > 0 {
		fmt.Println("")
		colorTitle := color.New(color.FgGreen).Add(color.Underline)
		colorTitle.Println("Recent history:")
		for _, line := range report.Result.Recent {
			fmt.Printf("\t%s %s\n", line.ID, line.Subject)
		}
	}

	fmt.Println("")
	if report.Result.Clean() {
		color.Green("No pending rewrites.")
	} else {
		color.Red("Pending rewrites remain; run the rewrite command.")
	}

	return nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
