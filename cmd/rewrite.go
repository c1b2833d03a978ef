package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	gitpkg "github.com/masmgr/msgfix-go/internal/git"
	"github.com/masmgr/msgfix-go/internal/output"
	"github.com/masmgr/msgfix-go/internal/rewrite"
	"github.com/masmgr/msgfix-go/internal/verify"
	"github.com/urfave/cli/v2"
)

// RewriteCmd creates the rewrite command: the full load, plan, apply,
// verify pipeline.
func RewriteCmd() *cli.Command {
	return &cli.Command{
		Name:      "rewrite",
		Usage:     "Rewrite matching commit messages across all selected refs",
		ArgsUsage: "[repository path]",
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Plan only; do not touch the repository",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		),
		Action: rewriteAction,
	}
}

func rewriteAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	color.Green("Rewriting history in %v", ctx.RepoPath)

	// Preconditions before reading anything: a dirty worktree or a
	// leftover backup aborts with zero mutation.
	if !c.Bool("dry-run") {
		color.Blue("Checking preconditions...")
		if err := ctx.Repo.EnsureClean(); err != nil {
			return err
		}
		if err := ctx.Repo.EnsureNoBackup(); err != nil {
			return err
		}
	}

	color.Blue("Loading commit graph and planning rewrite...")
	graph, plan, err := planRewrite(c.Context, ctx.Repo, ctx.Table)
	if err != nil {
		return err
	}

	report := &output.PlanReport{
		RepoPath:     ctx.RepoPath,
		GeneratedAt:  time.Now(),
		TotalCommits: len(graph.Commits),
		Rewrites:     plan.Rewrites,
		Unmatched:    plan.Unmatched,
	}

	if c.Bool("dry-run") || plan.IsNoop() {
		return output.NewPlanReportWriter(getOutputFormat(c.String("format"))).Write(report, OutputOptions(c))
	}

	if !c.Bool("yes") && !confirmRewrite(plan) {
		color.Yellow("Aborted. Nothing was changed.")
		return nil
	}

	color.Blue("Backing up refs and rewriting %d commits...", len(plan.Rewrites))
	result, err := applyRewrite(c.Context, ctx.Repo, plan)
	if err != nil {
		return err
	}

	report.Applied = true
	report.Updates = result.Updates
	if err := output.NewPlanReportWriter(getOutputFormat(c.String("format"))).Write(report, OutputOptions(c)); err != nil {
		return err
	}

	color.Blue("Verifying...")
	if err := runVerification(c, ctx, result.Updates); err != nil {
		return err
	}

	printForcePushInstruction(result.Updates)
	return nil
}

// confirmRewrite asks the operator to confirm the destructive step.
func confirmRewrite(plan *rewrite.Plan) bool {
	fmt.Printf("About to rewrite %d commits. This changes commit IDs and cannot be undone\n", len(plan.Rewrites))
	fmt.Print("except via the backup refs. Continue? [y/N]: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// runVerification re-reads the rewritten graph and checks it, mirroring
// the manual "look at the log afterwards" step.
func runVerification(c *cli.Context, ctx *CommandContext, updates []gitpkg.RefUpdate) error {
	graph, err := ctx.Repo.LoadGraph(c.Context)
	if err != nil {
		return fmt.Errorf("failed to re-read history: %w", err)
	}

	backups, err := ctx.Repo.BackupTips()
	if err != nil {
		return err
	}

	expected := make([]rewrite.Ref, len(updates))
	for i, up := range updates {
		expected[i] = rewrite.Ref{Name: up.BackupRef, Tip: up.OldTip}
	}

	report := verify.Check(graph, ctx.Table, expected, backups)
	for _, ref := range verify.SortedRefs(graph.Refs) {
		report.Recent = append(report.Recent, verify.RecentHistory(graph, ref.Tip, ctx.Config.Verify.RecentCommits)...)
		break // Recent history of the first ref is enough for the visual check.
	}

	writer := output.NewVerifyReportWriter(output.FormatConsole)
	if err := writer.Write(&output.VerifyReport{
		RepoPath:    ctx.RepoPath,
		GeneratedAt: time.Now(),
		Result:      report,
	}, OutputOptions(c)); err != nil {
		return err
	}

	if report.Applied() == 0 && len(updates) > 0 {
		return fmt.Errorf("verification failed: no rule replacement found after rewrite")
	}
	if !report.BackupsOK() {
		return fmt.Errorf("verification failed: backup ref invariant violated")
	}
	return nil
}

// printForcePushInstruction tells the operator how to converge a
// previously published remote. The tool never touches remotes itself,
// and it cannot know whether collaborators have since built on the old
// history; that judgement stays with the operator.
func printForcePushInstruction(updates []gitpkg.RefUpdate) {
	if len(updates) == 0 {
		return
	}
	fmt.Println("")
	color.Yellow("Local history rewritten. To update the remote, run:")
	for _, up := range updates {
		short := up.Name
		if idx := strings.LastIndex(short, "/"); idx != -1 {
			short = short[idx+1:]
		}
		color.Yellow("\tgit push --force origin %s", short)
	}
	color.Cyan("Warning: force-pushing discards any remote commits not present locally.")
}
