package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/masmgr/msgfix-go/internal/output"
	"github.com/urfave/cli/v2"
)

// PlanCmd creates the plan command. It computes the full rewrite plan
// and the old-to-new ID mapping without mutating the repository.
func PlanCmd() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Show what a rewrite would change, without touching the repository",
		ArgsUsage: "[repository path]",
		Flags:     commonFlags(),
		Action:    planAction,
	}
}

func planAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	color.Green("Planning rewrite for %v", ctx.RepoPath)

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

	return output.NewPlanReportWriter(getOutputFormat(c.String("format"))).Write(report, OutputOptions(c))
}
