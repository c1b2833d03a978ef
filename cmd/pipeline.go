package cmd

import (
	"context"
	"fmt"

	gitpkg "github.com/masmgr/msgfix-go/internal/git"
	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// planRewrite loads the reachable history from src and computes the
// rewrite plan for it. It never mutates the repository.
func planRewrite(ctx context.Context, src gitpkg.GraphSource, table *rewrite.Table) (*rewrite.Graph, *rewrite.Plan, error) {
	graph, err := src.LoadGraph(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read history: %w", err)
	}

	plan, err := rewrite.BuildPlan(graph, table)
	if err != nil {
		return nil, nil, err
	}
	return graph, plan, nil
}

// applyRewrite writes a planned rewrite through applier.
func applyRewrite(ctx context.Context, applier gitpkg.PlanApplier, plan *rewrite.Plan) (*gitpkg.ApplyResult, error) {
	result, err := applier.Apply(ctx, plan)
	if err != nil {
		// Backups written before the failure are left in place on
		// purpose; they are the only recovery pointers.
		return nil, fmt.Errorf("rewrite failed: %w", err)
	}
	return result, nil
}
