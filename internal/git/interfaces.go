package git

import (
	"context"

	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// GraphSource loads the reachable commit graph from a repository.
// This abstraction allows for easier testing and potential alternative implementations.
type GraphSource interface {
	LoadGraph(ctx context.Context) (*rewrite.Graph, error)
}

// PlanApplier writes a rewrite plan into a repository.
type PlanApplier interface {
	Apply(ctx context.Context, plan *rewrite.Plan) (*ApplyResult, error)
}

// Compile-time interface conformance checks.
var (
	_ GraphSource = (*Repository)(nil)
	_ PlanApplier = (*Repository)(nil)
	_ GraphSource = (*MockRepository)(nil)
	_ PlanApplier = (*MockRepository)(nil)
)
