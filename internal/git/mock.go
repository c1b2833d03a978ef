package git

import (
	"context"

	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// MockRepository is a test double for Repository.
// It allows tests to provide a predefined commit graph without needing
// a real Git repository.
type MockRepository struct {
	Graph    *rewrite.Graph
	LoadErr  error
	ApplyErr error

	// AppliedPlans records every plan passed to Apply.
	AppliedPlans []*rewrite.Plan
	Result       *ApplyResult
}

// NewMockRepository creates a MockRepository serving the given graph.
func NewMockRepository(graph *rewrite.Graph) *MockRepository {
	return &MockRepository{Graph: graph, Result: &ApplyResult{}}
}

// LoadGraph returns the predefined graph or error.
func (m *MockRepository) LoadGraph(_ context.Context) (*rewrite.Graph, error) {
	return m.Graph, m.LoadErr
}

// Apply records the plan and returns the predefined result or error.
func (m *MockRepository) Apply(_ context.Context, plan *rewrite.Plan) (*ApplyResult, error) {
	m.AppliedPlans = append(m.AppliedPlans, plan)
	if m.ApplyErr != nil {
		return nil, m.ApplyErr
	}
	return m.Result, nil
}
