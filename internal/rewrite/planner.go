package rewrite

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition failures. The operation never
// partially applies: when any of these is returned, nothing changed.
var (
	ErrNoRules       = errors.New("no rewrite rules configured")
	ErrAmbiguousRule = errors.New("ambiguous rule")
)

// Rewrite describes one commit whose stored object changes.
// MatchedRule is non-nil when the commit's message was replaced by a
// rule; it is nil for descendants that only picked up new parent IDs.
type Rewrite struct {
	OldID       string
	NewID       string
	MatchedRule *Rule
	OldMessage  string
	NewMessage  string
}

// Plan is the pure result of rewriting a graph against a rule table.
// Nothing in the repository has changed when a Plan exists; applying
// it is a separate, explicit step.
type Plan struct {
	// Graph is the rewritten graph, keyed by new IDs.
	Graph *Graph
	// Mapping maps every original commit ID to its new ID. Untouched
	// commits map to themselves.
	Mapping map[string]string
	// Rewrites lists changed commits in ancestor-before-descendant
	// order.
	Rewrites []Rewrite
	// Unmatched lists rules that matched no commit. On a history that
	// was already rewritten this is every rule, and the plan is a
	// no-op.
	Unmatched []Rule
}

// IsNoop reports whether applying the plan would change anything.
func (p *Plan) IsNoop() bool {
	return len(p.Rewrites) == 0
}

// NewTip returns the rewritten tip for a ref name.
func (p *Plan) NewTip(name string) string {
	return p.Graph.TipOf(name)
}

// BuildPlan computes the rewritten history for the given graph and
// rule table in a single topological pass. Commits matched by a rule
// get the rule's literal message; every descendant of a changed commit
// gets remapped parent IDs and therefore a new content-derived ID; all
// other commits pass through unchanged, keeping their identity.
//
// Tree contents, authorship, and committer timestamps are preserved
// verbatim. A rule prefix matching more than one commit is rejected.
func BuildPlan(g *Graph, table *Table) (*Plan, error) {
	if table == nil {
		return nil, ErrNoRules
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	// A 7-char prefix is assumed unique; verify before touching anything.
	if err := checkRuleCollisions(g, table); err != nil {
		return nil, err
	}

	plan := &Plan{
		Graph:   NewGraph(),
		Mapping: make(map[string]string, len(g.Commits)),
	}

	for _, id := range order {
		c := g.Commits[id]

		rule, matched := table.Lookup(id)
		parentsChanged := false
		for _, p := range c.Parents {
			if newP, ok := plan.Mapping[p]; ok && newP != p {
				parentsChanged = true
				break
			}
		}

		if !matched && !parentsChanged {
			// Pass-through: identity mapping, same object.
			plan.Mapping[id] = id
			plan.Graph.Add(c)
			continue
		}

		next := c.Clone()
		for i, p := range next.Parents {
			if newP, ok := plan.Mapping[p]; ok {
				next.Parents[i] = newP
			}
		}
		if matched {
			next.Message = rule.Message
		}
		next.ID = next.ContentID()

		plan.Mapping[id] = next.ID
		plan.Graph.Add(next)

		rw := Rewrite{
			OldID:      id,
			NewID:      next.ID,
			OldMessage: c.Message,
			NewMessage: next.Message,
		}
		if matched {
			r := rule
			rw.MatchedRule = &r
		}
		plan.Rewrites = append(plan.Rewrites, rw)
	}

	// Remap ref tips.
	plan.Graph.Refs = make([]Ref, len(g.Refs))
	for i, ref := range g.Refs {
		tip := ref.Tip
		if newTip, ok := plan.Mapping[tip]; ok {
			tip = newTip
		}
		plan.Graph.Refs[i] = Ref{Name: ref.Name, Tip: tip}
	}

	// Record rules that matched nothing (idempotent re-run case).
	for _, r := range table.Rules() {
		found := false
		for id := range g.Commits {
			if r.Matches(id) {
				found = true
				break
			}
		}
		if !found {
			plan.Unmatched = append(plan.Unmatched, r)
		}
	}

	return plan, nil
}

func checkRuleCollisions(g *Graph, table *Table) error {
	for _, r := range table.Rules() {
		hits := 0
		for id := range g.Commits {
			if r.Matches(id) {
				hits++
			}
		}
		if hits > 1 {
			return fmt.Errorf("%w: identifier %q matches %d commits", ErrAmbiguousRule, r.Match, hits)
		}
	}
	return nil
}
