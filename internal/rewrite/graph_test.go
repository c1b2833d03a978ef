package rewrite

import (
	"testing"
	"time"
)

func testSignature(when time.Time) Signature {
	return Signature{Name: "Test", Email: "test@example.com", When: when}
}

// testCommit builds a commit with a synthetic ID. Planner tests only
// need IDs to be unique strings; content-derived IDs appear once a
// commit is rewritten.
func testCommit(id string, parents []string, message string) *Commit {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))
	return &Commit{
		ID:        id,
		TreeID:    "4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		Parents:   parents,
		Author:    testSignature(when),
		Committer: testSignature(when),
		Message:   message,
	}
}

func TestTopologicalOrder_Linear(t *testing.T) {
	g := NewGraph()
	g.Add(testCommit("a1", nil, "first"))
	g.Add(testCommit("b2", []string{"a1"}, "second"))
	g.Add(testCommit("c3", []string{"b2"}, "third"))
	g.Refs = []Ref{{Name: "refs/heads/main", Tip: "c3"}}

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("Expected 3 commits, got %d", len(order))
	}

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	if pos["a1"] > pos["b2"] || pos["b2"] > pos["c3"] {
		t.Errorf("Order %v does not respect ancestry", order)
	}
}

func TestTopologicalOrder_Merge(t *testing.T) {
	g := NewGraph()
	g.Add(testCommit("a1", nil, "root"))
	g.Add(testCommit("b2", []string{"a1"}, "left"))
	g.Add(testCommit("c3", []string{"a1"}, "right"))
	g.Add(testCommit("d4", []string{"b2", "c3"}, "merge"))

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder: %v", err)
	}

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	for _, parent := range []string{"a1", "b2", "c3"} {
		if pos[parent] > pos["d4"] {
			t.Errorf("Parent %s ordered after merge commit", parent)
		}
	}
}

func TestTopologicalOrder_CycleFails(t *testing.T) {
	g := NewGraph()
	g.Add(testCommit("a1", []string{"b2"}, "broken"))
	g.Add(testCommit("b2", []string{"a1"}, "broken"))

	if _, err := g.TopologicalOrder(); err == nil {
		t.Fatal("Expected error for cyclic graph, got nil")
	}
}

func TestContentID_Deterministic(t *testing.T) {
	c := testCommit("ignored", []string{"0123456789012345678901234567890123456789"}, "message\n")

	first := c.ContentID()
	second := c.ContentID()
	if first != second {
		t.Errorf("ContentID not deterministic: %s vs %s", first, second)
	}
	if len(first) != 40 {
		t.Errorf("ContentID length = %d, expected 40", len(first))
	}
}

func TestContentID_MessageChangesID(t *testing.T) {
	a := testCommit("x", nil, "one")
	b := testCommit("x", nil, "two")

	if a.ContentID() == b.ContentID() {
		t.Error("Different messages produced the same content ID")
	}
}

func TestContentID_ParentChangesID(t *testing.T) {
	a := testCommit("x", []string{"1111111111111111111111111111111111111111"}, "same")
	b := testCommit("x", []string{"2222222222222222222222222222222222222222"}, "same")

	if a.ContentID() == b.ContentID() {
		t.Error("Different parents produced the same content ID")
	}
}

func TestSubject_FirstLineOnly(t *testing.T) {
	c := testCommit("x", nil, "subject line\n\nbody text\n")
	if got := c.Subject(); got != "subject line" {
		t.Errorf("Subject() = %q, expected %q", got, "subject line")
	}
}
