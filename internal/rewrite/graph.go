package rewrite

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is an immutable node in the history graph. Its ID is derived
// from its content (tree, parents, signatures, message), so changing
// the message or a parent link yields a different ID.
type Commit struct {
	ID        string
	TreeID    string
	Parents   []string
	Author    Signature
	Committer Signature
	Message   string
}

// Ref is a named pointer to a commit ID.
type Ref struct {
	Name string
	Tip  string
}

// Graph holds every commit reachable from the refs, keyed by ID.
// It is an explicit value passed into the planner, never ambient state.
type Graph struct {
	Commits map[string]*Commit
	Refs    []Ref
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Commits: map[string]*Commit{}}
}

// Add inserts a commit into the graph.
func (g *Graph) Add(c *Commit) {
	g.Commits[c.ID] = c
}

// TipOf returns the tip of the named ref, or "" if absent.
func (g *Graph) TipOf(name string) string {
	for _, ref := range g.Refs {
		if ref.Name == name {
			return ref.Tip
		}
	}
	return ""
}

// TopologicalOrder returns all commit IDs ordered so that every parent
// appears before any of its children. The order is deterministic:
// ties are broken by ID. A cycle in the parent links means the graph
// is corrupt and yields an error.
func (g *Graph) TopologicalOrder() ([]string, error) {
	// Count unresolved parents per commit, considering only parents
	// that are present in the graph (shallow edges are tolerated).
	pending := make(map[string]int, len(g.Commits))
	children := make(map[string][]string, len(g.Commits))

	for id, c := range g.Commits {
		n := 0
		for _, p := range c.Parents {
			if _, ok := g.Commits[p]; ok {
				n++
				children[p] = append(children[p], id)
			}
		}
		pending[id] = n
	}

	ready := make([]string, 0, len(g.Commits))
	for id, n := range pending {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.Commits))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := children[id]
		sort.Strings(next)
		for _, child := range next {
			pending[child]--
			if pending[child] == 0 {
				ready = append(ready, child)
			}
		}
		sort.Strings(ready)
	}

	if len(order) != len(g.Commits) {
		return nil, fmt.Errorf("commit graph contains a cycle (%d of %d commits ordered)", len(order), len(g.Commits))
	}

	return order, nil
}

// encodeSignature renders a signature the way git stores it:
// "Name <email> <unix> <zone>".
func encodeSignature(s Signature) string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// CanonicalEncoding renders the commit in git's canonical commit
// object format (without the object header). Hashing this encoding
// with the header prefix reproduces git's own commit IDs, which lets
// the planner predict the IDs the applier will store.
func (c *Commit) CanonicalEncoding() []byte {
	var b strings.Builder
	b.WriteString("tree ")
	b.WriteString(c.TreeID)
	b.WriteByte('\n')
	for _, p := range c.Parents {
		b.WriteString("parent ")
		b.WriteString(p)
		b.WriteByte('\n')
	}
	b.WriteString("author ")
	b.WriteString(encodeSignature(c.Author))
	b.WriteByte('\n')
	b.WriteString("committer ")
	b.WriteString(encodeSignature(c.Committer))
	b.WriteByte('\n')
	b.WriteByte('\n')
	b.WriteString(c.Message)
	return []byte(b.String())
}

// ContentID computes the content-derived identifier of the commit:
// SHA-1 over "commit <size>\x00" + canonical encoding.
func (c *Commit) ContentID() string {
	body := c.CanonicalEncoding()
	h := sha1.New()
	h.Write([]byte("commit " + strconv.Itoa(len(body))))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Clone returns a deep copy of the commit.
func (c *Commit) Clone() *Commit {
	dup := *c
	dup.Parents = append([]string(nil), c.Parents...)
	return &dup
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	msg := c.Message
	if idx := strings.IndexByte(msg, '\n'); idx != -1 {
		msg = msg[:idx]
	}
	return msg
}
