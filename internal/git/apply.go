package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// RefUpdate records one ref moved by Apply.
type RefUpdate struct {
	Name      string
	OldTip    string
	NewTip    string
	BackupRef string
}

// ApplyResult summarizes what Apply changed.
type ApplyResult struct {
	ObjectsWritten int
	Updates        []RefUpdate
}

// Apply writes the plan into the repository. All new commit objects
// are stored before any ref moves; then every about-to-move ref is
// backed up under the backup namespace; only then are refs repointed.
// Cancellation is honored up to the first ref update. Once refs start
// moving the operation runs to completion or fails mid-way; a failure
// there never deletes backup refs.
func (r *Repository) Apply(ctx context.Context, plan *rewrite.Plan) (*ApplyResult, error) {
	result := &ApplyResult{}
	if plan.IsNoop() {
		return result, nil
	}

	// Phase 1: objects. Purely additive; aborting here leaves only
	// unreachable loose objects behind.
	for _, rw := range plan.Rewrites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, ok := plan.Graph.Commits[rw.NewID]
		if !ok {
			return nil, fmt.Errorf("plan is inconsistent: rewritten commit %s missing from graph", rw.NewID)
		}
		stored, err := r.storeCommit(c)
		if err != nil {
			return nil, fmt.Errorf("store rewritten commit for %s: %w", shortID(rw.OldID), err)
		}
		if stored != rw.NewID {
			return nil, fmt.Errorf("stored commit hash %s does not match planned %s", shortID(stored), shortID(rw.NewID))
		}
		result.ObjectsWritten++
	}

	// Collect moving refs.
	for _, ref := range plan.Graph.Refs {
		old, err := r.repo.Reference(plumbing.ReferenceName(ref.Name), true)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", ref.Name, err)
		}
		if old.Hash().String() == ref.Tip {
			continue
		}
		result.Updates = append(result.Updates, RefUpdate{
			Name:      ref.Name,
			OldTip:    old.Hash().String(),
			NewTip:    ref.Tip,
			BackupRef: r.backupRefName(ref.Name),
		})
	}

	// Phase 2: backups, all of them, before any ref moves.
	for _, up := range result.Updates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		backup := plumbing.NewHashReference(plumbing.ReferenceName(up.BackupRef), plumbing.NewHash(up.OldTip))
		if err := r.repo.Storer.SetReference(backup); err != nil {
			return nil, fmt.Errorf("create backup ref %s: %w", up.BackupRef, err)
		}
	}

	// Phase 3: ref updates. Not cancellable.
	for _, up := range result.Updates {
		ref := plumbing.NewHashReference(plumbing.ReferenceName(up.Name), plumbing.NewHash(up.NewTip))
		if err := r.repo.Storer.SetReference(ref); err != nil {
			return nil, fmt.Errorf("update %s: %w", up.Name, err)
		}
	}

	return result, nil
}

// storeCommit encodes a rewritten commit into the object database and
// returns its stored hash. Any signature the original commit carried
// is discarded: the signed content no longer exists.
func (r *Repository) storeCommit(c *rewrite.Commit) (string, error) {
	parents := make([]plumbing.Hash, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = plumbing.NewHash(p)
	}

	commit := &object.Commit{
		Author: object.Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: object.Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message:      c.Message,
		TreeHash:     plumbing.NewHash(c.TreeID),
		ParentHashes: parents,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return "", err
	}
	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// backupRefName maps refs/heads/main to refs/<prefix>/main.
func (r *Repository) backupRefName(name string) string {
	short := name
	if idx := strings.Index(short, "/"); idx != -1 {
		parts := strings.SplitN(short, "/", 3)
		if len(parts) == 3 {
			short = parts[2]
		}
	}
	return r.backupNamespace() + short
}

// BackupTips returns the refs currently stored under the backup
// namespace, as graph refs.
func (r *Repository) BackupTips() ([]rewrite.Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	ns := r.backupNamespace()
	var refs []rewrite.Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if strings.HasPrefix(ref.Name().String(), ns) {
			refs = append(refs, rewrite.Ref{Name: ref.Name().String(), Tip: ref.Hash().String()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
