package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/masmgr/msgfix-go/internal/rewrite"
)

// Precondition errors. When one of these is returned, nothing in the
// repository has been touched.
var (
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")
	ErrBackupExists  = errors.New("backup refs already exist")
)

// Options configures repository access.
type Options struct {
	RepoPath     string
	Include      []string // Ref-name glob patterns, e.g. refs/heads/**
	Exclude      []string
	BackupPrefix string // Backup refs live under refs/<BackupPrefix>/
}

// Repository wraps a local Git repository for graph loading and
// plan application.
type Repository struct {
	repo *gogit.Repository
	opts Options
}

// Open opens the repository at opts.RepoPath.
func Open(opts Options) (*Repository, error) {
	if len(opts.Include) == 0 {
		opts.Include = []string{"refs/heads/**"}
	}
	if opts.BackupPrefix == "" {
		opts.BackupPrefix = "backup"
	}
	repo, err := gogit.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo, opts: opts}, nil
}

// backupNamespace returns the full ref prefix for backups.
func (r *Repository) backupNamespace() string {
	return "refs/" + strings.Trim(r.opts.BackupPrefix, "/") + "/"
}

// matchesRef checks a full ref name against the include/exclude globs.
// Backup refs are never selected for rewriting.
func (r *Repository) matchesRef(name string) bool {
	if strings.HasPrefix(name, r.backupNamespace()) {
		return false
	}
	for _, pattern := range r.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}
	for _, pattern := range r.opts.Include {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// EnsureClean fails with ErrDirtyWorktree when the working tree has
// uncommitted changes. Bare repositories have no worktree and pass.
func (r *Repository) EnsureClean() error {
	wt, err := r.repo.Worktree()
	if errors.Is(err, gogit.ErrIsBareRepository) {
		return nil
	}
	if err != nil {
		return err
	}
	status, err := wt.Status()
	if err != nil {
		return err
	}
	if !status.IsClean() {
		return fmt.Errorf("%w: commit or stash before rewriting", ErrDirtyWorktree)
	}
	return nil
}

// EnsureNoBackup fails with ErrBackupExists when any ref already lives
// under the backup namespace. A leftover backup means a previous
// rewrite ran here; overwriting it would destroy the only recovery
// pointer.
func (r *Repository) EnsureNoBackup() error {
	iter, err := r.repo.References()
	if err != nil {
		return err
	}
	defer iter.Close()

	ns := r.backupNamespace()
	return iter.ForEach(func(ref *plumbing.Reference) error {
		if strings.HasPrefix(ref.Name().String(), ns) {
			return fmt.Errorf("%w: %s (delete or rename it first)", ErrBackupExists, ref.Name())
		}
		return nil
	})
}

// LoadGraph walks every commit reachable from the selected refs and
// returns them as an explicit graph.
func (r *Repository) LoadGraph(ctx context.Context) (*rewrite.Graph, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	graph := rewrite.NewGraph()
	var tips []plumbing.Hash

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name().String()
		if !r.matchesRef(name) {
			return nil
		}
		graph.Refs = append(graph.Refs, rewrite.Ref{Name: name, Tip: ref.Hash().String()})
		tips = append(tips, ref.Hash())
		return nil
	})
	if err != nil {
		return nil, err
	}

	queue := tips
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := queue[0]
		queue = queue[1:]
		if _, ok := graph.Commits[h.String()]; ok {
			continue
		}

		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h, err)
		}
		graph.Add(toModel(c))

		queue = append(queue, c.ParentHashes...)
	}

	return graph, nil
}

func toModel(c *object.Commit) *rewrite.Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	return &rewrite.Commit{
		ID:      c.Hash.String(),
		TreeID:  c.TreeHash.String(),
		Parents: parents,
		Author: rewrite.Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: rewrite.Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message: c.Message,
	}
}
