package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepo wraps a temporary repository with commit helpers.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	seq  int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	r.seq++
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Hour)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	hash, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash
}

func (r *testRepo) open(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(Options{RepoPath: r.dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return repo
}

func TestLoadGraph_CollectsAllCommitsAndRefs(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	first := tr.commit("first")
	tr.write("a.txt", "two\n")
	second := tr.commit("second")

	repo := tr.open(t)
	graph, err := repo.LoadGraph(context.Background())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}

	if len(graph.Commits) != 2 {
		t.Fatalf("Expected 2 commits, got %d", len(graph.Commits))
	}
	if _, ok := graph.Commits[first.String()]; !ok {
		t.Errorf("Missing commit %s", first)
	}
	if len(graph.Refs) != 1 {
		t.Fatalf("Expected 1 ref, got %d", len(graph.Refs))
	}
	if graph.Refs[0].Tip != second.String() {
		t.Errorf("Tip = %s, expected %s", graph.Refs[0].Tip, second)
	}

	c := graph.Commits[second.String()]
	if c.Message != "second" {
		t.Errorf("Message = %q", c.Message)
	}
	if len(c.Parents) != 1 || c.Parents[0] != first.String() {
		t.Errorf("Parents = %v", c.Parents)
	}
}

func TestLoadGraph_SkipsBackupRefs(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	tip := tr.commit("first")

	backup := plumbing.NewHashReference("refs/backup/master", tip)
	if err := tr.repo.Storer.SetReference(backup); err != nil {
		t.Fatalf("SetReference: %v", err)
	}

	repo := tr.open(t)
	graph, err := repo.LoadGraph(context.Background())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}

	for _, ref := range graph.Refs {
		if ref.Name == "refs/backup/master" {
			t.Error("Backup ref selected for rewriting")
		}
	}
}

func TestEnsureClean_DirtyWorktree(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	tr.commit("first")

	// Stage a change without committing.
	tr.write("a.txt", "dirty\n")

	repo := tr.open(t)
	if err := repo.EnsureClean(); !errors.Is(err, ErrDirtyWorktree) {
		t.Errorf("EnsureClean = %v, expected ErrDirtyWorktree", err)
	}
}

func TestEnsureClean_CleanWorktree(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	tr.commit("first")

	repo := tr.open(t)
	if err := repo.EnsureClean(); err != nil {
		t.Errorf("EnsureClean: %v", err)
	}
}

func TestEnsureNoBackup_ExistingBackupFails(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	tip := tr.commit("first")

	repo := tr.open(t)
	if err := repo.EnsureNoBackup(); err != nil {
		t.Fatalf("EnsureNoBackup on fresh repo: %v", err)
	}

	backup := plumbing.NewHashReference("refs/backup/master", tip)
	if err := tr.repo.Storer.SetReference(backup); err != nil {
		t.Fatalf("SetReference: %v", err)
	}

	if err := repo.EnsureNoBackup(); !errors.Is(err, ErrBackupExists) {
		t.Errorf("EnsureNoBackup = %v, expected ErrBackupExists", err)
	}
}

func TestMatchesRef_Globs(t *testing.T) {
	repo := &Repository{opts: Options{
		Include:      []string{"refs/heads/**"},
		Exclude:      []string{"refs/heads/wip/**"},
		BackupPrefix: "backup",
	}}

	tests := []struct {
		name string
		want bool
	}{
		{"refs/heads/main", true},
		{"refs/heads/feature/x", true},
		{"refs/heads/wip/scratch", false},
		{"refs/tags/v1.0.0", false},
		{"refs/backup/main", false},
	}

	for _, tt := range tests {
		if got := repo.matchesRef(tt.name); got != tt.want {
			t.Errorf("matchesRef(%q) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}
