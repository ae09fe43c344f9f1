package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the committer time of the first fixture commit. Later commits are
// one hour apart so their order is unambiguous.
var Epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// GitRepo is a repository in a temporary directory.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	n    int
}

// SetupTestGitRepo initializes a repository in dir, or in a new temporary
// directory when dir is empty.
func SetupTestGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "init git repo")
	return &GitRepo{t: t, Dir: dir, Repo: repo}
}

// Signature returns the author of the next commit.
func (g *GitRepo) Signature() *object.Signature {
	return &object.Signature{
		Name:  "Profile Editor",
		Email: "editor@example.org",
		When:  Epoch.Add(time.Duration(g.n) * time.Hour),
	}
}

// CommitAll stages every change in the worktree and commits it.
func (g *GitRepo) CommitAll(msg string) plumbing.Hash {
	g.t.Helper()
	wt, err := g.Repo.Worktree()
	require.NoError(g.t, err)
	require.NoError(g.t, wt.AddWithOptions(&git.AddOptions{All: true}))
	sig := g.Signature()
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	require.NoError(g.t, err)
	g.n++
	return hash
}

// Lightweight creates a lightweight tag.
func (g *GitRepo) Lightweight(name string, hash plumbing.Hash) {
	g.t.Helper()
	_, err := g.Repo.CreateTag(name, hash, nil)
	require.NoError(g.t, err)
}

// Annotated creates an annotated tag.
func (g *GitRepo) Annotated(name string, hash plumbing.Hash) {
	g.t.Helper()
	_, err := g.Repo.CreateTag(name, hash, &git.CreateTagOptions{Tagger: g.Signature(), Message: "release " + name})
	require.NoError(g.t, err)
}

// AddWorktree lays out a linked worktree detached at hash in a new temporary
// directory, the same files `git worktree add --detach` writes, and returns
// its path.
func (g *GitRepo) AddWorktree(name string, hash plumbing.Hash) string {
	g.t.Helper()
	dir := filepath.Join(g.t.TempDir(), name)
	admin := filepath.Join(g.Dir, ".git", "worktrees", name)
	require.NoError(g.t, os.MkdirAll(admin, 0o750))
	require.NoError(g.t, os.MkdirAll(dir, 0o750))

	files := map[string]string{
		filepath.Join(admin, "HEAD"):      hash.String() + "\n",
		filepath.Join(admin, "commondir"): "../..\n",
		filepath.Join(admin, "gitdir"):    filepath.Join(dir, ".git") + "\n",
		filepath.Join(dir, ".git"):        "gitdir: " + admin + "\n",
	}
	for path, content := range files {
		require.NoError(g.t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}
