package vcs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tapsite/internal/testutil"
)

type fixtureRepo struct {
	*testutil.GitRepo
	t *testing.T
	n int
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	return &fixtureRepo{GitRepo: testutil.SetupTestGitRepo(t, ""), t: t}
}

// commit edits the profile so every commit has content.
func (f *fixtureRepo) commit() plumbing.Hash {
	f.t.Helper()
	f.n++
	testutil.WriteFile(f.t, f.Dir, "profile.tsv", "propertyID\tvalueNodeType\n"+strconv.Itoa(f.n)+"\tIRI\n")
	return f.CommitAll("edit profile")
}

func TestGitResolver_NoRepository(t *testing.T) {
	outcome, err := NewGitResolver(t.TempDir()).Lookup(context.Background())
	require.NoError(t, err)

	_, found := outcome.Tag()
	require.False(t, found)
	require.Equal(t, "not a git repository", outcome.Reason())
	require.Equal(t, "-1", outcome.Display("-1"))
}

func TestGitResolver_NoTags(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit()

	outcome, err := NewGitResolver(f.Dir).Lookup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "no tags", outcome.Reason())
	require.Equal(t, "-1", outcome.Display("-1"))
}

func TestGitResolver_LatestTag(t *testing.T) {
	f := newFixtureRepo(t)
	first := f.commit()
	f.Annotated("v1.0.0", first)
	second := f.commit()
	f.Lightweight("v1.1.0", second)
	f.commit() // untagged work after the last release

	outcome, err := NewGitResolver(f.Dir).Lookup(context.Background())
	require.NoError(t, err)
	tag, found := outcome.Tag()
	require.True(t, found)
	require.Equal(t, "v1.1.0", tag)
}

func TestGitResolver_FromSubdirectory(t *testing.T) {
	f := newFixtureRepo(t)
	f.Lightweight("v0.3.0", f.commit())
	sub := filepath.Join(f.Dir, "Monograph DCTAP")
	require.NoError(t, os.Mkdir(sub, 0o755))

	outcome, err := NewGitResolver(sub).Lookup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v0.3.0", outcome.Display("-1"))
}

func TestGitResolver_LinkedWorktree(t *testing.T) {
	f := newFixtureRepo(t)
	hash := f.commit()
	f.Annotated("v1.2.0", hash)
	wt := f.AddWorktree("wt", hash)

	outcome, err := NewGitResolver(wt).Lookup(context.Background())
	require.NoError(t, err)
	tag, found := outcome.Tag()
	require.True(t, found, outcome.String())
	require.Equal(t, "v1.2.0", tag)
}

func TestGitResolver_DescribePrefersAnnotated(t *testing.T) {
	f := newFixtureRepo(t)
	hash := f.commit()
	f.Lightweight("v2.0.0", hash)
	f.Annotated("v1.9.0", hash)

	outcome, err := NewGitResolver(f.Dir).Lookup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.9.0", outcome.Display("-1"))
}

func TestGitResolver_DescribeUsesSemanticOrder(t *testing.T) {
	f := newFixtureRepo(t)
	hash := f.commit()
	f.Annotated("v1.9.0", hash)
	f.Annotated("v1.10.0", hash)

	outcome, err := NewGitResolver(f.Dir).Lookup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.10.0", outcome.Display("-1"))
}

func TestGitResolver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGitResolver(t.TempDir()).Lookup(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTagLess(t *testing.T) {
	cases := []struct {
		name string
		a, b taggedCommit
		want bool
	}{
		{"lightweight below annotated", taggedCommit{name: "v9"}, taggedCommit{name: "v1", annotated: true}, true},
		{"semver order", taggedCommit{name: "v1.2.0"}, taggedCommit{name: "v1.10.0"}, true},
		{"non-semver below semver", taggedCommit{name: "latest"}, taggedCommit{name: "v0.0.1"}, true},
		{"name fallback", taggedCommit{name: "beta"}, taggedCommit{name: "alpha"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tagLess(tc.a, tc.b))
		})
	}
}
