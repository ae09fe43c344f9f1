package vcs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/logfields"
)

// GitResolver reads tags through go-git, without a git binary.
type GitResolver struct {
	path string
}

// NewGitResolver inspects the repository containing path (parent directories
// are searched for .git).
func NewGitResolver(path string) *GitResolver {
	return &GitResolver{path: path}
}

// taggedCommit is one tag ref peeled to its commit.
type taggedCommit struct {
	name      string
	hash      plumbing.Hash
	when      time.Time
	annotated bool
}

func (g *GitResolver) Lookup(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	repo, err := git.PlainOpenWithOptions(g.path, &git.PlainOpenOptions{
		DetectDotGit: true,
		// Tags of a linked worktree live in the main repository.
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Unavailable("not a git repository"), nil
		}
		return g.classify(err, "open repository")
	}

	tags, err := collectTags(repo)
	if err != nil {
		return g.classify(err, "list tags")
	}
	if len(tags) == 0 {
		return Unavailable("no tags"), nil
	}

	head := latestTaggedCommit(tags)
	name := describe(head, tags)
	slog.Debug("Described latest tagged commit",
		slog.String("commit", head.String()[:8]),
		logfields.Version(name))
	return Found(name), nil
}

// classify splits go-git failures into unavailable outcomes and errors that
// have nothing to do with source control.
func (g *GitResolver) classify(err error, op string) (Outcome, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Outcome{}, err
	}
	if errors.Is(err, fs.ErrPermission) {
		return Outcome{}, derrors.WrapError(err, derrors.CategoryFileSystem, "cannot read repository").
			Fatal().WithContext("path", g.path).Build()
	}
	return Unavailable(fmt.Sprintf("%s: %v", op, err)), nil
}

func collectTags(repo *git.Repository) ([]taggedCommit, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	var tags []taggedCommit
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tc, ok, err := peel(repo, ref)
		if err != nil {
			return err
		}
		if ok {
			tags = append(tags, tc)
		}
		return nil
	})
	return tags, err
}

// peel resolves a tag ref to the commit it names. Tags on trees or blobs are skipped.
func peel(repo *git.Repository, ref *plumbing.Reference) (taggedCommit, bool, error) {
	tc := taggedCommit{name: ref.Name().Short()}

	var commit *object.Commit
	tagObj, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		tc.annotated = true
		commit, err = tagObj.Commit()
		if err != nil {
			slog.Debug("Skipping tag not pointing at a commit", slog.String("tag", tc.name), logfields.Error(err))
			return tc, false, nil
		}
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err = repo.CommitObject(ref.Hash())
		if err != nil {
			slog.Debug("Skipping tag not pointing at a commit", slog.String("tag", tc.name), logfields.Error(err))
			return tc, false, nil
		}
	default:
		return tc, false, err
	}

	tc.hash = commit.Hash
	tc.when = commit.Committer.When
	return tc, true, nil
}

// latestTaggedCommit answers "most recent commit reachable from any tag".
// Ancestors of a tag tip are never newer than the tip unless committer clocks
// were skewed, so only tips are compared.
func latestTaggedCommit(tags []taggedCommit) plumbing.Hash {
	best := tags[0]
	for _, tc := range tags[1:] {
		if tc.when.After(best.when) || (tc.when.Equal(best.when) && tc.hash.String() > best.hash.String()) {
			best = tc
		}
	}
	return best.hash
}

// describe names commit with the best tag pointing at it: annotated before
// lightweight, then highest semantic version, then greatest name.
func describe(commit plumbing.Hash, tags []taggedCommit) string {
	var candidates []taggedCommit
	for _, tc := range tags {
		if tc.hash == commit {
			candidates = append(candidates, tc)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return tagLess(candidates[j], candidates[i])
	})
	return candidates[0].name
}

// tagLess orders tags from least to most preferred.
func tagLess(a, b taggedCommit) bool {
	if a.annotated != b.annotated {
		return !a.annotated
	}
	va, errA := semver.NewVersion(a.name)
	vb, errB := semver.NewVersion(b.name)
	switch {
	case errA == nil && errB == nil && !va.Equal(vb):
		return va.LessThan(vb)
	case errA == nil && errB != nil:
		return false
	case errA != nil && errB == nil:
		return true
	}
	return a.name < b.name
}
