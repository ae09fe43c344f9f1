// Package vcs resolves the version string printed in page footers from
// source-control history.
//
// A lookup asks two questions in order: which commit is the most recent one
// reachable from any tag, and which tag describes that commit. The answer is a
// typed Outcome, either Found(tag) or Unavailable(reason). Source-control
// failures (no repository, no tags, missing git binary, non-zero exit) become
// Unavailable and never abort a build. Anything else, such as a canceled
// context or a permission error, is returned as an error.
package vcs
