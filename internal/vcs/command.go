package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// runFunc executes a command in dir and returns its stdout.
type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// CommandResolver asks the git binary, exactly like
// `git describe --tags $(git rev-list --tags --max-count=1)`.
type CommandResolver struct {
	dir string
	run runFunc
}

// NewCommandResolver runs git in dir.
func NewCommandResolver(dir string) *CommandResolver {
	return &CommandResolver{dir: dir, run: runCommand}
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitErr.Stderr = stderr.Bytes()
		}
		return nil, err
	}
	return out, nil
}

func (c *CommandResolver) Lookup(ctx context.Context) (Outcome, error) {
	commit, outcome, err := c.query(ctx, "rev-list", "--tags", "--max-count=1")
	if err != nil || commit == "" {
		return outcome, err
	}

	tag, outcome, err := c.query(ctx, "describe", "--tags", commit)
	if err != nil || tag == "" {
		return outcome, err
	}
	return Found(tag), nil
}

// query runs one git subcommand. An empty result comes with the
// Unavailable outcome explaining it.
func (c *CommandResolver) query(ctx context.Context, args ...string) (string, Outcome, error) {
	out, err := c.run(ctx, c.dir, "git", args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", Outcome{}, ctxErr
		}
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return "", Unavailable("git binary not found"), nil
		case errors.As(err, &exitErr):
			return "", Unavailable(fmt.Sprintf("git %s exited with status %d: %s",
				args[0], exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))), nil
		default:
			return "", Outcome{}, fmt.Errorf("run git %s: %w", args[0], err)
		}
	}
	if !utf8.Valid(out) {
		return "", Unavailable(fmt.Sprintf("git %s returned non UTF-8 output", args[0])), nil
	}
	result := strings.TrimSpace(string(out))
	if result == "" {
		return "", Unavailable("no tags"), nil
	}
	return result, Outcome{}, nil
}
