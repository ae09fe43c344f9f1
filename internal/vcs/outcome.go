package vcs

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/tapsite/internal/logfields"
)

// Outcome is the result of a version lookup.
type Outcome struct {
	tag    string
	reason string
	found  bool
}

// Found is an outcome carrying a tag description.
func Found(tag string) Outcome {
	return Outcome{tag: tag, found: true}
}

// Unavailable is an outcome explaining why no tag could be determined.
func Unavailable(reason string) Outcome {
	return Outcome{reason: reason}
}

// Tag returns the tag and whether one was found.
func (o Outcome) Tag() (string, bool) { return o.tag, o.found }

// Reason is empty for found outcomes.
func (o Outcome) Reason() string { return o.reason }

// Display returns the tag, or sentinel when unavailable.
func (o Outcome) Display(sentinel string) string {
	if o.found {
		return o.tag
	}
	return sentinel
}

func (o Outcome) String() string {
	if o.found {
		return "found(" + o.tag + ")"
	}
	return "unavailable(" + o.reason + ")"
}

// Resolver looks up the current version.
type Resolver interface {
	Lookup(ctx context.Context) (Outcome, error)
}

// StaticResolver always returns the same outcome.
type StaticResolver struct {
	Outcome Outcome
}

func (s StaticResolver) Lookup(context.Context) (Outcome, error) {
	return s.Outcome, nil
}

// Resolve performs one lookup and returns the display string. An unavailable
// outcome is reported as a warning on logger (slog.Default when nil), which is
// the only diagnostic a user sees for a failed lookup.
func Resolve(ctx context.Context, r Resolver, sentinel string, logger *slog.Logger) (string, Outcome, error) {
	if logger == nil {
		logger = slog.Default()
	}
	outcome, err := r.Lookup(ctx)
	if err != nil {
		return "", Outcome{}, err
	}
	if tag, ok := outcome.Tag(); ok {
		logger.Debug("Resolved version from tags", logfields.Version(tag))
	} else {
		logger.Warn("Version lookup unavailable; using sentinel",
			logfields.Reason(outcome.Reason()),
			logfields.Version(sentinel))
	}
	return outcome.Display(sentinel), outcome, nil
}
