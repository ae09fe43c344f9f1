package site

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/tapsite/internal/logfields"
)

// Report summarizes a build.
type Report struct {
	Output      string
	Version     string
	Collections int
	Pages       int
	Rows        int
	Duration    time.Duration
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		logfields.Output(r.Output),
		logfields.Version(r.Version),
		slog.Int("collections", r.Collections),
		slog.Int("pages", r.Pages),
		logfields.Rows(r.Rows),
		logfields.DurationMS(float64(r.Duration.Microseconds())/1000),
	)
}
