package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRoot       = "root"
	KeyCollection = "collection"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyTitle      = "title"
	KeyVersion    = "version"
	KeyRows       = "rows"
	KeyCount      = "count"
	KeyURL        = "url"
	KeyReason     = "reason"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Root(p string) slog.Attr           { return slog.String(KeyRoot, p) }
func Collection(name string) slog.Attr  { return slog.String(KeyCollection, name) }
func File(name string) slog.Attr        { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr         { return slog.String(KeyOutput, p) }
func Title(t string) slog.Attr          { return slog.String(KeyTitle, t) }
func Version(v string) slog.Attr        { return slog.String(KeyVersion, v) }
func Rows(n int) slog.Attr              { return slog.Int(KeyRows, n) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Reason(r string) slog.Attr         { return slog.String(KeyReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
