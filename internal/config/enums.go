package config

import (
	"log/slog"

	"git.home.luguber.info/inful/tapsite/internal/foundation/normalization"
)

// RowPolicy selects how profile rows whose width differs from the header are handled.
type RowPolicy string

const (
	// RowPolicyPad pads short rows with empty cells and truncates long rows.
	RowPolicyPad RowPolicy = "pad"
	// RowPolicyStrict rejects any row whose width differs from the header.
	RowPolicyStrict RowPolicy = "strict"
)

var rowPolicyNormalizer = normalization.NewNormalizer(map[string]RowPolicy{
	"pad":    RowPolicyPad,
	"strict": RowPolicyStrict,
}, RowPolicyPad)

// VersionSource selects where the footer version string comes from.
type VersionSource string

const (
	VersionSourceGit    VersionSource = "git"    // go-git history walk
	VersionSourceExec   VersionSource = "exec"   // the git binary
	VersionSourceStatic VersionSource = "static" // version.value
	VersionSourceNone   VersionSource = "none"   // always the sentinel
)

var versionSourceNormalizer = normalization.NewNormalizer(map[string]VersionSource{
	"git":    VersionSourceGit,
	"exec":   VersionSourceExec,
	"static": VersionSourceStatic,
	"none":   VersionSourceNone,
}, VersionSourceGit)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug": LogLevelDebug,
	"info":  LogLevelInfo,
	"warn":  LogLevelWarn,
	"error": LogLevelError,
}, LogLevelInfo)

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogLevel(raw string) LogLevel   { return logLevelNormalizer.Normalize(raw) }
func NormalizeLogFormat(raw string) LogFormat { return logFormatNormalizer.Normalize(raw) }
