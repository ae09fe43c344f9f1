package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/tapsite/internal/config"
	"git.home.luguber.info/inful/tapsite/internal/logfields"
	"git.home.luguber.info/inful/tapsite/internal/metrics"
	"git.home.luguber.info/inful/tapsite/internal/site"
	"git.home.luguber.info/inful/tapsite/internal/vcs"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./tapsite.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Generate the site (default command)"`
	Discover DiscoverCmd `cmd:"" help:"List profile collections and files without writing anything"`
	Init     InitCmd     `cmd:"" help:"Write a configuration file with the defaults"`
	Verify   VerifyCmd   `cmd:"" help:"Check the links of a generated site"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild whenever profiles change"`
}

// AfterApply runs after flag parsing; sets up logging until a config is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// configPath returns the config file to load and whether it was given explicitly.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultConfigFile, false
}

// SiteFlags override the input and output locations of the configuration.
type SiteFlags struct {
	Root   string `short:"r" help:"Directory holding the profile collections (overrides root)" type:"path"`
	Output string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
}

func (f SiteFlags) apply(cfg *config.Config) {
	if f.Root != "" {
		cfg.Root = f.Root
	}
	if f.Output != "" {
		cfg.Output.Directory = f.Output
	}
}

// loadConfig loads the configuration and reconfigures logging from it.
func loadConfig(root *CLI, flags SiteFlags) (*config.Config, error) {
	path, explicit := root.configPath()
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, err
	}
	flags.apply(cfg)
	configureLogging(cfg, root.Verbose)
	return cfg, nil
}

func configureLogging(cfg *config.Config, verbose bool) {
	level := cfg.Logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// runBuild performs one full build: version lookup, site assembly and the
// optional metrics export. Every call gets its own build ID.
func runBuild(ctx context.Context, cfg *config.Config) (*site.Report, error) {
	logger := slog.Default().With(logfields.BuildID(uuid.NewString()))

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		rec = prom
	}

	version, outcome, err := vcs.Resolve(ctx, vcs.FromConfig(cfg), cfg.Version.Sentinel, logger)
	if err != nil {
		return nil, err
	}
	_, found := outcome.Tag()
	rec.IncVersionLookup(found)

	asm, err := site.FromConfig(cfg, version, rec, logger)
	if err != nil {
		return nil, err
	}

	output := cfg.ResolveOutputDir()
	logger.Info("Starting site generation", logfields.Root(cfg.Root), logfields.Output(output), logfields.Version(version))
	report, buildErr := asm.Build(ctx, cfg.Root, output)

	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if buildErr != nil {
		return nil, buildErr
	}
	logger.Info("Finished site generation", slog.Any("report", report))
	return report, nil
}
