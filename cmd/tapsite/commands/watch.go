package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/tapsite/internal/config"
	"git.home.luguber.info/inful/tapsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SiteFlags
	Debounce time.Duration `help:"Quiet period before a rebuild" default:"300ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.SiteFlags)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The initial build must succeed; later failures are only logged.
	if _, err := runBuild(ctx, cfg); err != nil {
		return err
	}
	return watch.Run(ctx, watchOptions(cfg, w.Debounce))
}

func watchOptions(cfg *config.Config, debounce time.Duration) watch.Options {
	opts := watch.Options{
		Root:     cfg.Root,
		Debounce: debounce,
		Ignore:   []string{cfg.ResolveOutputDir()},
		Build: func(ctx context.Context) error {
			_, err := runBuild(ctx, cfg)
			return err
		},
	}
	if cfg.Metrics.Textfile != "" {
		opts.IgnoreFiles = append(opts.IgnoreFiles, cfg.Metrics.Textfile)
	}
	return opts
}
