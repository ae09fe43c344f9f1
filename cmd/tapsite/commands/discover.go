package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/tapsite/internal/site"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	SiteFlags
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, d.SiteFlags)
	if err != nil {
		return err
	}
	collections, err := site.NewMatcher(cfg).Discover(cfg.Root, cfg.ResolveOutputDir())
	if err != nil {
		return err
	}
	printDiscovery(os.Stdout, collections)
	return nil
}

func printDiscovery(w io.Writer, collections []site.Collection) {
	if len(collections) == 0 {
		_, _ = fmt.Fprintln(w, "No profile collections found")
		return
	}
	files := 0
	for _, c := range collections {
		_, _ = fmt.Fprintf(w, "%s -> %s/\n", c.Name, c.OutputDir)
		for _, f := range c.Files {
			_, _ = fmt.Fprintf(w, "  %s -> %s (%s)\n", f.Name, filepath.ToSlash(filepath.Join(c.OutputDir, f.PageName)), f.Title)
		}
		files += len(c.Files)
	}
	_, _ = fmt.Fprintf(w, "%d collections, %d profiles\n", len(collections), files)
}
