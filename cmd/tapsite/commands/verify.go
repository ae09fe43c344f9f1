package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/linkcheck"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	SiteFlags
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, v.SiteFlags)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := cfg.ResolveOutputDir()
	res, err := linkcheck.Check(ctx, dir)
	if err != nil {
		return err
	}
	return reportLinks(os.Stdout, dir, res)
}

func reportLinks(w io.Writer, dir string, res *linkcheck.Result) error {
	for _, b := range res.Broken {
		_, _ = fmt.Fprintf(w, "BROKEN %s: %s (%s)\n", b.Page, b.URL, b.Reason)
	}
	_, _ = fmt.Fprintf(w, "%d pages, %d links checked, %d external, %d broken\n",
		res.Pages, res.Links, len(res.External), len(res.Broken))
	if !res.OK() {
		return errors.ValidationError("site has broken links").
			WithContext("path", dir).WithContext("broken", len(res.Broken)).Build()
	}
	return nil
}
