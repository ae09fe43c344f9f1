package site

import (
	"context"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/logfields"
	"git.home.luguber.info/inful/tapsite/internal/metrics"
	"git.home.luguber.info/inful/tapsite/internal/tabular"
	"git.home.luguber.info/inful/tapsite/internal/templates"
)

// ReadmeFile is shown above a collection's link list when enabled.
const ReadmeFile = "README.md"

// IndexFile is the name of every index page.
const IndexFile = "index.html"

// Options configures an Assembler.
type Options struct {
	Matcher          Matcher
	SiteTitle        string
	RowPolicy        tabular.RowPolicy
	CollectionReadme bool
	// Version is written into every page footer.
	Version  string
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Assembler builds the site.
type Assembler struct {
	engine   *templates.Engine
	renderer TableRenderer
	opts     Options
}

// NewAssembler returns an Assembler rendering through engine.
func NewAssembler(engine *templates.Engine, opts Options) *Assembler {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Assembler{
		engine:   engine,
		renderer: TableRenderer{Engine: engine, Policy: opts.RowPolicy},
		opts:     opts,
	}
}

// Discover lists what Build would process under root.
func (a *Assembler) Discover(root string) ([]Collection, error) {
	return a.opts.Matcher.Discover(root)
}

// Build writes the site for root into outRoot. The first failure aborts the
// build; files already written stay in place.
func (a *Assembler) Build(ctx context.Context, root, outRoot string) (report *Report, err error) {
	start := time.Now()
	rec := a.opts.Recorder
	defer func() {
		rec.ObserveBuildDuration(time.Since(start))
		switch {
		case err == nil:
			rec.IncBuildOutcome(metrics.OutcomeSuccess)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			rec.IncBuildOutcome(metrics.OutcomeCanceled)
		default:
			rec.IncBuildOutcome(metrics.OutcomeFailed)
		}
	}()

	stageStart := time.Now()
	collections, err := a.opts.Matcher.Discover(root, outRoot)
	if err != nil {
		return nil, err
	}
	a.stageDone("discover", stageStart)
	rec.SetCollections(len(collections))
	a.opts.Logger.Debug("Discovered collections", logfields.Root(root), logfields.Count(len(collections)))

	report = &Report{Output: outRoot, Version: a.opts.Version, Collections: len(collections)}

	stageStart = time.Now()
	entries := make([]templates.Link, 0, len(collections))
	for _, c := range collections {
		if err := a.buildCollection(ctx, c, outRoot, report); err != nil {
			return nil, err
		}
		entries = append(entries, templates.Link{URL: c.OutputDir, Label: c.Name})
	}
	a.stageDone("collections", stageStart)

	stageStart = time.Now()
	templates.SortLinks(entries)
	if err := mkdir(outRoot); err != nil {
		return nil, err
	}
	err = templates.WriteFile(filepath.Join(outRoot, IndexFile), func(w io.Writer) error {
		return a.engine.SiteIndex(w, a.opts.SiteTitle, entries, a.opts.Version)
	})
	if err != nil {
		return nil, err
	}
	a.stageDone("site_index", stageStart)

	report.Duration = time.Since(start)
	return report, nil
}

func (a *Assembler) stageDone(stage string, start time.Time) {
	d := time.Since(start)
	a.opts.Recorder.ObserveStageDuration(stage, d)
	a.opts.Logger.Debug("Stage complete", logfields.Stage(stage),
		logfields.DurationMS(float64(d.Microseconds())/1000))
}

func (a *Assembler) buildCollection(ctx context.Context, c Collection, outRoot string, report *Report) error {
	dir := filepath.Join(outRoot, c.OutputDir)
	if err := mkdir(dir); err != nil {
		return err
	}

	links := make([]templates.Link, 0, len(c.Files))
	for _, f := range c.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := filepath.Join(dir, f.PageName)
		rows, err := a.renderer.Render(f.Path, f.Title, out, a.opts.Version)
		if err != nil {
			return err
		}
		a.opts.Logger.Debug("Rendered profile",
			logfields.Collection(c.Name), logfields.File(f.Name), logfields.Title(f.Title),
			logfields.Output(out), logfields.Rows(rows))
		a.opts.Recorder.AddPages(1)
		a.opts.Recorder.AddRows(rows)
		report.Pages++
		report.Rows += rows
		links = append(links, templates.Link{URL: f.PageName, Label: f.Title})
	}
	templates.SortLinks(links)

	intro, err := a.readme(c)
	if err != nil {
		return err
	}
	return templates.WriteFile(filepath.Join(dir, IndexFile), func(w io.Writer) error {
		return a.engine.CollectionIndex(w, c.Name, intro, links, a.opts.Version)
	})
}

func (a *Assembler) readme(c Collection) (template.HTML, error) {
	if !a.opts.CollectionReadme {
		return "", nil
	}
	path := filepath.Join(c.Path, ReadmeFile)
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", derrors.WrapError(err, derrors.CategoryFileSystem, "read collection readme").
			Fatal().WithContext("path", path).Build()
	}
	return a.engine.Markdown(src)
}

func mkdir(dir string) error {
	// #nosec G301 -- generated site is public.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			Fatal().WithContext("path", dir).Build()
	}
	return nil
}
