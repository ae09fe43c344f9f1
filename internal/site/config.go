package site

import (
	"log/slog"

	"git.home.luguber.info/inful/tapsite/internal/config"
	"git.home.luguber.info/inful/tapsite/internal/metrics"
	"git.home.luguber.info/inful/tapsite/internal/tabular"
	"git.home.luguber.info/inful/tapsite/internal/templates"
)

// NewMatcher returns the matcher configured by cfg.
func NewMatcher(cfg *config.Config) Matcher {
	return Matcher{
		Token:     cfg.Discovery.Token,
		Extension: cfg.Discovery.Extension,
		Label:     cfg.Site.PageLabel,
	}
}

// FromConfig builds the template engine and an Assembler from cfg.
func FromConfig(cfg *config.Config, version string, rec metrics.Recorder, logger *slog.Logger) (*Assembler, error) {
	engine, err := templates.New(templates.Options{
		Dir: cfg.Site.TemplatesDir,
		Site: templates.Site{
			Description:         cfg.Site.Description,
			Stylesheet:          cfg.Site.Stylesheet,
			StylesheetIntegrity: cfg.Site.StylesheetIntegrity,
		},
		TableClass: cfg.Site.TableClass,
	})
	if err != nil {
		return nil, err
	}
	return NewAssembler(engine, Options{
		Matcher:          NewMatcher(cfg),
		SiteTitle:        cfg.Site.Title,
		RowPolicy:        tabular.RowPolicy(cfg.Tabular.RowPolicy),
		CollectionReadme: cfg.Site.CollectionReadme,
		Version:          version,
		Recorder:         rec,
		Logger:           logger,
	}), nil
}
