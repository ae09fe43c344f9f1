package vcs

import (
	"git.home.luguber.info/inful/tapsite/internal/config"
)

// FromConfig builds the resolver selected by version.source.
func FromConfig(cfg *config.Config) Resolver {
	switch cfg.Version.Source {
	case config.VersionSourceExec:
		return NewCommandResolver(cfg.ResolveRepository())
	case config.VersionSourceStatic:
		return StaticResolver{Outcome: Found(cfg.Version.Value)}
	case config.VersionSourceNone:
		return StaticResolver{Outcome: Unavailable("version lookup disabled")}
	default:
		return NewGitResolver(cfg.ResolveRepository())
	}
}
