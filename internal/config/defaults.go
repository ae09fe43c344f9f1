package config

// Default values, matching the layout of the BIG DCTap repository.
const (
	DefaultRoot            = "."
	DefaultOutputDirectory = "docs"
	DefaultToken           = "DCTAP"
	DefaultExtension       = ".tsv"
	DefaultSiteTitle       = "Bibframe Interoperability Group (BIG) DCTap"
	DefaultDescription     = "PCC Bibframe Interoperability Group (BIG) DCTap-to-SHACL"
	DefaultPageLabel       = "DCTap"
	DefaultStylesheet      = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	DefaultIntegrity       = "sha384-QWTKZyjpPEjISv5WaRU9OFeRpok6YctnYmDr5pNlyT2bRjXh0JMhjY6hW+ALEwIH"
	DefaultTableClass      = "table table-bordered"
	DefaultSentinel        = "-1"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	if cfg.Discovery.Token == "" {
		cfg.Discovery.Token = DefaultToken
	}
	if cfg.Discovery.Extension == "" {
		cfg.Discovery.Extension = DefaultExtension
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = DefaultDescription
	}
	if cfg.Site.PageLabel == "" {
		cfg.Site.PageLabel = DefaultPageLabel
	}
	// The integrity hash only belongs to the default stylesheet.
	if cfg.Site.Stylesheet == "" {
		cfg.Site.Stylesheet = DefaultStylesheet
		if cfg.Site.StylesheetIntegrity == "" {
			cfg.Site.StylesheetIntegrity = DefaultIntegrity
		}
	}
	if cfg.Site.TableClass == "" {
		cfg.Site.TableClass = DefaultTableClass
	}
	if cfg.Tabular.RowPolicy == "" {
		cfg.Tabular.RowPolicy = RowPolicyPad
	}
	if cfg.Version.Source == "" {
		cfg.Version.Source = VersionSourceGit
	}
	if cfg.Version.Sentinel == "" {
		cfg.Version.Sentinel = DefaultSentinel
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
