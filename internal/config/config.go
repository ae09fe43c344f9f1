package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

// DefaultConfigFile is looked up in the working directory when no --config is given.
const DefaultConfigFile = "tapsite.yaml"

// Config represents the application configuration.
type Config struct {
	Root      string          `yaml:"root"`
	Output    OutputConfig    `yaml:"output"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Site      SiteConfig      `yaml:"site"`
	Tabular   TabularConfig   `yaml:"tabular"`
	Version   VersionConfig   `yaml:"version"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// OutputConfig controls where the generated site is written.
type OutputConfig struct {
	// Directory is resolved against Root when relative.
	Directory string `yaml:"directory" validate:"required"`
}

// DiscoveryConfig controls which directories and files are profile input.
type DiscoveryConfig struct {
	Token     string `yaml:"token" validate:"required,excludesall=/"`                        // case-sensitive substring of collection directory names
	Extension string `yaml:"extension" validate:"required,startswith=.,min=2,excludesall=/"` // profile file extension, including the dot
}

// SiteConfig holds presentation settings shared by every page.
type SiteConfig struct {
	Title               string `yaml:"title"`
	Description         string `yaml:"description"`
	PageLabel           string `yaml:"page_label"`
	Stylesheet          string `yaml:"stylesheet" validate:"required"`
	StylesheetIntegrity string `yaml:"stylesheet_integrity,omitempty"`
	TableClass          string `yaml:"table_class"`
	TemplatesDir        string `yaml:"templates_dir,omitempty"`
	CollectionReadme    bool   `yaml:"collection_readme"`
}

// TabularConfig controls profile parsing.
type TabularConfig struct {
	RowPolicy RowPolicy `yaml:"row_policy"`
}

// VersionConfig controls the version annotation in page footers.
type VersionConfig struct {
	Source     VersionSource `yaml:"source"`
	Sentinel   string        `yaml:"sentinel"`
	Value      string        `yaml:"value,omitempty" validate:"required_if=Source static"` // used when source is static
	Repository string        `yaml:"repository,omitempty"`                                 // defaults to Root
}

// LoggingConfig selects log level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" validate:"omitempty,endswith=.prom"` // the textfile collector only reads *.prom
}

// Load reads configuration from configPath, expanding ${VAR} references after
// loading .env files, then applies defaults and validates.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to unmarshal config").
			Fatal().WithContext("path", configPath).Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file falls back to
// Default when the path was not given explicitly.
func LoadOrDefault(configPath string, explicit bool) (*Config, error) {
	if !explicit {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			loadEnvFile()
			return Default(), nil
		}
	}
	return Load(configPath)
}

// ResolveOutputDir returns the output directory, joined to Root when relative.
func (c *Config) ResolveOutputDir() string {
	if filepath.IsAbs(c.Output.Directory) {
		return c.Output.Directory
	}
	return filepath.Join(c.Root, c.Output.Directory)
}

// ResolveRepository returns the directory the version lookup inspects.
func (c *Config) ResolveRepository() string {
	if c.Version.Repository == "" {
		return c.Root
	}
	if filepath.IsAbs(c.Version.Repository) {
		return c.Version.Repository
	}
	return filepath.Join(c.Root, c.Version.Repository)
}

// Init creates a new configuration file populated with the defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	content := append([]byte("# tapsite configuration. Every key is optional.\n"), data...)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			Fatal().WithContext("path", configPath).Build()
	}
	return nil
}
