package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tapsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "docs", cfg.Output.Directory)
	assert.Equal(t, "DCTAP", cfg.Discovery.Token)
	assert.Equal(t, ".tsv", cfg.Discovery.Extension)
	assert.Equal(t, "Bibframe Interoperability Group (BIG) DCTap", cfg.Site.Title)
	assert.Equal(t, "DCTap", cfg.Site.PageLabel)
	assert.Equal(t, "table table-bordered", cfg.Site.TableClass)
	assert.Equal(t, RowPolicyPad, cfg.Tabular.RowPolicy)
	assert.Equal(t, VersionSourceGit, cfg.Version.Source)
	assert.Equal(t, "-1", cfg.Version.Sentinel)
	assert.NotEmpty(t, cfg.Site.StylesheetIntegrity)
	require.NoError(t, Validate(cfg))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TAPSITE_TEST_TITLE", "Env Title")
	path := writeConfig(t, "root: /srv/profiles\n"+
		"output:\n"+
		"  directory: public\n"+
		"discovery:\n"+
		"  token: PROFILE\n"+
		"site:\n"+
		"  title: ${TAPSITE_TEST_TITLE}\n"+
		"  stylesheet: /style.css\n"+
		"tabular:\n"+
		"  row_policy: STRICT\n"+
		"version:\n"+
		"  source: none\n"+
		"  sentinel: n/a\n"+
		"logging:\n"+
		"  level: debug\n"+
		"  format: json\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/profiles", cfg.Root)
	assert.Equal(t, "/srv/profiles/public", cfg.ResolveOutputDir())
	assert.Equal(t, "PROFILE", cfg.Discovery.Token)
	assert.Equal(t, ".tsv", cfg.Discovery.Extension)
	assert.Equal(t, "Env Title", cfg.Site.Title)
	assert.Equal(t, "/style.css", cfg.Site.Stylesheet)
	assert.Empty(t, cfg.Site.StylesheetIntegrity, "integrity only applies to the default stylesheet")
	assert.Equal(t, RowPolicyStrict, cfg.Tabular.RowPolicy)
	assert.Equal(t, VersionSourceNone, cfg.Version.Source)
	assert.Equal(t, "n/a", cfg.Version.Sentinel)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.Level.SlogLevel())
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "tapsite.yaml")

	cfg, err := LoadOrDefault(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(missing, true)
	require.Error(t, err, "an explicitly requested config file must exist")
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty token", func(c *Config) { c.Discovery.Token = "  " }},
		{"extension without dot", func(c *Config) { c.Discovery.Extension = "tsv" }},
		{"unknown row policy", func(c *Config) { c.Tabular.RowPolicy = "lenient" }},
		{"unknown version source", func(c *Config) { c.Version.Source = "svn" }},
		{"static without value", func(c *Config) { c.Version.Source = VersionSourceStatic }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bare dot extension", func(c *Config) { c.Discovery.Extension = "." }},
		{"token with separator", func(c *Config) { c.Discovery.Token = "a/DCTAP" }},
		{"metrics file without .prom", func(c *Config) { c.Metrics.Textfile = "/var/lib/node/tapsite.txt" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
		})
	}
}

func TestValidateReportsYAMLPath(t *testing.T) {
	cfg := Default()
	cfg.Discovery.Extension = "tsv"
	err := Validate(cfg)
	require.Error(t, err)

	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "invalid discovery.extension", ce.Message())
	rule, _ := ce.Context().GetString("rule")
	assert.Equal(t, "startswith", rule)
}

func TestValidateAcceptsStaticWithValue(t *testing.T) {
	cfg := Default()
	cfg.Version.Source = "STATIC"
	cfg.Version.Value = "v3"
	cfg.Metrics.Textfile = "tapsite.prom"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, VersionSourceStatic, cfg.Version.Source)
}

func TestResolveRepository(t *testing.T) {
	cfg := Default()
	cfg.Root = "/repo"
	assert.Equal(t, "/repo", cfg.ResolveRepository())

	cfg.Version.Repository = ".."
	assert.Equal(t, "/", cfg.ResolveRepository())

	cfg.Version.Repository = "/elsewhere"
	assert.Equal(t, "/elsewhere", cfg.ResolveRepository())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tapsite.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("TAPSITE_ENV_A=from-file\nTAPSITE_ENV_B=from-file\n"), 0o600))
	t.Setenv("TAPSITE_ENV_A", "from-process")
	t.Setenv("TAPSITE_ENV_B", "")
	require.NoError(t, os.Unsetenv("TAPSITE_ENV_B"))

	loadEnvFile()

	assert.Equal(t, "from-process", os.Getenv("TAPSITE_ENV_A"))
	assert.Equal(t, "from-file", os.Getenv("TAPSITE_ENV_B"))
}
