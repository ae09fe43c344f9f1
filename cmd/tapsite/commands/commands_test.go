package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/linkcheck"
	"git.home.luguber.info/inful/tapsite/internal/site"
	"git.home.luguber.info/inful/tapsite/internal/testutil"
)

func newProject(t *testing.T, extra string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	coll := filepath.Join(dir, "Monograph DCTAP")
	require.NoError(t, os.MkdirAll(coll, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(coll, "work_profile.tsv"),
		[]byte("shapeID\tpropertyID\nWork\tbf:title\n"), 0o600))

	cfgPath = filepath.Join(dir, "tapsite.yaml")
	content := "root: " + dir + "\nversion:\n  source: static\n  value: v2.0.0\n" + extra
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return dir, cfgPath
}

func TestParseDefaultsToBuild(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "build", ctx.Command())

	ctx, err = parser.Parse([]string{"verify", "-o", "site"})
	require.NoError(t, err)
	assert.Equal(t, "verify", ctx.Command())
	assert.True(t, filepath.IsAbs(cli.Verify.Output))
}

func TestConfigPath(t *testing.T) {
	path, explicit := (&CLI{}).configPath()
	assert.Equal(t, "tapsite.yaml", path)
	assert.False(t, explicit)

	path, explicit = (&CLI{Config: "/etc/tapsite.yaml"}).configPath()
	assert.Equal(t, "/etc/tapsite.yaml", path)
	assert.True(t, explicit)
}

func TestBuildAndVerify(t *testing.T) {
	dir, cfgPath := newProject(t, "metrics:\n  textfile: "+filepath.Join(t.TempDir(), "tapsite.prom")+"\n")
	cli := &CLI{Config: cfgPath}

	require.NoError(t, (&BuildCmd{}).Run(&Global{}, cli))

	page, err := os.ReadFile(filepath.Join(dir, "docs", "Monograph_DCTAP", "work_profile.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>work profile DCTap</title>")
	assert.Contains(t, string(page), "Version v2.0.0")

	res, err := linkcheck.Check(t.Context(), filepath.Join(dir, "docs"))
	require.NoError(t, err)
	assert.True(t, res.OK(), "%v", res.Broken)
	require.NoError(t, (&VerifyCmd{}).Run(&Global{}, cli))
}

func TestBuildOutputOverride(t *testing.T) {
	_, cfgPath := newProject(t, "")
	out := filepath.Join(t.TempDir(), "public")

	cmd := &BuildCmd{SiteFlags: SiteFlags{Output: out}}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestBuildMissingExplicitConfig(t *testing.T) {
	err := (&BuildCmd{}).Run(&Global{}, &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestPrintDiscovery(t *testing.T) {
	var buf bytes.Buffer
	printDiscovery(&buf, []site.Collection{{
		Name:      "A DCTAP",
		OutputDir: "A_DCTAP",
		Files:     []site.ProfileFile{{Name: "x_y.tsv", PageName: "x_y.html", Title: "x y DCTap"}},
	}})
	out := buf.String()
	assert.Contains(t, out, "A DCTAP -> A_DCTAP/\n")
	assert.Contains(t, out, "  x_y.tsv -> A_DCTAP/x_y.html (x y DCTap)\n")
	assert.True(t, strings.HasSuffix(out, "1 collections, 1 profiles\n"))

	buf.Reset()
	printDiscovery(&buf, nil)
	assert.Equal(t, "No profile collections found\n", buf.String())
}

func TestReportLinks(t *testing.T) {
	var buf bytes.Buffer
	err := reportLinks(&buf, "docs", &linkcheck.Result{
		Pages:  1,
		Links:  2,
		Broken: []linkcheck.BrokenLink{{Page: "index.html", URL: "x.html", Reason: "target does not exist"}},
	})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
	assert.Contains(t, buf.String(), "BROKEN index.html: x.html (target does not exist)")

	buf.Reset()
	require.NoError(t, reportLinks(&buf, "docs", &linkcheck.Result{Pages: 1}))
}

func TestWatchOptionsIgnoreGeneratedFiles(t *testing.T) {
	dir, cfgPath := newProject(t, "metrics:\n  textfile: metrics.prom\n")
	cfg, err := loadConfig(&CLI{Config: cfgPath}, SiteFlags{})
	require.NoError(t, err)

	opts := watchOptions(cfg, 0)
	assert.Equal(t, []string{filepath.Join(dir, "docs")}, opts.Ignore)
	assert.Equal(t, []string{"metrics.prom"}, opts.IgnoreFiles)
	assert.NotNil(t, opts.Build)
}

func TestBuildUsesLatestTag(t *testing.T) {
	repo := testutil.SetupTestGitRepo(t, "")
	testutil.WriteFile(t, repo.Dir, "Serial DCTAP/serial_instance.tsv", testutil.SampleProfile)
	repo.Annotated("v0.9.0", repo.CommitAll("add serial profile"))
	cfgPath := testutil.WriteFile(t, t.TempDir(), "tapsite.yaml", "root: "+repo.Dir+"\n")

	require.NoError(t, (&BuildCmd{}).Run(&Global{}, &CLI{Config: cfgPath}))

	testutil.NewFileAssertions(t, filepath.Join(repo.Dir, "docs")).
		AssertFileContains("index.html", `<a href="./Serial_DCTAP">Serial DCTAP</a>`).
		AssertFileContains("Serial_DCTAP/serial_instance.html", "Version v0.9.0").
		AssertFileContains("Serial_DCTAP/index.html", "Version v0.9.0")
}
