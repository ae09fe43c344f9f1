package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

const monograph = "shapeID\tpropertyID\tmandatory\tvalueNodeType\n" +
	"Work\tbf:title\ttrue\tIRI\n" +
	"\tbf:subject\t\tIRI\n"

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(monograph), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"shapeID", "propertyID", "mandatory", "valueNodeType"}, table.Header)
	assert.Equal(t, 4, table.Width())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Work", "bf:title", "true", "IRI"}, table.Rows[0])
	assert.Equal(t, []string{"", "bf:subject", "", "IRI"}, table.Rows[1])
}

func TestParseRowPolicy(t *testing.T) {
	input := "a\tb\tc\n" +
		"1\n" +
		"1\t2\t3\t4\n"

	t.Run("pad", func(t *testing.T) {
		table, err := Parse(strings.NewReader(input), Options{Policy: PolicyPad})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "", ""}, {"1", "2", "3"}}, table.Rows)
	})

	t.Run("default is pad", func(t *testing.T) {
		table, err := Parse(strings.NewReader(input), Options{})
		require.NoError(t, err)
		assert.Len(t, table.Rows, 2)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := Parse(strings.NewReader(input), Options{Policy: PolicyStrict})
		require.Error(t, err)
		require.ErrorIs(t, err, ErrRowWidth)

		c, ok := derrors.AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, derrors.CategoryTabular, c.Category())
		line, _ := c.Context().Get("line")
		assert.Equal(t, 2, line)
	})
}

func TestParseQuotesAndBlankLines(t *testing.T) {
	input := "propertyID\tnote\n" +
		"\n" +
		"bf:title\t\"multi\tpart\"\n" +
		"bf:note\tsays \"hi\"\n"

	table, err := Parse(strings.NewReader(input), Options{Policy: PolicyStrict})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "multi\tpart", table.Rows[0][1])
	assert.Equal(t, `says "hi"`, table.Rows[1][1])
}

func TestParseEncoding(t *testing.T) {
	t.Run("utf-8 bom stripped", func(t *testing.T) {
		table, err := Parse(strings.NewReader("\ufeffshapeID\tlabel\nWork\tŒuvre\n"), Options{})
		require.NoError(t, err)
		assert.Equal(t, "shapeID", table.Header[0])
		assert.Equal(t, "Œuvre", table.Rows[0][1])
	})

	t.Run("utf-16 with bom", func(t *testing.T) {
		// "a\tb\n" little endian with BOM
		raw := []byte{0xFF, 0xFE, 'a', 0, '\t', 0, 'b', 0, '\n', 0}
		table, err := Parse(strings.NewReader(string(raw)), Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, table.Header)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := Parse(strings.NewReader("shapeID\n\xc3\x28\n"), Options{})
		require.ErrorIs(t, err, ErrInvalidEncoding)
		assert.True(t, derrors.HasCategory(err, derrors.CategoryTabular))
	})
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n\n"), Options{})
	require.ErrorIs(t, err, ErrNoHeader)

	table, err := Parse(strings.NewReader("only\theader\n"), Options{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monograph.tsv")
	require.NoError(t, os.WriteFile(path, []byte(monograph), 0o600))

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)

	_, err = ReadFile(filepath.Join(dir, "missing.tsv"), Options{})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryFileSystem))

	bad := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("a\tb\n1\n"), 0o600))
	_, err = ReadFile(bad, Options{Policy: PolicyStrict})
	require.ErrorIs(t, err, ErrRowWidth)
	c, ok := derrors.AsClassified(err)
	require.True(t, ok)
	file, _ := c.Context().GetString("file")
	assert.Equal(t, bad, file)
}
