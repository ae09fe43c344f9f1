// Package tabular parses tab-separated DCTAP profile files.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

// RowPolicy decides what happens to rows whose width differs from the header.
type RowPolicy string

const (
	// PolicyPad pads short rows with empty cells and truncates long rows.
	PolicyPad RowPolicy = "pad"
	// PolicyStrict rejects any row whose width differs from the header.
	PolicyStrict RowPolicy = "strict"
)

var (
	ErrNoHeader        = errors.New("profile has no header row")
	ErrInvalidEncoding = errors.New("profile is not valid UTF-8")
	ErrRowWidth        = errors.New("row width does not match header")
)

// Table is a parsed profile. Every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Width is the number of columns.
func (t *Table) Width() int { return len(t.Header) }

// Options controls parsing.
type Options struct {
	Policy RowPolicy
}

// ReadFile parses the profile at path.
func ReadFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read profile").
			Fatal().WithContext("file", path).Build()
	}
	t, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		if c, ok := derrors.AsClassified(err); ok {
			return nil, derrors.WrapError(c.Cause(), c.Category(), c.Message()).
				Fatal().WithContextMap(c.Context()).WithContext("file", path).Build()
		}
		return nil, err
	}
	return t, nil
}

// Parse reads a tab-delimited table whose first record is the header.
// Blank lines are skipped and double-quoted fields are honored.
func Parse(r io.Reader, opts Options) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTabular, "read profile").Fatal().Build()
	}
	data, err := decode(raw)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTabular, "decode profile").Fatal().Build()
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(ErrNoHeader, derrors.CategoryTabular, "parse profile").Fatal().Build()
	}
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryTabular, "parse profile header").Fatal().Build()
	}

	t := &Table{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryTabular, "parse profile row").Fatal().Build()
		}
		line, _ := cr.FieldPos(0)
		row, err := fit(record, len(header), opts.Policy)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryTabular, "parse profile row").
				Fatal().
				WithContext("line", line).
				WithContext("want", len(header)).
				WithContext("got", len(record)).
				Build()
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// fit applies the row policy. The returned row never aliases record.
func fit(record []string, width int, policy RowPolicy) ([]string, error) {
	if len(record) != width && policy == PolicyStrict {
		return nil, ErrRowWidth
	}
	row := make([]string, width)
	copy(row, record)
	return row, nil
}

// decode strips a byte order mark. UTF-16 input is accepted when it carries a
// BOM; anything else must already be valid UTF-8.
func decode(raw []byte) ([]byte, error) {
	utf16 := bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
	if !utf16 && !utf8.Valid(raw) {
		return nil, ErrInvalidEncoding
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return out, nil
}
