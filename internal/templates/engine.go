package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"os"

	"github.com/yuin/goldmark"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/tabular"
)

//go:embed files/*.html.tmpl
var embedded embed.FS

// Template names.
const (
	PageTemplate            = "page"
	CollectionIndexTemplate = "collection-index"
	SiteIndexTemplate       = "site-index"

	layoutTemplate = "layout"
	tableTemplate  = "table"
)

// layout must be parsed first: it defines the blocks the others include.
var templateNames = []string{layoutTemplate, tableTemplate, PageTemplate, CollectionIndexTemplate, SiteIndexTemplate}

const templateExt = ".html.tmpl"

// Site holds values shared by every page.
type Site struct {
	Description         string
	Stylesheet          string
	StylesheetIntegrity string
}

// Options configures an Engine. The zero value uses the embedded templates.
type Options struct {
	// Dir may hold replacements named like the embedded files
	// (page.html.tmpl, layout.html.tmpl, ...). Missing files fall back.
	Dir        string
	Site       Site
	TableClass string
}

// Engine renders named templates. It is immutable after New and safe to share.
type Engine struct {
	tmpl       *template.Template
	site       Site
	tableClass string
	markdown   goldmark.Markdown
}

// New parses all templates.
func New(opts Options) (*Engine, error) {
	builtin, err := fs.Sub(embedded, "files")
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}

	root := template.New("root").Option("missingkey=error")
	for _, name := range templateNames {
		src, origin, err := readTemplate(opts.Dir, builtin, name)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(string(src)); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryTemplate, "parse template").
				Fatal().WithContext("template", name).WithContext("source", origin).Build()
		}
	}

	return &Engine{
		tmpl:       root,
		site:       opts.Site,
		tableClass: opts.TableClass,
		markdown:   goldmark.New(),
	}, nil
}

func readTemplate(dir string, builtin fs.FS, name string) ([]byte, string, error) {
	file := name + templateExt
	if dir != "" {
		src, err := fs.ReadFile(os.DirFS(dir), file)
		switch {
		case err == nil:
			return src, dir, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, "", derrors.WrapError(err, derrors.CategoryTemplate, "read template override").
				Fatal().WithContext("template", name).WithContext("dir", dir).Build()
		}
	}
	src, err := fs.ReadFile(builtin, file)
	if err != nil {
		return nil, "", derrors.WrapError(err, derrors.CategoryInternal, "read embedded template").
			Fatal().WithContext("template", name).Build()
	}
	return src, "embedded", nil
}

// Render executes the named template with values. Site is added to values.
func (e *Engine) Render(w io.Writer, name string, values map[string]any) error {
	t := e.tmpl.Lookup(name)
	if t == nil {
		return derrors.TemplateError("unknown template").WithContext("template", name).Build()
	}
	data := make(map[string]any, len(values)+1)
	maps.Copy(data, values)
	data["Site"] = e.site

	// Render to a buffer so a failing template writes nothing.
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryTemplate, "render template").
			Fatal().WithContext("template", name).Build()
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Page renders a single profile page.
func (e *Engine) Page(w io.Writer, title string, table template.HTML, version string) error {
	return e.Render(w, PageTemplate, map[string]any{
		"Title":   title,
		"Table":   table,
		"Version": version,
	})
}

// CollectionIndex renders the index of one profile collection. intro may be empty.
func (e *Engine) CollectionIndex(w io.Writer, title string, intro template.HTML, links []Link, version string) error {
	return e.Render(w, CollectionIndexTemplate, map[string]any{
		"Title":   title,
		"Intro":   intro,
		"Links":   links,
		"Version": version,
	})
}

// SiteIndex renders the top-level index.
func (e *Engine) SiteIndex(w io.Writer, title string, links []Link, version string) error {
	return e.Render(w, SiteIndexTemplate, map[string]any{
		"Title":   title,
		"Links":   links,
		"Version": version,
	})
}

// Table renders t as an HTML table fragment carrying the configured class.
// Cell text is escaped; empty cells stay empty.
func (e *Engine) Table(t *tabular.Table) (template.HTML, error) {
	var buf bytes.Buffer
	err := e.Render(&buf, tableTemplate, map[string]any{
		"Class":  e.tableClass,
		"Header": t.Header,
		"Rows":   t.Rows,
	})
	if err != nil {
		return "", err
	}
	// #nosec G203 -- produced by html/template above.
	return template.HTML(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Markdown converts a README to HTML. Raw HTML in the source is dropped.
func (e *Engine) Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.markdown.Convert(src, &buf); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryTemplate, "render markdown").Fatal().Build()
	}
	// #nosec G203 -- goldmark escapes text and omits raw HTML by default.
	return template.HTML(buf.String()), nil
}
