package site

import (
	"io"

	"git.home.luguber.info/inful/tapsite/internal/tabular"
	"git.home.luguber.info/inful/tapsite/internal/templates"
)

// TableRenderer turns one profile file into one page.
type TableRenderer struct {
	Engine *templates.Engine
	Policy tabular.RowPolicy
}

// Render parses src and writes the page to out, replacing any existing file.
// It returns the number of data rows rendered. On error out is left untouched.
func (r TableRenderer) Render(src, title, out, version string) (int, error) {
	table, err := tabular.ReadFile(src, tabular.Options{Policy: r.Policy})
	if err != nil {
		return 0, err
	}
	fragment, err := r.Engine.Table(table)
	if err != nil {
		return 0, err
	}
	err = templates.WriteFile(out, func(w io.Writer) error {
		return r.Engine.Page(w, title, fragment, version)
	})
	if err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}
