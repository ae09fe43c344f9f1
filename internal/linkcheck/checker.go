package linkcheck

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
	"git.home.luguber.info/inful/tapsite/internal/logfields"
)

// filteredURL is what html/template writes in place of a URL it considers
// unsafe.
const filteredURL = "#ZgotmplZ"

// BrokenLink is an internal link whose target does not exist.
type BrokenLink struct {
	Page   string // page path relative to the site root
	URL    string
	Target string // resolved path relative to the site root, empty if outside it
	Reason string
}

// Result summarizes a check.
type Result struct {
	Pages    int
	Links    int
	External []string
	Broken   []BrokenLink
}

// OK reports whether no broken links were found.
func (r *Result) OK() bool { return len(r.Broken) == 0 }

// Check verifies every HTML page under root.
func Check(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "site directory not readable").
			Fatal().WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, derrors.ValidationError("site path is not a directory").WithContext("path", root).Build()
	}

	res := &Result{}
	external := map[string]struct{}{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		links, err := ExtractLinks(path)
		if err != nil {
			return err
		}
		res.Pages++
		for _, link := range links {
			if link.URL == filteredURL {
				res.Links++
				res.Broken = append(res.Broken, BrokenLink{Page: rel, URL: link.URL, Reason: "URL rejected by template escaping"})
				continue
			}
			if !shouldVerify(link) {
				continue
			}
			res.Links++
			if !link.IsInternal {
				external[link.URL] = struct{}{}
				continue
			}
			if broken, ok := checkInternal(root, rel, link.URL); !ok {
				slog.Debug("Broken link", logfields.Path(rel), logfields.URL(link.URL), logfields.Reason(broken.Reason))
				res.Broken = append(res.Broken, broken)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for u := range external {
		res.External = append(res.External, u)
	}
	slices.Sort(res.External)
	return res, nil
}

// checkInternal resolves href against the page and checks the target exists.
func checkInternal(root, page, href string) (BrokenLink, bool) {
	broken := BrokenLink{Page: page, URL: href}

	u, err := url.Parse(href)
	if err != nil {
		broken.Reason = "unparsable URL"
		return broken, false
	}
	target := u.Path
	if target == "" {
		// query-only or fragment-only link to the page itself
		return broken, true
	}
	if strings.HasPrefix(target, "/") {
		target = strings.TrimPrefix(target, "/")
	} else {
		target = filepath.ToSlash(filepath.Join(filepath.Dir(page), target))
	}
	target = filepath.Clean(filepath.FromSlash(target))
	if target == ".." || strings.HasPrefix(target, ".."+string(filepath.Separator)) {
		broken.Reason = "points outside the site"
		return broken, false
	}
	broken.Target = target

	full := filepath.Join(root, target)
	info, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		broken.Reason = "target does not exist"
		return broken, false
	case err != nil:
		broken.Reason = err.Error()
		return broken, false
	case info.IsDir():
		if _, err := os.Stat(filepath.Join(full, "index.html")); err != nil {
			broken.Reason = "directory has no index.html"
			return broken, false
		}
	}
	return broken, true
}
