package templates

import (
	"cmp"
	"net/url"
	"slices"
)

// Link is an entry of an index page. URL is the output name relative to the
// index page; Href is what goes into the anchor.
type Link struct {
	URL   string
	Label string
}

// Href returns URL as a relative reference. The "./" prefix keeps a name
// containing ':' from being read as a scheme, and escaping keeps '#' and '?'
// inside the path.
func (l Link) Href() string {
	return "./" + url.PathEscape(l.URL)
}

// CompareLinks orders links on the full pair: URL first, then Label.
func CompareLinks(a, b Link) int {
	if c := cmp.Compare(a.URL, b.URL); c != 0 {
		return c
	}
	return cmp.Compare(a.Label, b.Label)
}

// SortLinks sorts links in place with CompareLinks.
func SortLinks(links []Link) {
	slices.SortFunc(links, CompareLinks)
}
