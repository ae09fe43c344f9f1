// Package templates is the page template engine used to render profile pages
// and index pages.
//
// An Engine is built once per run from embedded templates, optionally
// overridden file by file from a directory, and passed to whatever needs to
// render. Plain values are escaped by html/template; pre-rendered fragments
// (profile tables, README intros) are passed as template.HTML.
//
// Named templates:
//
//	page              Title, Table, Version
//	collection-index  Title, Intro, Links, Version
//	site-index        Title, Links, Version
//
// Every template also receives Site (description and stylesheet).
package templates
