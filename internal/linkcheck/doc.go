// Package linkcheck verifies the links of a generated site without a server.
//
// Every HTML file under the site root is parsed with golang.org/x/net/html.
// Relative links must resolve to a file inside the site; a link to a
// directory resolves to its index.html. External links are listed but not
// fetched.
package linkcheck
