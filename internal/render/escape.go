// Package render turns a site's loosely-typed content record into a single
// self-contained, escaped HTML document plus its published metadata. Every
// function in the package is pure: no I/O, no shared state, and the only
// time-sensitivity (open-now status, copyright year) comes from an injectable
// clock.
package render

import (
	"html"
	"net/url"
)

// Text escapes a user-supplied value for use as HTML text content. All section
// renderers must route user text through this helper or Attr; inserting a raw
// value into markup is a bug.
func Text(s string) string {
	return html.EscapeString(s)
}

// Attr escapes a user-supplied value for use inside a double-quoted HTML
// attribute. html.EscapeString covers both quote characters, so Text and Attr
// share an implementation; the two names keep call sites auditable.
func Attr(s string) string {
	return html.EscapeString(s)
}

// Query percent-encodes a value for use inside a URL query string, e.g. map
// search queries and share-intent text.
func Query(s string) string {
	return url.QueryEscape(s)
}
