// Package render turns publications into the timeline markup used on the site.
package render

import "strings"

// Order matters: & must be first so the entities produced for the other
// characters are not escaped again.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML makes s safe to embed as HTML text or a quoted attribute value.
// The empty string maps to itself.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}
