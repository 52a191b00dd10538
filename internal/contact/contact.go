// Package contact builds the mailto link for the contact form and recovers
// the obfuscated address shown on the page.
package contact

import (
	"strings"

	"github.com/gpmaia/homepage/internal/urienc"
)

// AtPlaceholder stands in for "@" in addresses rendered on the page.
const AtPlaceholder = "(at)"

// Mailto returns a mailto URI addressed to recipient with the given subject
// and body, each percent-encoded.
func Mailto(recipient, subject, body string) string {
	return "mailto:" + recipient + "?subject=" + urienc.Component(subject) + "&body=" + urienc.Component(body)
}

// Deobfuscate replaces the first placeholder with "@" and trims whitespace.
func Deobfuscate(s string) string {
	return strings.TrimSpace(strings.Replace(s, AtPlaceholder, "@", 1))
}

// Obfuscate is the inverse of Deobfuscate for a plain address.
func Obfuscate(addr string) string {
	return strings.Replace(addr, "@", AtPlaceholder, 1)
}
