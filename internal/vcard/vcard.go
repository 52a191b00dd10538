// Package vcard builds the contact card offered for download on the site.
package vcard

import (
	"strings"

	"github.com/gpmaia/homepage/internal/urienc"
)

// DataURIPrefix is prepended to the encoded card to form a download link.
const DataURIPrefix = "data:text/vcard;charset=utf-8,"

// Card holds the fixed fields of a version 3.0 vCard.
type Card struct {
	FormattedName string `json:"fn"`
	Email         string `json:"email"`
	URL           string `json:"url"`
}

// Lines returns the card lines in their fixed order.
func (c Card) Lines() []string {
	return []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + c.FormattedName,
		"EMAIL:" + c.Email,
		"URL:" + c.URL,
		"END:VCARD",
	}
}

// String joins the lines with CRLF, without a trailing line break.
func (c Card) String() string {
	return strings.Join(c.Lines(), "\r\n")
}

// DataURI returns the card as a percent-encoded data URI.
func (c Card) DataURI() string {
	return DataURIPrefix + urienc.Component(c.String())
}
