package render

import (
	"strings"

	"github.com/gpmaia/homepage/internal/bibtex"
	"github.com/gpmaia/homepage/internal/urienc"
)

// Class names shared with the page stylesheet.
const (
	ClassTimelineItem = "timeline-item"
	ClassPublication  = "publication"
	ClassCard         = "timeline-card"
	ClassExpand       = "timeline-expand"
)

// ExpandPrompt is the static hint shown on every publication card.
const ExpandPrompt = "Click to view abstract"

// DOIBase is prefixed to the percent-encoded DOI to build the link target.
const DOIBase = "https://doi.org/"

// MetaLine returns the escaped "author · year" line of a card.
func MetaLine(p bibtex.Publication) string {
	meta := EscapeHTML(p.Author)
	if p.Year != "" {
		meta += " · " + EscapeHTML(p.Year)
	}
	return meta
}

// DOILink returns the href for a DOI, or "" when doi is empty.
func DOILink(doi string) string {
	if doi == "" {
		return ""
	}
	return DOIBase + urienc.Component(doi)
}

// PublicationHTML renders one publication as a collapsed timeline entry.
func PublicationHTML(p bibtex.Publication) string {
	var b strings.Builder

	b.WriteString(`<div class="` + ClassTimelineItem + ` ` + ClassPublication + `">`)
	b.WriteString(`<div class="` + ClassCard + `">`)
	b.WriteString(`<div class="timeline-header"><div>`)
	b.WriteString(`<strong>` + EscapeHTML(p.Title) + `</strong>`)
	b.WriteString(`<div class="meta">` + MetaLine(p) + `</div>`)
	b.WriteString(`</div></div>`)
	b.WriteString(`<p><em>` + ExpandPrompt + `</em></p>`)
	b.WriteString(`</div>`)

	b.WriteString(`<div class="` + ClassExpand + `">`)
	b.WriteString(`<div class="expand-body">`)
	b.WriteString(`<p>` + EscapeHTML(p.Abstract) + `</p>`)
	if p.DOI != "" {
		b.WriteString(`<p><a href="` + DOILink(p.DOI) + `" target="_blank" rel="noopener noreferrer">`)
		b.WriteString(`<strong>doi.org/` + EscapeHTML(p.DOI) + `</strong></a></p>`)
	}
	b.WriteString(`</div></div>`)

	b.WriteString(`</div>`)
	return b.String()
}
