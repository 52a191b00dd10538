// Package bibtex extracts publication records from loosely structured
// bibliography text.
//
// The input is not required to be well formed. A document is split on every
// "@"; each fragment after the first "@" is one entry. Inside an entry, fields
// follow the grammar
//
//	field = key ws* "=" ws* ("{" | `"`) value
//
// where value runs up to (not including) the next "}" or `"`, or to the end of
// the fragment when neither occurs. Keys are matched case-insensitively and the
// first occurrence of a key wins. Empty and undelimited values produce no field.
package bibtex

import (
	"iter"
	"strings"
)

// Field names read into a Publication.
const (
	FieldTitle    = "title"
	FieldAuthor   = "author"
	FieldYear     = "year"
	FieldDOI      = "doi"
	FieldAbstract = "abstract"
)

// Entry is one raw bibliography record.
type Entry struct {
	Type   string            // Entry type from the header, e.g. "article"
	Key    string            // Citation key from the header, empty if absent
	Fields map[string]string // Lowercased field names to raw values
}

// Field returns the value of the named field, or "" when the entry has none.
func (e Entry) Field(name string) string {
	return e.Fields[strings.ToLower(name)]
}

// Publication is an entry reduced to the fields shown on the site.
// Title is always non-empty; the other fields are "" when absent.
type Publication struct {
	Key      string `json:"key,omitempty"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Year     string `json:"year,omitempty"`
	DOI      string `json:"doi,omitempty"`
	Abstract string `json:"abstract"`
}

// FromEntry converts an entry to a Publication. It reports false when the
// entry has no title, in which case the entry must be dropped.
func FromEntry(e Entry) (Publication, bool) {
	title := e.Field(FieldTitle)
	if title == "" {
		return Publication{}, false
	}
	return Publication{
		Key:      e.Key,
		Title:    title,
		Author:   e.Field(FieldAuthor),
		Year:     e.Field(FieldYear),
		DOI:      e.Field(FieldDOI),
		Abstract: e.Field(FieldAbstract),
	}, true
}

// Entries returns a one-pass sequence over the entries of doc. Text before
// the first "@" is discarded.
func Entries(doc string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		first := true
		for frag := range strings.SplitSeq(doc, "@") {
			if first {
				first = false
				continue
			}
			if !yield(parseEntry(frag)) {
				return
			}
		}
	}
}

// Parse returns a one-pass sequence over the publications of doc, in
// document order. Entries without a title are skipped.
func Parse(doc string) iter.Seq[Publication] {
	return func(yield func(Publication) bool) {
		for e := range Entries(doc) {
			p, ok := FromEntry(e)
			if !ok {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ParseAll collects every publication of doc.
func ParseAll(doc string) []Publication {
	var pubs []Publication
	for p := range Parse(doc) {
		pubs = append(pubs, p)
	}
	return pubs
}

// parseEntry reads the header and fields of a single fragment.
func parseEntry(frag string) Entry {
	e := Entry{Fields: scanFields(frag)}
	e.Type, e.Key = scanHeader(frag)
	return e
}

// scanHeader reads "type{key," from the start of a fragment.
func scanHeader(frag string) (typ, key string) {
	i := skipSpace(frag, 0)
	start := i
	for i < len(frag) && isIdentByte(frag[i]) {
		i++
	}
	typ = strings.ToLower(frag[start:i])

	i = skipSpace(frag, i)
	if i >= len(frag) || (frag[i] != '{' && frag[i] != '(') {
		return typ, ""
	}
	rest := frag[i+1:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return typ, ""
	}
	candidate := strings.TrimSpace(rest[:comma])
	if candidate == "" || strings.ContainsAny(candidate, "={}\"") {
		return typ, ""
	}
	return typ, candidate
}

// scanFields walks a fragment and collects every key = value assignment.
func scanFields(s string) map[string]string {
	fields := make(map[string]string)
	i := 0
	for i < len(s) {
		if !isIdentByte(s[i]) {
			i++
			continue
		}
		start := i
		for i < len(s) && isIdentByte(s[i]) {
			i++
		}
		key := strings.ToLower(s[start:i])

		j := skipSpace(s, i)
		if j >= len(s) || s[j] != '=' {
			continue
		}
		j = skipSpace(s, j+1)
		if j >= len(s) || (s[j] != '{' && s[j] != '"') {
			i = j
			continue
		}
		j++

		var value string
		if end := strings.IndexAny(s[j:], "}\""); end < 0 {
			value = s[j:]
			i = len(s)
		} else {
			value = s[j : j+end]
			i = j + end + 1
		}

		if value == "" {
			continue
		}
		if _, seen := fields[key]; !seen {
			fields[key] = value
		}
	}
	return fields
}

func isIdentByte(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9' || b == '_' || b == '-'
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i++
		default:
			return i
		}
	}
	return i
}
