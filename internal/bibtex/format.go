package bibtex

import (
	"fmt"
	"strings"
)

// EntryType is the type written by Format.
const EntryType = "article"

// unsafeValue drops the characters that end a value or start an entry, so
// formatted output always reads back field by field.
var unsafeValue = strings.NewReplacer("{", "", "}", "", `"`, "", "@", "")

// Format writes p as a BibTeX entry. Empty fields are omitted.
func Format(p Publication) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", EntryType, unsafeValue.Replace(p.Key))
	for _, f := range []struct{ name, value string }{
		{FieldTitle, p.Title},
		{FieldAuthor, p.Author},
		{FieldYear, p.Year},
		{FieldDOI, p.DOI},
		{FieldAbstract, p.Abstract},
	} {
		if v := unsafeValue.Replace(f.value); v != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", f.name, v)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// FormatAll writes pubs as a BibTeX document, one blank line between entries.
func FormatAll(pubs []Publication) string {
	entries := make([]string, 0, len(pubs))
	for _, p := range pubs {
		entries = append(entries, Format(p))
	}
	return strings.Join(entries, "\n")
}
