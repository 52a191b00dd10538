package bibtex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAll_TwoEntries(t *testing.T) {
	doc := `@a{title={T1}}` + "\n" + `@b{title={T2},year={2020}}`

	got := ParseAll(doc)
	want := []Publication{
		{Title: "T1"},
		{Title: "T2", Year: "2020"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAll_SkipsEntryWithoutTitle(t *testing.T) {
	doc := `
% preamble with a comment
@article{first, title = {Kept One}}
@misc{notitle, author = {Nobody}, year = {1999}}
@article{second, title = "Kept Two", abstract = "Text"}
`
	got := ParseAll(doc)
	want := []Publication{
		{Key: "first", Title: "Kept One"},
		{Key: "second", Title: "Kept Two", Abstract: "Text"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAll_FullEntry(t *testing.T) {
	doc := `@Article{Maia2023,
  TITLE = {Spiders of the {Atlantic} forest},
  Author = {Maia, G. P. and Silva, A.},
  year = {2023},
  doi = {10.1000/xyz.123},
  abstract = {We describe <new> species & genera.}
}`
	got := ParseAll(doc)
	want := []Publication{{
		Key:      "Maia2023",
		Title:    "Spiders of the {Atlantic",
		Author:   "Maia, G. P. and Silva, A.",
		Year:     "2023",
		DOI:      "10.1000/xyz.123",
		Abstract: "We describe <new> species & genera.",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAll_NoEntries(t *testing.T) {
	for _, doc := range []string{"", "no at sign here", "   \n"} {
		if got := ParseAll(doc); len(got) != 0 {
			t.Errorf("ParseAll(%q) = %v, want empty", doc, got)
		}
	}
}

func TestScanFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "brace and quote delimiters",
			in:   `x{k, title = {A}, year="2001"}`,
			want: map[string]string{"title": "A", "year": "2001"},
		},
		{
			name: "whitespace around equals",
			in:   "x{k,\n  title\t=\n {A}}",
			want: map[string]string{"title": "A"},
		},
		{
			name: "booktitle is not title",
			in:   `x{k, booktitle = {Proc}, title = {Real}}`,
			want: map[string]string{"booktitle": "Proc", "title": "Real"},
		},
		{
			name: "first occurrence wins",
			in:   `x{k, title = {One}, TITLE = {Two}}`,
			want: map[string]string{"title": "One"},
		},
		{
			name: "empty value yields no field",
			in:   `x{k, doi = {}, title = {T}}`,
			want: map[string]string{"title": "T"},
		},
		{
			name: "bare value yields no field",
			in:   `x{k, year = 2020, title = {T}}`,
			want: map[string]string{"title": "T"},
		},
		{
			name: "unterminated value runs to end",
			in:   `x{k, title = {Open ended`,
			want: map[string]string{"title": "Open ended"},
		},
		{
			name: "quote ends brace value",
			in:   `x{k, title = {Say "hi"}}`,
			want: map[string]string{"title": "Say "},
		},
		{
			name: "assignment inside a value is not a field",
			in:   `x{k, abstract = {see title = x}, title = {T}}`,
			want: map[string]string{"abstract": "see title = x", "title": "T"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanFields(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("scanFields() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntries_Header(t *testing.T) {
	var got []Entry
	for e := range Entries(`@ARTICLE{smith2020, title={x}} @misc(noKey) @book{title={y}}`) {
		got = append(got, Entry{Type: e.Type, Key: e.Key})
	}
	want := []Entry{
		{Type: "article", Key: "smith2020"},
		{Type: "misc"},
		{Type: "book"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries() headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StopsEarly(t *testing.T) {
	doc := `@a{title={1}} @a{title={2}} @a{title={3}}`
	var n int
	for range Parse(doc) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d publications, want 2", n)
	}
}

func TestEntry_FieldCaseInsensitive(t *testing.T) {
	e := parseEntry(`x{k, DOI = {10.1/abc}}`)
	if got := e.Field("Doi"); got != "10.1/abc" {
		t.Errorf("Field(Doi) = %q, want %q", got, "10.1/abc")
	}
}

func TestParseAll_BooktitleIsNotTitle(t *testing.T) {
	doc := `@inproceedings{a, booktitle={Proceedings}, title={Paper}}
@inproceedings{b, booktitle={Only Proc}}`

	got := ParseAll(doc)
	want := []Publication{{Key: "a", Title: "Paper"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseAll() mismatch (-want +got):\n%s", diff)
	}
}
