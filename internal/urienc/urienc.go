// Package urienc percent-encodes URI components the way browsers do for
// encodeURIComponent, so generated links match what the site script produced.
package urienc

import "strings"

const upperhex = "0123456789ABCDEF"

// shouldKeep reports whether b is in the unreserved set left untouched by
// component encoding: ALPHA / DIGIT / "-" / "_" / "." / "!" / "~" / "*" / "'" / "(" / ")".
func shouldKeep(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Component percent-encodes every byte of s outside the unreserved set.
// Multi-byte UTF-8 sequences are encoded byte by byte with uppercase hex.
func Component(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !shouldKeep(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldKeep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}
