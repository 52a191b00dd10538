package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gpmaia/homepage/internal/bibtex"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search

	ListTitleMaxLen = 70 // Title truncation in publication lists
	TextWrapWidth   = 68 // Abstract wrap width
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RenderResponse summarizes a prerendered page.
type RenderResponse struct {
	Path         string `json:"path"`
	Entries      int    `json:"entries"`
	Publications int    `json:"publications"`
	Fetches      int    `json:"fetches"`
	Open         int    `json:"open"`
}

// PublicationsResponse lists publications.
type PublicationsResponse struct {
	Count        int                  `json:"count"`
	Publications []bibtex.Publication `json:"publications"`
}

// IndexResponse is the response for pubs index and pubs export.
type IndexResponse struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Indexed int    `json:"indexed"`
}

// printPublicationsHuman prints publications as a numbered list.
func printPublicationsHuman(pubs []bibtex.Publication) {
	if len(pubs) == 0 {
		outputHuman("No publications found.\n")
		return
	}
	for i, p := range pubs {
		outputHuman("%d. %s\n", i+1, truncateString(p.Title, ListTitleMaxLen))
		if meta := metaText(p); meta != "" {
			outputHuman("   %s\n", meta)
		}
		if p.DOI != "" {
			outputHuman("   https://doi.org/%s\n", p.DOI)
		}
		if p.Abstract != "" {
			outputHuman("   %s\n", wrapText(p.Abstract, TextWrapWidth, "   "))
		}
		outputHuman("\n")
	}
}

// metaText is the plain-text counterpart of the card metadata line.
func metaText(p bibtex.Publication) string {
	if p.Year == "" {
		return p.Author
	}
	return p.Author + " · " + p.Year
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}
