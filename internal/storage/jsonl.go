package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gpmaia/homepage/internal/bibtex"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all publications from a JSONL file.
func ReadAll(path string) ([]bibtex.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	var pubs []bibtex.Publication
	scanner := bufio.NewScanner(f)

	// Abstracts can be long
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p bibtex.Publication
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications file: %w", err)
	}

	return pubs, nil
}

// WriteAll writes all publications to a JSONL file, replacing existing content.
func WriteAll(path string, pubs []bibtex.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating publications file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, p := range pubs {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding publication %d: %w", i, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing publication %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing publications file: %w", err)
	}
	return nil
}

// FindByDOI returns the index of the publication with the given DOI.
func FindByDOI(pubs []bibtex.Publication, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, p := range pubs {
		if p.DOI == doi {
			return i, true
		}
	}
	return -1, false
}
