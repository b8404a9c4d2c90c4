package text

import (
	"fmt"
	"io"
	"strings"
)

// Paragraphs splits normalized text into paragraphs, one per line.
// Surrounding whitespace is trimmed and blank lines are dropped.
func Paragraphs(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ReadParagraphs reads all of r, normalizes it and splits it into
// paragraphs. Empty input yields ErrEmptyText.
func ReadParagraphs(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	s, err := Normalize(string(raw))
	if err != nil {
		return nil, err
	}
	return Paragraphs(s), nil
}
