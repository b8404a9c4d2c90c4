// Package text prepares raw transcription input for parsing: it unifies
// line endings, strips a byte-order mark, composes Unicode to NFC and splits
// the result into paragraphs.
package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

const bom = "\ufeff"

// Normalize prepares raw input text for parsing.
// It strips a leading byte-order mark, normalizes line endings to \n,
// composes the text to NFC so decomposed IPA diacritics match inventory
// symbols, trims surrounding whitespace and rejects empty input.
func Normalize(s string) (string, error) {
	s = strings.TrimPrefix(s, bom)

	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}
