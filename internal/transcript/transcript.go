// Package transcript parses IPA transcriptions with prosodic markup into
// paragraphs, sentences, words and phoneme occurrences.
package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/example/go-klatt/internal/phoneme"
)

// Symbols is the part of a phoneme inventory the parser needs.
// *phoneme.Inventory satisfies it.
type Symbols interface {
	Alphabet() []rune
	LongestPrefix(s string) string
}

// Word is one whitespace-delimited token after parsing.
type Word struct {
	// Text is the token with markup and modifiers removed.
	Text       string
	Phonemes   []phoneme.Occurrence
	Quoted     bool
	Emphasized bool
	Content    bool
	// Pause is set when the token ended with a comma.
	Pause bool
}

// Symbols returns the phoneme symbols of the word in order.
func (w Word) Symbols() []string {
	out := make([]string, len(w.Phonemes))
	for i, o := range w.Phonemes {
		out[i] = o.Symbol
	}
	return out
}

// Final returns the word's last phoneme symbol, or "".
func (w Word) Final() string {
	if len(w.Phonemes) == 0 {
		return ""
	}
	return w.Phonemes[len(w.Phonemes)-1].Symbol
}

// Sentence is a run of words closed by terminal punctuation.
type Sentence struct {
	Words       []Word
	Question    bool
	Exclamation bool
}

// Paragraph is one input line.
type Paragraph struct {
	Sentences []Sentence
}

// MalformedTokenError reports a token that does not fit the grammar.
// Word and Sentence are 1-based.
type MalformedTokenError struct {
	Token    string
	Word     int
	Sentence int
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed token %q in word %d, sentence %d", e.Token, e.Word, e.Sentence)
}

const (
	groupOpen = iota + 1
	groupCluster
	groupClose
)

// Parser tokenizes transcriptions against one inventory's symbols. It is
// immutable and safe for concurrent use.
type Parser struct {
	symbols Symbols
	token   *regexp.Regexp
}

// NewParser compiles the token grammar for the inventory's alphabet.
func NewParser(symbols Symbols) (*Parser, error) {
	alpha := symbols.Alphabet()
	if len(alpha) == 0 {
		return nil, fmt.Errorf("transcript: inventory has no single-character symbols")
	}
	var class strings.Builder
	for _, r := range alpha {
		fmt.Fprintf(&class, `\x{%x}`, r)
	}
	sym := class.String()

	marks := `(?:\*|"|\*"|"\*)?`
	expr := `^(` + marks + `'?)` +
		`([` + sym + `][-+<>` + sym + `]*,?)` +
		`(` + marks + `(?:\.|\?|!|\?!|!\?)?)$`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("transcript: compile token grammar: %w", err)
	}
	return &Parser{symbols: symbols, token: re}, nil
}

// ParseParagraph splits line on whitespace and extracts sentences until no
// tokens remain.
func (p *Parser) ParseParagraph(line string) (Paragraph, error) {
	tokens := strings.Fields(line)
	var para Paragraph
	for len(tokens) > 0 {
		s, rest, err := p.ExtractSentence(tokens, len(para.Sentences)+1)
		if err != nil {
			return Paragraph{}, err
		}
		para.Sentences = append(para.Sentences, s)
		tokens = rest
	}
	return para, nil
}

// ExtractSentence consumes tokens up to and including the first one that
// carries terminal punctuation. Quote and emphasis markers stay open across
// tokens until closed. sentence is the 1-based sentence number used in
// errors. If the tokens run out first, the sentence has no flags.
func (p *Parser) ExtractSentence(tokens []string, sentence int) (Sentence, []string, error) {
	var (
		s         Sentence
		quoted    bool
		emphasize bool
	)
	for len(tokens) > 0 {
		tok := tokens[0]
		tokens = tokens[1:]

		m := p.token.FindStringSubmatch(tok)
		if m == nil {
			return Sentence{}, nil, &MalformedTokenError{Token: tok, Word: len(s.Words) + 1, Sentence: sentence}
		}
		open, cluster, closing := m[groupOpen], m[groupCluster], m[groupClose]

		if strings.Contains(open, `"`) {
			quoted = true
		}
		if strings.Contains(open, "*") {
			emphasize = true
		}

		w, err := p.word(cluster)
		if err != nil {
			return Sentence{}, nil, err
		}
		w.Quoted = quoted
		w.Emphasized = emphasize
		w.Content = strings.Contains(open, "'")
		s.Words = append(s.Words, w)

		if strings.Contains(closing, `"`) {
			quoted = false
		}
		if strings.Contains(closing, "*") {
			emphasize = false
		}

		s.Question = strings.Contains(closing, "?")
		s.Exclamation = strings.Contains(closing, "!")
		if s.Question || s.Exclamation || strings.Contains(closing, ".") {
			return s, tokens, nil
		}
	}
	return s, tokens, nil
}

// word reduces a matched cluster to phoneme occurrences. Modifiers apply to
// the symbol before them.
func (p *Parser) word(cluster string) (Word, error) {
	var w Word
	if strings.HasSuffix(cluster, ",") {
		w.Pause = true
		cluster = strings.TrimSuffix(cluster, ",")
	}

	var text strings.Builder
	for rest := cluster; rest != ""; {
		r, size := utf8.DecodeRuneInString(rest)
		if phoneme.IsModifier(r) {
			if n := len(w.Phonemes); n > 0 {
				w.Phonemes[n-1].Modify(r)
			}
			rest = rest[size:]
			continue
		}
		sym := p.symbols.LongestPrefix(rest)
		if sym == "" {
			return Word{}, &phoneme.UnknownPhonemeError{Symbol: string(r)}
		}
		w.Phonemes = append(w.Phonemes, phoneme.NewOccurrence(sym))
		text.WriteString(sym)
		rest = rest[len(sym):]
	}
	w.Text = text.String()
	return w, nil
}
