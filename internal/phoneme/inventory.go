package phoneme

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Symbols the pipeline inserts on its own; every inventory must define them.
const (
	GlottalPause = "h"
	GlottalStop  = "ʔ"
)

//go:embed default.yaml
var defaultTable []byte

// Class is a bit set of phoneme class memberships.
type Class uint8

const (
	Vowel Class = 1 << iota
	Stop
	Nasal
	Liquid
)

var classNames = []struct {
	c    Class
	name string
}{
	{Vowel, "vowel"},
	{Stop, "stop"},
	{Nasal, "nasal"},
	{Liquid, "liquid"},
}

// Has reports whether c includes every class in other.
func (c Class) Has(other Class) bool { return c&other == other }

func (c Class) String() string {
	var parts []string
	for _, cn := range classNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseClass resolves a class name from a table file.
func ParseClass(name string) (Class, error) {
	for _, cn := range classNames {
		if cn.name == strings.ToLower(strings.TrimSpace(name)) {
			return cn.c, nil
		}
	}
	return 0, fmt.Errorf("unknown phoneme class %q", name)
}

// Entry is one row of the inventory.
type Entry struct {
	Symbol  string
	Params  ParameterSet
	Classes Class
}

// UnknownPhonemeError is returned when a symbol is not in the inventory.
type UnknownPhonemeError struct {
	Symbol string
}

func (e *UnknownPhonemeError) Error() string {
	return fmt.Sprintf("unknown phoneme %q", e.Symbol)
}

// Inventory maps IPA symbols to base parameter sets and class membership.
// It is read-only after loading and safe for concurrent use.
type Inventory struct {
	name    string
	entries map[string]Entry
	// longest first, for greedy prefix matching
	symbols []string
}

// Name is the table's display name.
func (inv *Inventory) Name() string { return inv.name }

// Len is the number of symbols in the table.
func (inv *Inventory) Len() int { return len(inv.entries) }

// Lookup returns the entry for symbol.
func (inv *Inventory) Lookup(symbol string) (Entry, error) {
	e, ok := inv.entries[symbol]
	if !ok {
		return Entry{}, &UnknownPhonemeError{Symbol: symbol}
	}
	return e, nil
}

// Params returns a copy of the base parameter set for symbol.
func (inv *Inventory) Params(symbol string) (ParameterSet, error) {
	e, err := inv.Lookup(symbol)
	if err != nil {
		return ParameterSet{}, err
	}
	return e.Params, nil
}

func (inv *Inventory) is(symbol string, c Class) bool {
	e, ok := inv.entries[symbol]
	return ok && e.Classes.Has(c)
}

// IsVowel reports whether symbol is in the table and classed as a vowel.
func (inv *Inventory) IsVowel(symbol string) bool { return inv.is(symbol, Vowel) }

// IsStop reports whether symbol is in the table and classed as a stop.
func (inv *Inventory) IsStop(symbol string) bool { return inv.is(symbol, Stop) }

// IsNasal reports whether symbol is in the table and classed as a nasal.
func (inv *Inventory) IsNasal(symbol string) bool { return inv.is(symbol, Nasal) }

// IsLiquid reports whether symbol is in the table and classed as a liquid.
func (inv *Inventory) IsLiquid(symbol string) bool { return inv.is(symbol, Liquid) }

// Symbols returns every symbol, sorted.
func (inv *Inventory) Symbols() []string {
	out := make([]string, 0, len(inv.entries))
	for s := range inv.entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Alphabet returns the runes that are symbols on their own. These are the
// characters a transcription token may be built from.
func (inv *Inventory) Alphabet() []rune {
	var out []rune
	for s := range inv.entries {
		if utf8.RuneCountInString(s) == 1 {
			r, _ := utf8.DecodeRuneInString(s)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LongestPrefix returns the longest symbol that s starts with, or "".
func (inv *Inventory) LongestPrefix(s string) string {
	for _, sym := range inv.symbols {
		if strings.HasPrefix(s, sym) {
			return sym
		}
	}
	return ""
}

// Default returns the embedded inventory.
func Default() (*Inventory, error) {
	return Load(bytes.NewReader(defaultTable))
}

// LoadFile reads an inventory table from path. An empty path selects the
// embedded table.
func LoadFile(path string) (*Inventory, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phoneme table: %w", err)
	}
	defer f.Close()
	inv, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

type tableFile struct {
	Name     string             `yaml:"name"`
	Defaults map[string]float64 `yaml:"defaults"`
	Phonemes []tableRow         `yaml:"phonemes"`
}

type tableRow struct {
	Symbol  string             `yaml:"symbol"`
	Classes []string           `yaml:"classes"`
	Params  map[string]float64 `yaml:"params"`
}

// Load decodes a YAML inventory table. Each phoneme starts from the table's
// defaults and overrides the named fields.
func Load(r io.Reader) (*Inventory, error) {
	var tf tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("decode phoneme table: %w", err)
	}

	var base ParameterSet
	if err := applyFields(&base, tf.Defaults); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	inv := &Inventory{name: tf.Name, entries: make(map[string]Entry, len(tf.Phonemes))}
	for i, row := range tf.Phonemes {
		sym := norm.NFC.String(strings.TrimSpace(row.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("phoneme %d: empty symbol", i+1)
		}
		if _, dup := inv.entries[sym]; dup {
			return nil, fmt.Errorf("phoneme %q: duplicate symbol", sym)
		}
		e := Entry{Symbol: sym, Params: base}
		if err := applyFields(&e.Params, row.Params); err != nil {
			return nil, fmt.Errorf("phoneme %q: %w", sym, err)
		}
		for _, cn := range row.Classes {
			c, err := ParseClass(cn)
			if err != nil {
				return nil, fmt.Errorf("phoneme %q: %w", sym, err)
			}
			e.Classes |= c
		}
		if err := e.Params.Validate(); err != nil {
			return nil, fmt.Errorf("phoneme %q: %w", sym, err)
		}
		inv.entries[sym] = e
		inv.symbols = append(inv.symbols, sym)
	}
	if len(inv.entries) == 0 {
		return nil, errors.New("phoneme table is empty")
	}
	for _, required := range []string{GlottalPause, GlottalStop} {
		if _, ok := inv.entries[required]; !ok {
			return nil, fmt.Errorf("phoneme table must define %q", required)
		}
	}

	sort.SliceStable(inv.symbols, func(i, j int) bool {
		return utf8.RuneCountInString(inv.symbols[i]) > utf8.RuneCountInString(inv.symbols[j])
	})
	return inv, nil
}

func applyFields(p *ParameterSet, fields map[string]float64) error {
	for k, v := range fields {
		idx, ok := FieldIndex(strings.ToLower(k))
		if !ok {
			return fmt.Errorf("unknown parameter %q", k)
		}
		p[idx] = v
	}
	return nil
}
