package phoneme

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultInventory(t *testing.T) {
	inv, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	tests := []struct {
		symbol string
		want   Class
	}{
		{"a", Vowel},
		{"ə", Vowel},
		{"p", Stop},
		{"ʔ", Stop},
		{"tʃ", Stop},
		{"m", Nasal},
		{"ŋ", Nasal},
		{"l", Liquid},
		{"ɹ", Liquid},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			e, err := inv.Lookup(tt.symbol)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.symbol, err)
			}
			if !e.Classes.Has(tt.want) {
				t.Errorf("classes of %q = %v; want %v", tt.symbol, e.Classes, tt.want)
			}
		})
	}

	if inv.IsVowel("s") || inv.IsStop("s") || inv.IsNasal("s") || inv.IsLiquid("s") {
		t.Error("s should belong to no class")
	}
}

func TestDefaultInventory_FieldsApplied(t *testing.T) {
	inv, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	p, err := inv.Params("i")
	if err != nil {
		t.Fatalf("Params(i) error: %v", err)
	}
	if p[F1] != 270 || p[F2] != 2290 {
		t.Errorf("i formants = %v,%v; want 270,2290", p[F1], p[F2])
	}
	// Untouched fields inherit the table defaults.
	if p[F6] != 4900 || p[BGZ] != 6000 {
		t.Errorf("i defaults not inherited: f6=%v bgz=%v", p[F6], p[BGZ])
	}
	if p.DurationMS() != 130 {
		t.Errorf("i duration = %v; want 130", p.DurationMS())
	}
}

func TestLookup_UnknownPhoneme(t *testing.T) {
	inv, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	_, err = inv.Lookup("Q")
	var upe *UnknownPhonemeError
	if !errors.As(err, &upe) {
		t.Fatalf("expected *UnknownPhonemeError, got %v", err)
	}
	if upe.Symbol != "Q" {
		t.Errorf("Symbol = %q; want Q", upe.Symbol)
	}
}

func TestLongestPrefix(t *testing.T) {
	inv, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"tʃɪp", "tʃ"},
		{"tɪp", "t"},
		{"dʒɛm", "dʒ"},
		{"ʔa", "ʔ"},
		{"Xa", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := inv.LongestPrefix(tt.in); got != tt.want {
			t.Errorf("LongestPrefix(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlphabet_OnlySingleRuneSymbols(t *testing.T) {
	inv, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	alpha := string(inv.Alphabet())
	for _, r := range "aptʃʔ" {
		if !strings.ContainsRune(alpha, r) {
			t.Errorf("alphabet missing %q", r)
		}
	}
	if len(inv.Alphabet()) >= inv.Len() {
		t.Errorf("alphabet (%d) should be smaller than inventory (%d) because of digraphs", len(inv.Alphabet()), inv.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown parameter",
			yaml: "phonemes:\n  - symbol: h\n    params: {f9: 1}\n  - symbol: ʔ\n",
			want: "unknown parameter",
		},
		{
			name: "unknown class",
			yaml: "phonemes:\n  - symbol: h\n    classes: [fricative]\n  - symbol: ʔ\n",
			want: "unknown phoneme class",
		},
		{
			name: "duplicate",
			yaml: "phonemes:\n  - symbol: h\n  - symbol: h\n  - symbol: ʔ\n",
			want: "duplicate",
		},
		{
			name: "missing glottal stop",
			yaml: "phonemes:\n  - symbol: h\n",
			want: "must define",
		},
		{
			name: "negative bandwidth",
			yaml: "phonemes:\n  - symbol: h\n    params: {bw1: -5}\n  - symbol: ʔ\n",
			want: "negative",
		},
		{
			name: "empty",
			yaml: "name: x\n",
			want: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile_EmptyPathUsesDefault(t *testing.T) {
	inv, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile(\"\") error: %v", err)
	}
	if inv.Name() != "default" {
		t.Errorf("Name() = %q; want default", inv.Name())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/table.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
