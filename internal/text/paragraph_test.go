package text

import (
	"errors"
	"strings"
	"testing"
)

func TestParagraphs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single line",
			input: "hi ju.",
			want:  []string{"hi ju."},
		},
		{
			name:  "skips blank lines",
			input: "hi.\n\n   \nju.",
			want:  []string{"hi.", "ju."},
		},
		{
			name:  "trims each line",
			input: "  hi.  \n\tju.\t",
			want:  []string{"hi.", "ju."},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paragraphs(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Paragraphs(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paragraph %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadParagraphs(t *testing.T) {
	t.Run("normalizes before splitting", func(t *testing.T) {
		got, err := ReadParagraphs(strings.NewReader("\ufeffhi.\r\n\r\nju.\rmi."))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"hi.", "ju.", "mi."}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadParagraphs(strings.NewReader(" \n "))
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText, got %v", err)
		}
	})

	t.Run("reader error", func(t *testing.T) {
		_, err := ReadParagraphs(errReader{})
		if err == nil || !strings.Contains(err.Error(), "read input") {
			t.Fatalf("expected wrapped read error, got %v", err)
		}
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }
