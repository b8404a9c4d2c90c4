package phoneme

// Inline modifier multipliers. They apply to the preceding symbol and
// compose multiplicatively when repeated.
const (
	LengthenFactor = 1.5
	ShortenFactor  = 0.5
	RaiseFactor    = 0.95
	LowerFactor    = 1.05
)

// Occurrence is one phoneme as written in a word, with the duration and
// pitch multipliers collected from its modifiers.
type Occurrence struct {
	Symbol   string
	Duration float64
	Pitch    float64
}

// NewOccurrence returns an unmodified occurrence of symbol.
func NewOccurrence(symbol string) Occurrence {
	return Occurrence{Symbol: symbol, Duration: 1, Pitch: 1}
}

// Modify applies one modifier rune and reports whether r was a modifier.
func (o *Occurrence) Modify(r rune) bool {
	switch r {
	case '>':
		o.Duration *= LengthenFactor
	case '<':
		o.Duration *= ShortenFactor
	case '+':
		o.Pitch *= RaiseFactor
	case '-':
		o.Pitch *= LowerFactor
	default:
		return false
	}
	return true
}

// IsModifier reports whether r is an inline duration/pitch modifier.
func IsModifier(r rune) bool {
	switch r {
	case '>', '<', '+', '-':
		return true
	}
	return false
}
