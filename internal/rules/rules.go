// Package rules defines the language rule chain: the context a rule sees,
// the protocol for inserting frames and adjusting pitch, and the registry of
// named rulesets.
package rules

import "github.com/example/go-klatt/internal/phoneme"

// Classifier answers phoneme class questions and base-table lookups.
// *phoneme.Inventory satisfies it.
type Classifier interface {
	IsVowel(symbol string) bool
	IsStop(symbol string) bool
	IsNasal(symbol string) bool
	IsLiquid(symbol string) bool
	Params(symbol string) (phoneme.ParameterSet, error)
}

// Context describes the phoneme being processed and where it sits in its
// word, sentence and paragraph.
type Context struct {
	Symbol    string
	Preceding []string // phonemes before Symbol in the word
	Following []string // phonemes after Symbol in the word

	WordPosition   int // 1-based
	RemainingWords int // words after this one in the sentence
	PreviousWords  []string
	FollowingWords []string
	// PreviousWordFinal is the last phoneme of the preceding word in the
	// sentence, or "" for the first word.
	PreviousWordFinal string

	SentencePosition   int // 1-based
	RemainingSentences int

	Quoted      bool
	Emphasized  bool
	Content     bool
	Question    bool
	Exclamation bool

	Phonemes Classifier
}

// IsVowel reports whether symbol is a vowel. It is false without a Classifier.
func (c *Context) IsVowel(symbol string) bool {
	return c.Phonemes != nil && c.Phonemes.IsVowel(symbol)
}

// IsStop reports whether symbol is a stop.
func (c *Context) IsStop(symbol string) bool {
	return c.Phonemes != nil && c.Phonemes.IsStop(symbol)
}

// IsNasal reports whether symbol is a nasal.
func (c *Context) IsNasal(symbol string) bool {
	return c.Phonemes != nil && c.Phonemes.IsNasal(symbol)
}

// IsLiquid reports whether symbol is a liquid.
func (c *Context) IsLiquid(symbol string) bool {
	return c.Phonemes != nil && c.Phonemes.IsLiquid(symbol)
}

// State is the rule chain's bookkeeping for the frame being processed.
type State struct {
	// Processed holds every frame already emitted for this phoneme.
	Processed []phoneme.ParameterSet
	// Remaining counts the frames of this phoneme still to come after the
	// current one.
	Remaining int
	// Before and After are the frames earlier rules inserted around the
	// current frame.
	Before []phoneme.ParameterSet
	After  []phoneme.ParameterSet
}

// Result is what a rule contributes. Before frames are placed nearest the
// current frame; After frames are placed farthest from it. A zero F0 means
// the rule left pitch alone.
type Result struct {
	Before []phoneme.ParameterSet
	After  []phoneme.ParameterSet
	F0     float64
}

// Multiplier returns the rule's pitch contribution, 1 when unset.
func (r Result) Multiplier() float64 {
	if r.F0 == 0 {
		return 1
	}
	return r.F0
}

// Pitch is shorthand for a Result that only scales the f0 multiplier.
func Pitch(f0 float64) Result { return Result{F0: f0} }

// Rule is one step of a language rule chain. Apply may modify p, which is
// the pipeline's private copy of the current frame.
type Rule interface {
	Name() string
	Apply(ctx *Context, st State, p *phoneme.ParameterSet) Result
}

// Func is the signature of a rule implemented as a plain function.
type Func func(ctx *Context, st State, p *phoneme.ParameterSet) Result

type funcRule struct {
	name string
	fn   Func
}

func (r funcRule) Name() string { return r.name }

func (r funcRule) Apply(ctx *Context, st State, p *phoneme.ParameterSet) Result {
	return r.fn(ctx, st, p)
}

// Named wraps fn as a Rule.
func Named(name string, fn Func) Rule {
	return funcRule{name: name, fn: fn}
}

// Ruleset is an ordered rule chain with a display name. An empty ruleset is
// a valid no-op.
type Ruleset struct {
	Name  string
	Rules []Rule
}

// RuleNames lists the rules in application order.
func (rs Ruleset) RuleNames() []string {
	out := make([]string, len(rs.Rules))
	for i, r := range rs.Rules {
		out[i] = r.Name()
	}
	return out
}
