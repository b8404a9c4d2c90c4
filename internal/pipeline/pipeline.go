// Package pipeline expands one phoneme occurrence into the parameter frames
// the synthesis engine renders, applying duration markup, nasalization,
// cross-word liaison, coarticulation and then the language rule chain.
package pipeline

import (
	"math"
	"slices"

	"github.com/example/go-klatt/internal/phoneme"
	"github.com/example/go-klatt/internal/rules"
)

const (
	// LiaisonMS is the length of a frame bridging two words.
	LiaisonMS = 50
	// TransitionMS is the length of a coarticulation edge frame.
	TransitionMS = 15

	nasalVowelShare = 0.5
	nasalLeadIn     = 0.167
	nasalLeadOut    = 0.333
)

// Frame is one parameter set and the f0 multiplier it is rendered at.
type Frame struct {
	Params phoneme.ParameterSet
	F0     float64
}

// Pipeline runs the fixed stage sequence for a phoneme inventory and a
// ruleset. It holds no per-run state and is safe for concurrent use as long
// as its rules are.
type Pipeline struct {
	phonemes rules.Classifier
	ruleset  rules.Ruleset
}

// New returns a Pipeline looking symbols up in phonemes and finishing with
// ruleset.
func New(phonemes rules.Classifier, ruleset rules.Ruleset) *Pipeline {
	return &Pipeline{phonemes: phonemes, ruleset: ruleset}
}

// Ruleset returns the configured rule chain.
func (p *Pipeline) Ruleset() rules.Ruleset { return p.ruleset }

// Run expands occ into frames. ctx supplies the word and sentence context;
// its Symbol and Phonemes fields are filled in from occ and the pipeline.
// The caller's ctx is not modified. On error no frames are returned.
func (p *Pipeline) Run(occ phoneme.Occurrence, ctx *rules.Context) ([]Frame, error) {
	c := rules.Context{}
	if ctx != nil {
		c = *ctx
	}
	c.Symbol = occ.Symbol
	c.Phonemes = p.phonemes

	base, err := p.phonemes.Params(occ.Symbol)
	if err != nil {
		return nil, err
	}
	base[phoneme.Duration] = math.Trunc(base[phoneme.Duration] * occ.Duration)

	list := []phoneme.ParameterSet{base}
	if list, err = p.nasalize(&c, list); err != nil {
		return nil, err
	}
	if list, err = p.bridge(&c, list); err != nil {
		return nil, err
	}
	if list, err = p.shapeContours(&c, list); err != nil {
		return nil, err
	}
	return p.applyRules(&c, list), nil
}

// nasalize splits a vowel that precedes a nasal into the vowel at half
// length followed by two increasingly nasal blends.
func (p *Pipeline) nasalize(c *rules.Context, list []phoneme.ParameterSet) ([]phoneme.ParameterSet, error) {
	if len(c.Following) == 0 || !c.IsNasal(c.Following[0]) {
		return list, nil
	}
	if !c.IsVowel(c.Symbol) || c.IsNasal(c.Symbol) {
		return list, nil
	}
	nasal, err := p.phonemes.Params(c.Following[0])
	if err != nil {
		return nil, err
	}

	vowel := list[0]
	d := vowel.DurationMS()
	out := make([]phoneme.ParameterSet, 0, len(list)+2)
	out = append(out,
		vowel.WithDuration(math.Trunc(d*nasalVowelShare)),
		phoneme.Blend(vowel, nasal, 2, 1, math.Trunc(d*nasalLeadIn)),
		phoneme.Blend(vowel, nasal, 1, 2, math.Trunc(d*nasalLeadOut)),
	)
	return append(out, list[1:]...), nil
}

// bridge links a word-initial vowel to the previous word: a glottal pause
// after a vowel, or a half-and-half blend with a final consonant.
func (p *Pipeline) bridge(c *rules.Context, list []phoneme.ParameterSet) ([]phoneme.ParameterSet, error) {
	if !c.IsVowel(c.Symbol) || len(c.Preceding) > 0 || c.PreviousWordFinal == "" {
		return list, nil
	}

	var link phoneme.ParameterSet
	if c.IsVowel(c.PreviousWordFinal) {
		h, err := p.phonemes.Params(phoneme.GlottalPause)
		if err != nil {
			return nil, err
		}
		link = h.WithDuration(LiaisonMS)
	} else {
		consonant, err := p.phonemes.Params(c.PreviousWordFinal)
		if err != nil {
			return nil, err
		}
		link = phoneme.Blend(list[0], consonant, 1, 1, LiaisonMS)
	}

	out := make([]phoneme.ParameterSet, 0, len(list)+1)
	out = append(out, link)
	return append(out, list...), nil
}

// shapeContours trims both edges of the phoneme and inserts short
// transitions toward its in-word neighbours. Stops get a glottal stop in
// front instead of a blend, and a following stop gets a glottal pause.
func (p *Pipeline) shapeContours(c *rules.Context, list []phoneme.ParameterSet) ([]phoneme.ParameterSet, error) {
	out := slices.Clone(list)

	if len(c.Preceding) > 0 {
		lead := out[0]
		out[0] = lead.Trim(TransitionMS)

		var edge phoneme.ParameterSet
		if c.IsStop(c.Symbol) {
			gap, err := p.phonemes.Params(phoneme.GlottalStop)
			if err != nil {
				return nil, err
			}
			edge = gap.WithDuration(TransitionMS)
		} else {
			prev, err := p.phonemes.Params(c.Preceding[len(c.Preceding)-1])
			if err != nil {
				return nil, err
			}
			edge = phoneme.Blend(lead, prev, 2, 1, TransitionMS)
		}
		out = slices.Insert(out, 0, edge)
	}

	if len(c.Following) > 0 && !(c.IsVowel(c.Symbol) && c.IsNasal(c.Following[0])) {
		last := len(out) - 1
		tail := out[last]
		out[last] = tail.Trim(TransitionMS)

		next := c.Following[0]
		var edge phoneme.ParameterSet
		if c.IsStop(next) {
			gap, err := p.phonemes.Params(phoneme.GlottalPause)
			if err != nil {
				return nil, err
			}
			edge = gap.WithDuration(TransitionMS)
		} else {
			np, err := p.phonemes.Params(next)
			if err != nil {
				return nil, err
			}
			edge = phoneme.Blend(tail, np, 2, 1, TransitionMS)
		}
		out = append(out, edge)
	}
	return out, nil
}

// applyRules runs the rule chain over every frame in order. Each rule works
// on a private copy of the frame. A later rule's prepends land nearest the
// frame and its appends farthest from it. Inserted frames inherit the pitch
// multiplier accumulated for the frame that caused them.
func (p *Pipeline) applyRules(c *rules.Context, list []phoneme.ParameterSet) []Frame {
	frames := make([]Frame, 0, len(list))
	processed := make([]phoneme.ParameterSet, 0, len(list))

	for i, in := range list {
		cur := in
		f0 := 1.0
		var before, after []phoneme.ParameterSet

		for _, rule := range p.ruleset.Rules {
			st := rules.State{
				Processed: slices.Clip(processed),
				Remaining: len(list) - 1 - i,
				Before:    slices.Clip(before),
				After:     slices.Clip(after),
			}
			res := rule.Apply(c, st, &cur)
			f0 *= res.Multiplier()
			if len(res.Before) > 0 {
				before = append(slices.Clip(before), res.Before...)
			}
			if len(res.After) > 0 {
				after = append(slices.Clip(after), res.After...)
			}
		}

		for _, ps := range before {
			frames = append(frames, Frame{Params: ps, F0: f0})
		}
		frames = append(frames, Frame{Params: cur, F0: f0})
		for _, ps := range after {
			frames = append(frames, Frame{Params: ps, F0: f0})
		}

		processed = append(processed, before...)
		processed = append(processed, cur)
		processed = append(processed, after...)
	}
	return frames
}
