package klatt

import (
	"math"

	"github.com/example/go-klatt/internal/phoneme"
)

const (
	// SampleRate is the fixed output rate in Hz.
	SampleRate = 10000
	// DefaultBaseF0 is the nominal glottal pulse rate in Hz.
	DefaultBaseF0 = 80.0
)

const dt = 1.0 / SampleRate

// Option configures an Engine.
type Option func(*Engine)

// WithBaseF0 sets the pitch, in Hz, that an f0 multiplier of 1 produces.
// Non-positive values are ignored.
func WithBaseF0(hz float64) Option {
	return func(e *Engine) {
		if hz > 0 {
			e.baseF0 = hz
		}
	}
}

// Engine turns parameter frames into PCM samples. It owns the resonator
// bank and a noise source whose state carries over between frames, so
// frames must be synthesized in playback order. An Engine is not safe for
// concurrent use.
type Engine struct {
	noise  *NoiseSource
	baseF0 float64

	glottalPole Resonator
	glottalZero AntiResonator
	glottalSine Resonator
	nasalPole   Resonator
	nasalZero   AntiResonator
	cascade     [6]Resonator // F1..F6
	parallel    [5]Resonator // F2..F6
}

// NewEngine returns an Engine drawing from noise. A nil noise source is
// replaced by one seeded with 1.
func NewEngine(noise *NoiseSource, opts ...Option) *Engine {
	if noise == nil {
		noise = NewNoiseSource(1)
	}
	e := &Engine{noise: noise, baseF0: DefaultBaseF0}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Noise exposes the engine's noise source.
func (e *Engine) Noise() *NoiseSource { return e.noise }

// BaseF0 returns the configured base pitch in Hz.
func (e *Engine) BaseF0() float64 { return e.baseF0 }

// PeriodSamples returns the glottal period, in samples, for an f0
// multiplier. Larger multipliers give longer periods. Non-positive or NaN
// multipliers are treated as 1.
func (e *Engine) PeriodSamples(multiplier float64) int {
	if !(multiplier > 0) || math.IsInf(multiplier, 0) {
		multiplier = 1
	}
	p := int(math.Round(SampleRate * multiplier / e.baseF0))
	if p < 1 {
		p = 1
	}
	return p
}

// SamplesFor converts a duration in milliseconds to a sample count.
func SamplesFor(ms float64) int {
	if !(ms > 0) {
		return 0
	}
	return int(ms * SampleRate / 1000)
}

// GenerateSilence returns ms worth of zero samples and clears the noise
// accumulator.
func (e *Engine) GenerateSilence(ms float64) []int16 {
	e.noise.Reset()
	return make([]int16, SamplesFor(ms))
}

// Synthesize renders one parameter frame at the given f0 multiplier. One
// extra glottal period is computed up front and discarded so the filters
// settle. With turbo set, only two periods are computed and the result is
// tiled to the frame's length.
func (e *Engine) Synthesize(p phoneme.ParameterSet, f0 float64, turbo bool) []int16 {
	target := SamplesFor(p.DurationMS())
	period := e.PeriodSamples(f0)
	e.load(p)

	var (
		cascade1 = &e.cascade[0]
		av       = p[phoneme.AV]
		avs      = p[phoneme.AVS]
		ah       = p[phoneme.AH]
		af       = p[phoneme.AF]
		ab       = p[phoneme.AB]
		amp      = [5]float64{p[phoneme.A2], p[phoneme.A3], p[phoneme.A4], p[phoneme.A5], p[phoneme.A6]}
	)

	out := make([]int16, 0, target)
	last := 0.0
	pulseIdx := 0
	for t := 0; t < target+period; t++ {
		noise := e.noise.Draw()

		pulse := 0.0
		if pulseIdx == 0 {
			pulse = 1
		}
		pulseIdx = (pulseIdx + 1) % period

		src := e.glottalPole.Step(pulse)
		src = e.glottalZero.Step(src)*av + e.glottalSine.Step(src)*avs
		src += noise * ah
		src = e.nasalPole.Step(src)
		src = e.nasalZero.Step(src)

		frication := noise * af
		raw := frication * ab
		for i := 4; i >= 0; i-- {
			src = e.cascade[i+1].Step(src)
			raw += e.parallel[i].Step(frication * amp[i])
		}
		raw += cascade1.Step(src)

		diff := raw - last
		last = raw
		if t < period {
			continue
		}
		out = append(out, toPCM(diff))

		if turbo && len(out) == 2*period {
			return tile(out, target)
		}
	}
	return out
}

// load derives coefficients for every resonator and clears their memory.
func (e *Engine) load(p phoneme.ParameterSet) {
	f := p.Frequencies()
	bw := p.Bandwidths()

	e.glottalPole.Set(Coefficients(f[0], bw[0], dt))
	e.glottalZero.Set(Coefficients(f[1], bw[1], dt))
	e.glottalSine.Set(Coefficients(f[2], bw[2], dt))
	e.nasalPole.Set(Coefficients(f[3], bw[3], dt))
	e.nasalZero.Set(Coefficients(f[4], bw[4], dt))
	for i := range e.cascade {
		e.cascade[i].Set(Coefficients(f[5+i], bw[5+i], dt))
	}
	for i := range e.parallel {
		e.parallel[i].Set(Coefficients(f[6+i], bw[6+i], dt))
	}
}

func toPCM(v float64) int16 {
	v *= 32767
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// tile repeats base cyclically until it is exactly n samples long.
func tile(base []int16, n int) []int16 {
	if len(base) >= n {
		return base[:n]
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out
}
