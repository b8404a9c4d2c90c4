package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// dcBlockCutoffHz sits well below the lowest voice pitch.
const dcBlockCutoffHz = 20.0

// PeakNormalize scales samples so the peak amplitude reaches 1.0.
// Silence is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak == 0 {
		return samples
	}

	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(float64(s) / peak)
	}

	return out
}

// DCBlock removes DC offset from samples using a second-order Butterworth
// high-pass filter.
func DCBlock(samples []float32, sampleRate int) []float32 {
	if len(samples) == 0 || sampleRate <= 0 {
		return samples
	}

	sec := biquad.NewSection(highpass(dcBlockCutoffHz, math.Sqrt2/2, float64(sampleRate)))
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(sec.ProcessSample(float64(s)))
	}

	return out
}

// highpass returns RBJ cookbook high-pass coefficients normalized by a0.
func highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	inv := 1 / (1 + alpha)

	return biquad.Coefficients{
		B0: (1 + cw) / 2 * inv,
		B1: -(1 + cw) * inv,
		B2: (1 + cw) / 2 * inv,
		A1: -2 * cw * inv,
		A2: (1 - alpha) * inv,
	}
}

func fadeLength(n, sampleRate int, ms float64) int {
	if ms <= 0 || sampleRate <= 0 {
		return 0
	}

	return min(n, int(ms/1000.0*float64(sampleRate)))
}

// FadeIn applies a linear fade-in ramp over the given duration in milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeLength(len(samples), sampleRate, ms)
	if n == 0 {
		return samples
	}

	out := make([]float32, len(samples))
	copy(out, samples)
	for i := range n {
		out[i] *= float32(i) / float32(n)
	}

	return out
}

// FadeOut applies a linear fade-out ramp over the given duration in milliseconds.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := fadeLength(len(samples), sampleRate, ms)
	if n == 0 {
		return samples
	}

	out := make([]float32, len(samples))
	copy(out, samples)
	last := len(out) - 1
	for i := range n {
		out[last-i] *= float32(i) / float32(n)
	}

	return out
}
