// Package phoneme holds the acoustic parameter model and the phoneme
// inventory used to look up base parameter sets by IPA symbol.
package phoneme

import (
	"fmt"
	"math"
)

// NumParams is the fixed length of a ParameterSet.
const NumParams = 33

// Field indices into a ParameterSet.
const (
	FGP = iota // glottal pole frequency
	FGZ        // glottal zero frequency
	FGS        // glottal sine frequency
	FNP        // nasal pole frequency
	FNZ        // nasal zero frequency
	F1
	F2
	F3
	F4
	F5
	F6
	BGP // glottal pole bandwidth
	BGZ // glottal zero bandwidth
	BGS // glottal sine bandwidth
	BNP // nasal pole bandwidth
	BNZ // nasal zero bandwidth
	BW1
	BW2
	BW3
	BW4
	BW5
	BW6
	A2 // parallel formant amplitudes
	A3
	A4
	A5
	A6
	AB  // bypass
	AH  // aspiration
	AF  // frication
	AV  // voicing
	AVS // voicing sine
	Duration
)

// NumAcoustic is the number of leading fields that describe sound rather
// than timing. Blends operate on these only.
const NumAcoustic = Duration

// MinDurationMS is the floor applied when a frame's edges are trimmed.
const MinDurationMS = 5

var fieldNames = [NumParams]string{
	"fgp", "fgz", "fgs", "fnp", "fnz",
	"f1", "f2", "f3", "f4", "f5", "f6",
	"bgp", "bgz", "bgs", "bnp", "bnz",
	"bw1", "bw2", "bw3", "bw4", "bw5", "bw6",
	"a2", "a3", "a4", "a5", "a6",
	"ab", "ah", "af", "av", "avs",
	"duration",
}

// FieldName returns the table key for field i.
func FieldName(i int) string {
	if i < 0 || i >= NumParams {
		return fmt.Sprintf("field%d", i)
	}
	return fieldNames[i]
}

// FieldIndex resolves a table key such as "f1" or "duration".
func FieldIndex(name string) (int, bool) {
	for i, n := range fieldNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// ParameterSet is one synthesis frame: 32 acoustic controls followed by a
// duration in milliseconds. It is a value type; assigning it copies it.
type ParameterSet [NumParams]float64

// Frequencies returns the 11 resonator frequencies in engine order:
// glottal pole, glottal zero, glottal sine, nasal pole, nasal zero, F1..F6.
func (p ParameterSet) Frequencies() [11]float64 {
	var out [11]float64
	copy(out[:], p[FGP:F6+1])
	return out
}

// Bandwidths returns the 11 bandwidths matching Frequencies.
func (p ParameterSet) Bandwidths() [11]float64 {
	var out [11]float64
	copy(out[:], p[BGP:BW6+1])
	return out
}

// DurationMS returns the frame duration in milliseconds.
func (p ParameterSet) DurationMS() float64 { return p[Duration] }

// WithDuration returns a copy of p with its duration replaced.
func (p ParameterSet) WithDuration(ms float64) ParameterSet {
	p[Duration] = ms
	return p
}

// Trim shortens the frame by ms, never going below MinDurationMS.
func (p ParameterSet) Trim(ms float64) ParameterSet {
	p[Duration] = math.Max(MinDurationMS, p[Duration]-ms)
	return p
}

// Validate reports bandwidth or amplitude fields that are negative.
func (p ParameterSet) Validate() error {
	for i := BGP; i <= Duration; i++ {
		if p[i] < 0 {
			return fmt.Errorf("field %s is negative (%g)", fieldNames[i], p[i])
		}
	}
	return nil
}

// Blend interpolates the acoustic fields of x and y with weights wx:wy and
// assigns the given duration. Neither input is modified.
func Blend(x, y ParameterSet, wx, wy, durationMS float64) ParameterSet {
	var out ParameterSet
	total := wx + wy
	for i := 0; i < NumAcoustic; i++ {
		out[i] = (x[i]*wx + y[i]*wy) / total
	}
	out[Duration] = durationMS
	return out
}
