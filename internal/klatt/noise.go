package klatt

import "math/rand/v2"

// NoiseStep bounds the uniform increment added to the accumulator per draw.
const NoiseStep = 1e-5

// NoiseSource is a brown-noise generator: every draw nudges a running
// accumulator by a small uniform step and returns the new value. The
// accumulator persists across frames and is only cleared by Reset.
//
// A NoiseSource is not safe for concurrent use.
type NoiseSource struct {
	src   rand.PCG
	rng   *rand.Rand
	value float64
}

// NoiseState is an opaque copy of a NoiseSource taken by Snapshot.
type NoiseState struct {
	src   rand.PCG
	value float64
}

// NewNoiseSource returns a generator seeded with seed.
func NewNoiseSource(seed uint64) *NoiseSource {
	n := &NoiseSource{}
	n.Reseed(seed)
	return n
}

// Reseed restarts the random stream from seed and clears the accumulator.
func (n *NoiseSource) Reseed(seed uint64) {
	n.src = *rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	n.rng = rand.New(&n.src)
	n.value = 0
}

// Draw advances the accumulator and returns it.
func (n *NoiseSource) Draw() float64 {
	n.value += (n.rng.Float64()*2 - 1) * NoiseStep
	return n.value
}

// Reset zeroes the accumulator. The random stream is not rewound.
func (n *NoiseSource) Reset() { n.value = 0 }

// Value returns the accumulator without advancing it.
func (n *NoiseSource) Value() float64 { return n.value }

// Snapshot captures the accumulator and random stream position.
func (n *NoiseSource) Snapshot() NoiseState {
	return NoiseState{src: n.src, value: n.value}
}

// Restore rewinds the source to a previous Snapshot.
func (n *NoiseSource) Restore(s NoiseState) {
	n.src = s.src
	n.value = s.value
}
