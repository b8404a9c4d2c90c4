// Package klatt implements the cascade/parallel formant synthesizer: the
// resonator bank, the shared noise source and the per-frame engine.
package klatt

import "math"

// Coefficients converts a resonance frequency and bandwidth (Hz) into the
// difference-equation coefficients of a two-pole resonator sampled every dt
// seconds.
func Coefficients(f, bw, dt float64) (a, b, c float64) {
	b = math.Cos(2*math.Pi*f*dt) * 2 * math.Exp(-math.Pi*dt*bw)
	c = -math.Exp(-2 * math.Pi * dt * bw)
	a = 1 - b - c
	return a, b, c
}

// Resonator is a two-pole recursive filter.
//
//	y = a*x + b*y[n-1] + c*y[n-2]
type Resonator struct {
	a, b, c float64
	p1, p2  float64
}

// Set loads new coefficients and clears the delay memory.
func (r *Resonator) Set(a, b, c float64) {
	r.a, r.b, r.c = a, b, c
	r.p1, r.p2 = 0, 0
}

// Step filters one sample.
func (r *Resonator) Step(x float64) float64 {
	y := r.a*x + r.b*r.p1 + r.c*r.p2
	r.p2 = r.p1
	r.p1 = y
	return y
}

// AntiResonator is the spectral inverse of a Resonator. It uses the same
// recurrence on transformed coefficients but remembers inputs, not outputs.
type AntiResonator struct {
	a, b, c float64
	p1, p2  float64
}

// Set takes ordinary resonator coefficients and stores their inverse:
// a' = 1/a, b' = -b*a', c' = -c*a'. Delay memory is cleared.
func (r *AntiResonator) Set(a, b, c float64) {
	inv := 1 / a
	r.a, r.b, r.c = inv, -b*inv, -c*inv
	r.p1, r.p2 = 0, 0
}

// Step filters one sample.
func (r *AntiResonator) Step(x float64) float64 {
	y := r.a*x + r.b*r.p1 + r.c*r.p2
	r.p2 = r.p1
	r.p1 = x
	return y
}
