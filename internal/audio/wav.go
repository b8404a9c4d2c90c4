package audio

import "math"

// Hook is a post-processing step over a whole rendered buffer.
type Hook func(samples []float32) []float32

// ApplyHooks runs hooks in order, feeding each the previous output.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

const pcmScale = 32767

// Int16ToFloat32 maps engine samples onto [-1, 1].
func Int16ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / pcmScale
	}

	return out
}

// Float32ToInt16 is the inverse of Int16ToFloat32. Values outside [-1, 1]
// are clamped and NaN becomes 0.
func Float32ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = toPCM16(s)
	}

	return out
}

func toPCM16(s float32) int16 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1.0, math.Min(1.0, v))

	return int16(math.Round(v * pcmScale))
}
