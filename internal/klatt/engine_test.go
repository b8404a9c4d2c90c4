package klatt

import (
	"math"
	"testing"

	"github.com/example/go-klatt/internal/phoneme"
)

func vowelFrame(ms float64) phoneme.ParameterSet {
	var p phoneme.ParameterSet
	vals := map[int]float64{
		phoneme.FGZ: 1500, phoneme.FNP: 250, phoneme.FNZ: 250,
		phoneme.F1: 780, phoneme.F2: 1300, phoneme.F3: 2500,
		phoneme.F4: 3300, phoneme.F5: 3750, phoneme.F6: 4900,
		phoneme.BGP: 100, phoneme.BGZ: 6000, phoneme.BGS: 200,
		phoneme.BNP: 100, phoneme.BNZ: 100,
		phoneme.BW1: 80, phoneme.BW2: 70, phoneme.BW3: 160,
		phoneme.BW4: 200, phoneme.BW5: 200, phoneme.BW6: 1000,
		phoneme.AV: 11, phoneme.AVS: 2,
	}
	for k, v := range vals {
		p[k] = v
	}
	return p.WithDuration(ms)
}

func TestGenerateSilence(t *testing.T) {
	e := NewEngine(NewNoiseSource(7))
	e.Synthesize(vowelFrame(20), 1, false)
	if e.Noise().Value() == 0 {
		t.Fatal("noise accumulator should have moved during synthesis")
	}

	got := e.GenerateSilence(500)
	if len(got) != 5000 {
		t.Fatalf("len = %d; want 5000", len(got))
	}
	for i, s := range got {
		if s != 0 {
			t.Fatalf("sample %d = %d; want 0", i, s)
		}
	}
	if v := e.Noise().Value(); v != 0 {
		t.Errorf("noise accumulator = %v after silence; want 0", v)
	}
}

func TestSynthesize_Length(t *testing.T) {
	e := NewEngine(NewNoiseSource(1))
	tests := []struct {
		name string
		ms   float64
		f0   float64
		want int
	}{
		{"100ms", 100, 1, 1000},
		{"odd duration", 37, 1.2, 370},
		{"short frame", 5, 1, 50},
		{"zero duration", 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Synthesize(vowelFrame(tt.ms), tt.f0, false)
			if len(got) != tt.want {
				t.Errorf("len = %d; want %d", len(got), tt.want)
			}
		})
	}
}

func TestSynthesize_ProducesSound(t *testing.T) {
	e := NewEngine(NewNoiseSource(1))
	got := e.Synthesize(vowelFrame(100), 1, false)
	nonzero := 0
	for _, s := range got {
		if s != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Fatal("voiced frame rendered as silence")
	}
}

func TestSynthesize_Range(t *testing.T) {
	e := NewEngine(NewNoiseSource(3))

	loud := vowelFrame(50)
	loud[phoneme.AV] = 1e9
	loud[phoneme.AF] = 1e9
	loud[phoneme.AB] = 1e9
	loud[phoneme.A2] = 1e9

	frames := map[string]phoneme.ParameterSet{
		"vowel":        vowelFrame(50),
		"huge amps":    loud,
		"zero bw":      phoneme.ParameterSet{}.WithDuration(50),
		"nan-inducing": func() phoneme.ParameterSet { p := vowelFrame(50); p[phoneme.AV] = math.Inf(1); return p }(),
	}
	for name, p := range frames {
		t.Run(name, func(t *testing.T) {
			got := e.Synthesize(p, 1, false)
			if len(got) != 500 {
				t.Fatalf("len = %d; want 500", len(got))
			}
		})
	}

	clipped := false
	for _, s := range e.Synthesize(loud, 1, false) {
		if s == math.MaxInt16 || s == math.MinInt16 {
			clipped = true
			break
		}
	}
	if !clipped {
		t.Error("huge amplitudes should saturate at the int16 limits")
	}
}

func TestSynthesize_Turbo(t *testing.T) {
	e := NewEngine(NewNoiseSource(5))
	period := e.PeriodSamples(1)
	if period != 125 {
		t.Fatalf("period = %d; want 125 at 80 Hz", period)
	}

	for _, ms := range []float64{100, 143, 25, 20} {
		got := e.Synthesize(vowelFrame(ms), 1, true)
		target := SamplesFor(ms)
		if len(got) != target {
			t.Fatalf("%vms: len = %d; want %d", ms, len(got), target)
		}
		block := 2 * period
		for i := block; i < len(got); i++ {
			if got[i] != got[i%block] {
				t.Fatalf("%vms: sample %d = %d; want cyclic copy %d", ms, i, got[i], got[i%block])
			}
		}
	}
}

func TestSynthesize_TurboMatchesFullPrefix(t *testing.T) {
	full := NewEngine(NewNoiseSource(9)).Synthesize(vowelFrame(100), 1, false)
	fast := NewEngine(NewNoiseSource(9)).Synthesize(vowelFrame(100), 1, true)
	for i := 0; i < 250; i++ {
		if full[i] != fast[i] {
			t.Fatalf("sample %d differs: full=%d turbo=%d", i, full[i], fast[i])
		}
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := NewEngine(NewNoiseSource(42)).Synthesize(vowelFrame(60), 1.1, false)
	b := NewEngine(NewNoiseSource(42)).Synthesize(vowelFrame(60), 1.1, false)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identically seeded engines", i)
		}
	}
}

func TestPeriodSamples(t *testing.T) {
	e := NewEngine(nil, WithBaseF0(100))
	tests := []struct {
		mult float64
		want int
	}{
		{1, 100},
		{1.05, 105},
		{0.95, 95},
		{0, 100},
		{-2, 100},
		{math.NaN(), 100},
		{1e-9, 1},
	}
	for _, tt := range tests {
		if got := e.PeriodSamples(tt.mult); got != tt.want {
			t.Errorf("PeriodSamples(%v) = %d; want %d", tt.mult, got, tt.want)
		}
	}
}

func TestWithBaseF0_IgnoresNonPositive(t *testing.T) {
	e := NewEngine(nil, WithBaseF0(-1))
	if e.BaseF0() != DefaultBaseF0 {
		t.Errorf("BaseF0 = %v; want default", e.BaseF0())
	}
}
