package bench_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/example/go-klatt/internal/bench"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestSamplesDuration(t *testing.T) {
	tests := []struct {
		samples int
		want    time.Duration
	}{
		{10000, time.Second},
		{2500, 250 * time.Millisecond},
		{1, 100 * time.Microsecond},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := bench.SamplesDuration(tt.samples); got != tt.want {
			t.Errorf("SamplesDuration(%d) = %v; want %v", tt.samples, got, tt.want)
		}
	}
}

func TestRunResult_RTF(t *testing.T) {
	tests := []struct {
		name    string
		run     bench.RunResult
		wantRTF float64
	}{
		{"half realtime", bench.RunResult{Samples: 10000, Elapsed: ms(500)}, 0.5},
		{"slower than realtime", bench.RunResult{Samples: 5000, Elapsed: ms(1000)}, 2},
		{"no audio", bench.RunResult{Samples: 0, Elapsed: ms(10)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.RTF(); math.Abs(got-tt.wantRTF) > 1e-9 {
				t.Errorf("RTF = %v; want %v", got, tt.wantRTF)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	runs := []bench.RunResult{
		{Samples: 10000, Elapsed: ms(400)},
		{Samples: 10000, Elapsed: ms(100)},
		{Samples: 10000, Elapsed: ms(300)},
		{Samples: 10000, Elapsed: ms(200)},
	}
	s := bench.Summarize(runs)
	if s.Fastest != ms(100) || s.Slowest != ms(400) {
		t.Errorf("fastest/slowest = %v/%v; want 100ms/400ms", s.Fastest, s.Slowest)
	}
	if s.Median != ms(200) {
		t.Errorf("median = %v; want lower middle 200ms", s.Median)
	}
	if s.Mean != ms(250) {
		t.Errorf("mean = %v; want 250ms", s.Mean)
	}
	if math.Abs(s.MeanRTF-0.25) > 1e-9 {
		t.Errorf("mean RTF = %v; want 0.25", s.MeanRTF)
	}
	if math.Abs(s.Speedup()-4) > 1e-9 {
		t.Errorf("speedup = %v; want 4", s.Speedup())
	}
	if runs[0].Elapsed != ms(400) {
		t.Error("Summarize reordered its input")
	}

	if got := bench.Summarize(nil); got != (bench.Summary{}) {
		t.Errorf("Summarize(nil) = %+v; want zero", got)
	}
	if got := (bench.Summary{}).Speedup(); got != 0 {
		t.Errorf("zero summary speedup = %v; want 0", got)
	}
}

func TestSummary_CheckRTF(t *testing.T) {
	tests := []struct {
		name    string
		meanRTF float64
		limit   float64
		wantErr bool
	}{
		{"above limit", 1.5, 1, true},
		{"below limit", 0.8, 1, false},
		{"at limit", 1, 1, false},
		{"disabled", 9999, 0, false},
		{"negative disables", 9999, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bench.Summary{MeanRTF: tt.meanRTF}.CheckRTF(tt.limit)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckRTF(%v) error = %v; wantErr %v", tt.limit, err, tt.wantErr)
			}
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("times every call", func(t *testing.T) {
		calls := 0
		runs, err := bench.Run(3, func() (int, error) {
			calls++
			return 20000, nil
		})
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
		if calls != 3 || len(runs) != 3 {
			t.Fatalf("calls=%d runs=%d; want 3/3", calls, len(runs))
		}
		for i, r := range runs {
			if r.Index != i || r.Cold != (i == 0) {
				t.Errorf("run %d: index=%d cold=%v", i, r.Index, r.Cold)
			}
			if r.Audio() != 2*time.Second {
				t.Errorf("run %d: audio = %v; want 2s", i, r.Audio())
			}
		}
	})

	t.Run("stops on error", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		runs, err := bench.Run(5, func() (int, error) {
			calls++
			if calls == 2 {
				return 0, boom
			}
			return 100, nil
		})
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v; want boom", err)
		}
		if len(runs) != 1 || calls != 2 {
			t.Errorf("completed runs = %d after %d calls; want 1 after 2", len(runs), calls)
		}
	})

	t.Run("rejects zero runs", func(t *testing.T) {
		if _, err := bench.Run(0, func() (int, error) { return 0, nil }); err == nil {
			t.Error("want error for zero runs")
		}
	})
}

func sampleRuns() []bench.RunResult {
	return []bench.RunResult{
		{Index: 0, Cold: true, Samples: 10000, Elapsed: ms(8)},
		{Index: 1, Samples: 10000, Elapsed: ms(5)},
	}
}

func TestWriteTable(t *testing.T) {
	runs := sampleRuns()
	var buf bytes.Buffer
	if err := bench.WriteTable(&buf, runs, bench.Summarize(runs)); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"run", "cold", "samples", "render ms", "rtf", "yes", "10000", "median", "realtime"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "yes") != 1 {
		t.Errorf("only the first run should be marked cold:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	runs := sampleRuns()
	var buf bytes.Buffer
	if err := bench.WriteJSON(&buf, runs, bench.Summarize(runs)); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var report struct {
		Runs []struct {
			Run     int     `json:"run"`
			Cold    bool    `json:"cold"`
			Samples int     `json:"samples"`
			AudioMS float64 `json:"audio_ms"`
		} `json:"runs"`
		Summary struct {
			FastestMS float64 `json:"fastest_ms"`
			SlowestMS float64 `json:"slowest_ms"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(report.Runs) != 2 {
		t.Fatalf("got %d runs; want 2", len(report.Runs))
	}
	first := report.Runs[0]
	if first.Run != 1 || !first.Cold || first.Samples != 10000 || first.AudioMS != 1000 {
		t.Errorf("first run = %+v", first)
	}
	if report.Summary.FastestMS != 5 || report.Summary.SlowestMS != 8 {
		t.Errorf("summary = %+v; want fastest 5 slowest 8", report.Summary)
	}
}
