// Package bench times whole-paragraph renders for the klatt bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/example/go-klatt/internal/klatt"
)

// RunResult is one timed render.
type RunResult struct {
	Index   int
	Cold    bool
	Samples int
	Elapsed time.Duration
}

// Audio is the playback length of the run's samples.
func (r RunResult) Audio() time.Duration { return SamplesDuration(r.Samples) }

// RTF is elapsed time over audio time. Zero when the run produced no audio.
func (r RunResult) RTF() float64 {
	audio := r.Audio()
	if audio <= 0 {
		return 0
	}
	return float64(r.Elapsed) / float64(audio)
}

// SamplesDuration returns the playback length of n samples at the engine
// sample rate.
func SamplesDuration(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / klatt.SampleRate
}

// Summary aggregates a set of runs.
type Summary struct {
	Fastest time.Duration
	Median  time.Duration
	Slowest time.Duration
	Mean    time.Duration
	MeanRTF float64
}

// Speedup is how many times faster than playback the mean run was.
func (s Summary) Speedup() float64 {
	if s.MeanRTF <= 0 {
		return 0
	}
	return 1 / s.MeanRTF
}

// CheckRTF fails when the mean realtime factor is above limit. A limit of
// zero or less never fails.
func (s Summary) CheckRTF(limit float64) error {
	if limit > 0 && s.MeanRTF > limit {
		return fmt.Errorf("mean RTF %.4f above limit %.4f", s.MeanRTF, limit)
	}
	return nil
}

// Summarize computes the summary of runs. The median of an even count is
// the lower middle value.
func Summarize(runs []RunResult) Summary {
	if len(runs) == 0 {
		return Summary{}
	}
	elapsed := make([]time.Duration, len(runs))
	var (
		total time.Duration
		rtf   float64
	)
	for i, r := range runs {
		elapsed[i] = r.Elapsed
		total += r.Elapsed
		rtf += r.RTF()
	}
	slices.Sort(elapsed)
	n := len(elapsed)
	return Summary{
		Fastest: elapsed[0],
		Median:  elapsed[(n-1)/2],
		Slowest: elapsed[n-1],
		Mean:    total / time.Duration(n),
		MeanRTF: rtf / float64(n),
	}
}

// Run calls render n times and times each call. render returns the number
// of samples it produced. The first run is cold. On error the runs completed
// so far are returned with it.
func Run(n int, render func() (int, error)) ([]RunResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("runs must be >= 1, got %d", n)
	}
	runs := make([]RunResult, 0, n)
	for i := range n {
		start := time.Now()
		samples, err := render()
		elapsed := time.Since(start)
		if err != nil {
			return runs, fmt.Errorf("run %d: %w", i+1, err)
		}
		runs = append(runs, RunResult{Index: i, Cold: i == 0, Samples: samples, Elapsed: elapsed})
	}
	return runs, nil
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// WriteTable prints one row per run followed by the summary.
func WriteTable(w io.Writer, runs []RunResult, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "run\tcold\tsamples\taudio ms\trender ms\trtf\t")
	for _, r := range runs {
		cold := "-"
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\t%.3f\t%.4f\t\n",
			r.Index+1, cold, r.Samples, ms(r.Audio()), ms(r.Elapsed), r.RTF())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nrender ms: fastest %.3f  median %.3f  mean %.3f  slowest %.3f\nmean rtf %.4f (%.0fx realtime)\n",
		ms(s.Fastest), ms(s.Median), ms(s.Mean), ms(s.Slowest), s.MeanRTF, s.Speedup())
	return err
}

type jsonRun struct {
	Run      int     `json:"run"`
	Cold     bool    `json:"cold"`
	Samples  int     `json:"samples"`
	AudioMS  float64 `json:"audio_ms"`
	RenderMS float64 `json:"render_ms"`
	RTF      float64 `json:"rtf"`
}

type jsonSummary struct {
	FastestMS float64 `json:"fastest_ms"`
	MedianMS  float64 `json:"median_ms"`
	MeanMS    float64 `json:"mean_ms"`
	SlowestMS float64 `json:"slowest_ms"`
	MeanRTF   float64 `json:"mean_rtf"`
	Speedup   float64 `json:"speedup"`
}

// WriteJSON prints the runs and summary as an indented JSON object with
// "runs" and "summary" keys.
func WriteJSON(w io.Writer, runs []RunResult, s Summary) error {
	report := struct {
		Runs    []jsonRun   `json:"runs"`
		Summary jsonSummary `json:"summary"`
	}{
		Runs: make([]jsonRun, len(runs)),
		Summary: jsonSummary{
			FastestMS: ms(s.Fastest),
			MedianMS:  ms(s.Median),
			MeanMS:    ms(s.Mean),
			SlowestMS: ms(s.Slowest),
			MeanRTF:   s.MeanRTF,
			Speedup:   s.Speedup(),
		},
	}
	for i, r := range runs {
		report.Runs[i] = jsonRun{
			Run:      r.Index + 1,
			Cold:     r.Cold,
			Samples:  r.Samples,
			AudioMS:  ms(r.Audio()),
			RenderMS: ms(r.Elapsed),
			RTF:      r.RTF(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
