// Package stageprof times the stages of rendering one paragraph and labels
// each with pprof, so a CPU profile can be split by stage.
package stageprof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/example/go-klatt/internal/audio"
	"github.com/example/go-klatt/internal/render"
	"github.com/example/go-klatt/internal/transcript"
)

type Options struct {
	Runs   int
	Warmup int
	// CPUProfile, if set, receives a CPU profile of the measured runs.
	CPUProfile string
}

// Timings holds per-stage wall time for one run, or the mean over several.
type Timings struct {
	Parse      time.Duration
	Expand     time.Duration
	Synthesize time.Duration
	Encode     time.Duration
	Total      time.Duration
	Frames     int
	Samples    int
}

// Profile renders line Warmup+Runs times and returns the mean timings of the
// measured runs.
func Profile(ctx context.Context, r *render.Renderer, line string, opts Options) (Timings, error) {
	if opts.Runs < 1 {
		return Timings{}, errors.New("runs must be >= 1")
	}

	for i := range opts.Warmup {
		if _, err := RunOnce(ctx, r, line); err != nil {
			return Timings{}, fmt.Errorf("warmup run %d failed: %w", i+1, err)
		}
	}

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return Timings{}, fmt.Errorf("create cpuprofile: %w", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return Timings{}, fmt.Errorf("start cpuprofile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var agg Timings
	for i := range opts.Runs {
		t, err := RunOnce(ctx, r, line)
		if err != nil {
			return Timings{}, fmt.Errorf("profiled run %d failed: %w", i+1, err)
		}
		agg.Parse += t.Parse
		agg.Expand += t.Expand
		agg.Synthesize += t.Synthesize
		agg.Encode += t.Encode
		agg.Total += t.Total
		agg.Frames = t.Frames
		agg.Samples = t.Samples
	}

	n := time.Duration(opts.Runs)
	agg.Parse /= n
	agg.Expand /= n
	agg.Synthesize /= n
	agg.Encode /= n
	agg.Total /= n
	return agg, nil
}

// RunOnce renders line once, timing parse, pipeline expansion, synthesis and
// WAV encoding separately.
func RunOnce(ctx context.Context, r *render.Renderer, line string) (Timings, error) {
	var (
		out      Timings
		err      error
		para     transcript.Paragraph
		segs     []render.Segment
		samples  []int16
		startAll = time.Now()
	)

	pprof.Do(ctx, pprof.Labels("stage", "parse"), func(context.Context) {
		start := time.Now()
		para, err = r.Parse(line)
		out.Parse = time.Since(start)
	})
	if err != nil {
		return out, fmt.Errorf("parse: %w", err)
	}

	pprof.Do(ctx, pprof.Labels("stage", "expand"), func(ctx context.Context) {
		start := time.Now()
		segs, err = r.Expand(ctx, para)
		out.Expand = time.Since(start)
	})
	if err != nil {
		return out, fmt.Errorf("expand: %w", err)
	}

	pprof.Do(ctx, pprof.Labels("stage", "synthesize"), func(ctx context.Context) {
		start := time.Now()
		samples, err = r.Synthesize(ctx, segs, r.Options().Seed)
		out.Synthesize = time.Since(start)
	})
	if err != nil {
		return out, fmt.Errorf("synthesize: %w", err)
	}

	pprof.Do(ctx, pprof.Labels("stage", "encode"), func(context.Context) {
		start := time.Now()
		_, err = audio.EncodeWAV(samples)
		out.Encode = time.Since(start)
	})
	if err != nil {
		return out, fmt.Errorf("encode wav: %w", err)
	}

	out.Total = time.Since(startAll)
	for _, s := range segs {
		if !s.Pause {
			out.Frames++
		}
	}
	out.Samples = len(samples)
	return out, nil
}

// Report writes the timings as key: value lines.
func Report(w io.Writer, line string, opts Options, t Timings) {
	ms := func(d time.Duration) float64 { return d.Seconds() * 1000 }
	audioMS := float64(t.Samples) * 1000.0 / float64(audio.ExpectedSampleRate)

	fmt.Fprintf(w, "text: %q\n", line)
	fmt.Fprintf(w, "runs: %d (warmup %d)\n", opts.Runs, opts.Warmup)
	fmt.Fprintf(w, "frames: %d\n", t.Frames)
	fmt.Fprintf(w, "audio_ms: %.2f\n", audioMS)
	fmt.Fprintf(w, "avg_parse_ms: %.3f\n", ms(t.Parse))
	fmt.Fprintf(w, "avg_expand_ms: %.3f\n", ms(t.Expand))
	fmt.Fprintf(w, "avg_synthesize_ms: %.3f\n", ms(t.Synthesize))
	fmt.Fprintf(w, "avg_encode_ms: %.3f\n", ms(t.Encode))
	fmt.Fprintf(w, "avg_total_ms: %.3f\n", ms(t.Total))
	if audioMS > 0 {
		fmt.Fprintf(w, "rtf: %.4f\n", ms(t.Total)/audioMS)
	}

	if t.Total > 0 {
		total := ms(t.Total)
		fmt.Fprintf(w, "share_parse_pct: %.2f\n", 100*ms(t.Parse)/total)
		fmt.Fprintf(w, "share_expand_pct: %.2f\n", 100*ms(t.Expand)/total)
		fmt.Fprintf(w, "share_synthesize_pct: %.2f\n", 100*ms(t.Synthesize)/total)
		fmt.Fprintf(w, "share_encode_pct: %.2f\n", 100*ms(t.Encode)/total)
	}
}
