// Package render drives the whole synthesis: it parses transcription
// paragraphs, expands every phoneme through the parameter pipeline and feeds
// the resulting frames to a Klatt engine, inserting pauses between words,
// sentences and paragraphs.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/go-klatt/internal/audio"
	"github.com/example/go-klatt/internal/klatt"
	"github.com/example/go-klatt/internal/phoneme"
	"github.com/example/go-klatt/internal/pipeline"
	"github.com/example/go-klatt/internal/rules"
	"github.com/example/go-klatt/internal/text"
	"github.com/example/go-klatt/internal/transcript"
)

// Failure policies for a paragraph that does not render.
const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"
)

// Options controls pauses, concurrency, error policy and the engine.
type Options struct {
	SentencePauseMS  float64
	ParagraphPauseMS float64
	CommaPauseMS     float64
	Turbo            bool
	// Workers > 1 renders paragraphs concurrently. Output does not depend
	// on the worker count.
	Workers int
	OnError string
	Seed    uint64
	BaseF0  float64
	// Debug logs every synthesized frame.
	Debug bool
}

// DefaultOptions returns 500 ms sentence and paragraph pauses, a 250 ms
// comma pause, one worker, the skip policy, seed 1 and the default base F0.
func DefaultOptions() Options {
	return Options{
		SentencePauseMS:  500,
		ParagraphPauseMS: 500,
		CommaPauseMS:     250,
		Workers:          1,
		OnError:          OnErrorSkip,
		Seed:             1,
		BaseF0:           klatt.DefaultBaseF0,
	}
}

// Stats summarizes one Render call.
type Stats struct {
	// RunID tags every log record of the call.
	RunID      string
	Paragraphs int
	Rendered   int
	Failed     int
	// Samples counts everything written to the sink, pauses included.
	Samples int
}

// Duration is the playback length of the written samples.
func (s Stats) Duration() time.Duration {
	return time.Duration(s.Samples) * time.Second / klatt.SampleRate
}

// Option configures a Renderer in New.
type Option func(*Renderer)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOptions replaces the whole option set.
func WithOptions(o Options) Option {
	return func(r *Renderer) { r.opts = o }
}

// Renderer turns transcription text into PCM. It keeps no per-render state,
// so one Renderer may serve concurrent calls.
type Renderer struct {
	pipeline *pipeline.Pipeline
	parser   *transcript.Parser
	opts     Options
	logger   *slog.Logger
}

// New builds a Renderer for an inventory and ruleset.
func New(inv *phoneme.Inventory, ruleset rules.Ruleset, opts ...Option) (*Renderer, error) {
	parser, err := transcript.NewParser(inv)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		pipeline: pipeline.New(inv, ruleset),
		parser:   parser,
		opts:     DefaultOptions(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.opts.Workers < 1 {
		r.opts.Workers = 1
	}
	switch r.opts.OnError {
	case "":
		r.opts.OnError = OnErrorSkip
	case OnErrorSkip, OnErrorAbort:
	default:
		return nil, fmt.Errorf("render: unknown error policy %q", r.opts.OnError)
	}
	return r, nil
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Parse exposes the parser used for rendering.
func (r *Renderer) Parse(line string) (transcript.Paragraph, error) {
	return r.parser.ParseParagraph(line)
}

// RenderParagraph renders one line of transcription with the configured
// seed. Every sentence is followed by the sentence pause.
func (r *Renderer) RenderParagraph(ctx context.Context, line string) ([]int16, error) {
	return r.renderParagraph(ctx, 0, line)
}

// Render reads input, renders it paragraph by paragraph and writes the
// samples to sink in input order, each paragraph followed by the paragraph
// pause. A paragraph is written only once it rendered completely. The sink is
// not closed.
func (r *Renderer) Render(ctx context.Context, input io.Reader, sink audio.Sink) (Stats, error) {
	paras, err := text.ReadParagraphs(input)
	if errors.Is(err, text.ErrEmptyText) {
		r.logger.Info("nothing to render")
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, err
	}

	st := Stats{RunID: uuid.NewString(), Paragraphs: len(paras)}
	run := *r
	run.logger = r.logger.With("run", st.RunID)
	r = &run

	r.logger.Info("rendering",
		"language", r.pipeline.Ruleset().Name,
		"paragraphs", len(paras),
		"workers", r.opts.Workers,
		"turbo", r.opts.Turbo,
	)

	if r.opts.Workers > 1 && len(paras) > 1 {
		err = r.renderConcurrent(ctx, paras, sink, &st)
	} else {
		for i, p := range paras {
			samples, perr := r.renderParagraph(ctx, i, p)
			if err = r.emit(ctx, i, samples, perr, sink, &st); err != nil {
				break
			}
		}
	}

	r.logger.Info("render finished",
		"rendered", st.Rendered,
		"failed", st.Failed,
		"duration", st.Duration().String(),
	)
	return st, err
}

type paragraphResult struct {
	samples []int16
	err     error
}

// renderConcurrent renders up to Workers paragraphs at once and writes the
// results strictly in input order.
func (r *Renderer) renderConcurrent(ctx context.Context, paras []string, sink audio.Sink, st *Stats) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan paragraphResult, len(paras))
	for i := range results {
		results[i] = make(chan paragraphResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		for i, p := range paras {
			g.Go(func() error {
				samples, err := r.renderParagraph(ctx, i, p)
				results[i] <- paragraphResult{samples: samples, err: err}
				return nil
			})
		}
	}()

	var err error
	for i := range paras {
		res := <-results[i]
		if err = r.emit(ctx, i, res.samples, res.err, sink, st); err != nil {
			break
		}
	}

	cancel()
	<-scheduled
	_ = g.Wait()
	return err
}

// emit applies the error policy to one paragraph result and writes it.
func (r *Renderer) emit(ctx context.Context, index int, samples []int16, perr error, sink audio.Sink, st *Stats) error {
	if perr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		st.Failed++
		r.logger.Error("paragraph failed", "paragraph", index+1, "err", perr)
		if r.opts.OnError == OnErrorAbort {
			return fmt.Errorf("paragraph %d: %w", index+1, perr)
		}
		return nil
	}

	pause := make([]int16, klatt.SamplesFor(r.opts.ParagraphPauseMS))
	for _, chunk := range [][]int16{samples, pause} {
		if err := sink.AddSamples(chunk); err != nil {
			return fmt.Errorf("write paragraph %d: %w", index+1, err)
		}
		st.Samples += len(chunk)
	}
	st.Rendered++
	r.logger.Debug("paragraph rendered", "paragraph", index+1, "samples", len(samples))
	return nil
}

// renderParagraph renders paragraph index on a fresh engine seeded from the
// base seed and the index.
func (r *Renderer) renderParagraph(ctx context.Context, index int, line string) ([]int16, error) {
	para, err := r.parser.ParseParagraph(line)
	if err != nil {
		return nil, err
	}
	segs, err := r.Expand(ctx, para)
	if err != nil {
		return nil, err
	}
	return r.Synthesize(ctx, segs, r.opts.Seed+uint64(index))
}

// Segment is one step of a paragraph's rendering: a frame to synthesize or
// a pause.
type Segment struct {
	Symbol string
	// Frame.F0 already includes the occurrence's pitch multiplier.
	Frame   pipeline.Frame
	Pause   bool
	PauseMS float64
}

// Expand runs every phoneme of para through the pipeline and lays out the
// frames and pauses in playback order.
func (r *Renderer) Expand(ctx context.Context, para transcript.Paragraph) ([]Segment, error) {
	var out []Segment
	for si, s := range para.Sentences {
		texts := wordTexts(s.Words)
		for wi, w := range s.Words {
			syms := w.Symbols()
			for pi, occ := range w.Phonemes {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				c := rules.Context{
					Preceding:          syms[:pi:pi],
					Following:          syms[pi+1:],
					WordPosition:       wi + 1,
					RemainingWords:     len(s.Words) - wi - 1,
					PreviousWords:      texts[:wi:wi],
					FollowingWords:     texts[wi+1:],
					SentencePosition:   si + 1,
					RemainingSentences: len(para.Sentences) - si - 1,
					Quoted:             w.Quoted,
					Emphasized:         w.Emphasized,
					Content:            w.Content,
					Question:           s.Question,
					Exclamation:        s.Exclamation,
				}
				if wi > 0 {
					c.PreviousWordFinal = s.Words[wi-1].Final()
				}

				frames, err := r.pipeline.Run(occ, &c)
				if err != nil {
					return nil, fmt.Errorf("sentence %d, word %d (%s): %w", si+1, wi+1, w.Text, err)
				}
				for _, f := range frames {
					f.F0 *= occ.Pitch
					out = append(out, Segment{Symbol: occ.Symbol, Frame: f})
				}
			}
			if w.Pause {
				out = append(out, Segment{Pause: true, PauseMS: r.opts.CommaPauseMS})
			}
		}
		out = append(out, Segment{Pause: true, PauseMS: r.opts.SentencePauseMS})
	}
	return out, nil
}

// Synthesize renders segments on a new engine whose noise source starts
// from seed.
func (r *Renderer) Synthesize(ctx context.Context, segs []Segment, seed uint64) ([]int16, error) {
	engine := klatt.NewEngine(klatt.NewNoiseSource(seed), klatt.WithBaseF0(r.opts.BaseF0))

	var out []int16
	for _, seg := range segs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seg.Pause {
			out = append(out, engine.GenerateSilence(seg.PauseMS)...)
			continue
		}
		if r.opts.Debug {
			r.logger.Debug("frame", "symbol", seg.Symbol, "f0", seg.Frame.F0, "params", seg.Frame.Params)
		}
		out = append(out, engine.Synthesize(seg.Frame.Params, seg.Frame.F0, r.opts.Turbo)...)
	}
	return out, nil
}

func wordTexts(words []transcript.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}
