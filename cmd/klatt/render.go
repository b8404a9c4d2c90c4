package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/audio"
	"github.com/example/go-klatt/internal/render"
)

type renderDSPOptions struct {
	Normalize bool
	DCBlock   bool
	FadeInMS  float64
	FadeOutMS float64
}

func (o renderDSPOptions) enabled() bool {
	return o.Normalize || o.DCBlock || o.FadeInMS > 0 || o.FadeOutMS > 0
}

// hooks lists the post-processing steps in the order they run.
func (o renderDSPOptions) hooks() []audio.Hook {
	var hooks []audio.Hook
	if o.Normalize {
		hooks = append(hooks, audio.PeakNormalize)
	}
	if o.DCBlock {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.DCBlock(s, audio.ExpectedSampleRate)
		})
	}
	if o.FadeInMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeIn(s, audio.ExpectedSampleRate, o.FadeInMS)
		})
	}
	if o.FadeOutMS > 0 {
		hooks = append(hooks, func(s []float32) []float32 {
			return audio.FadeOut(s, audio.ExpectedSampleRate, o.FadeOutMS)
		})
	}
	return hooks
}

func newRenderCmd() *cobra.Command {
	var (
		debug bool
		dsp   renderDSPOptions
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render an IPA transcription to audio",
		Long: "Render reads one paragraph per line from input (or stdin when input is\n" +
			"omitted or '-') and writes 10 kHz mono 16-bit audio to --output.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if debug {
				setupLogger("debug")
			}

			r, err := newRenderer(cfg, debug)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeIn()

			out, closeOut, err := openOutput(cfg.Paths.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			st, err := renderTo(cmd, r, in, out, cfg.Render.Format, dsp)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			slog.Info("wrote audio",
				"run", st.RunID,
				"output", cfg.Paths.Output,
				"format", cfg.Render.Format,
				"paragraphs", st.Paragraphs,
				"failed", st.Failed,
			)
			if st.Paragraphs > 0 && st.Rendered == 0 {
				return errors.New("no paragraph rendered")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Log every synthesized frame")
	cmd.Flags().BoolVar(&dsp.Normalize, "normalize", false, "Peak-normalize output audio")
	cmd.Flags().BoolVar(&dsp.DCBlock, "dc-block", false, "Apply DC-block high-pass filter")
	cmd.Flags().Float64Var(&dsp.FadeInMS, "fade-in-ms", 0, "Apply linear fade-in duration in milliseconds")
	cmd.Flags().Float64Var(&dsp.FadeOutMS, "fade-out-ms", 0, "Apply linear fade-out duration in milliseconds")

	return cmd
}

// renderTo renders straight into the output sink, or through a buffer when
// post-processing needs the whole signal.
func renderTo(cmd *cobra.Command, r *render.Renderer, in io.Reader, out io.Writer, format string, dsp renderDSPOptions) (render.Stats, error) {
	sink, err := audio.NewSink(format, out)
	if err != nil {
		return render.Stats{}, err
	}

	if !dsp.enabled() {
		st, err := r.Render(cmd.Context(), in, sink)
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		return st, err
	}

	buf := audio.NewBuffer()
	st, err := r.Render(cmd.Context(), in, buf)
	if err != nil {
		return st, err
	}
	processed := audio.ApplyHooks(buf.Float32(), dsp.hooks()...)
	if err := sink.AddSamples(audio.Float32ToInt16(processed)); err != nil {
		return st, fmt.Errorf("write output: %w", err)
	}
	return st, sink.Close()
}

func openInput(args []string, stdin io.Reader) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		if stdin == nil {
			return nil, nil, errors.New("stdin reader is nil")
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		if stdout == nil {
			return nil, nil, errors.New("stdout writer is nil")
		}
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
