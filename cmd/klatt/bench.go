package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/bench"
	"github.com/example/go-klatt/internal/bench/stageprof"
)

const defaultBenchText = `hɛlo ʍɛɹ ɪz ðə "*stejʃən*"?`

func newBenchCmd() *cobra.Command {
	var (
		text         string
		runs         int
		warmup       int
		format       string
		rtfThreshold float64
		stages       bool
		cpuProfile   string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark synthesis latency and realtime factor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				return errors.New("--text must not be empty")
			}
			if runs < 1 {
				return errors.New("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return errors.New("--format must be 'table' or 'json'")
			}

			r, err := newRenderer(cfg, false)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if stages {
				opts := stageprof.Options{Runs: runs, Warmup: warmup, CPUProfile: cpuProfile}
				t, err := stageprof.Profile(cmd.Context(), r, text, opts)
				if err != nil {
					return err
				}
				stageprof.Report(w, text, opts, t)
				return nil
			}
			if cpuProfile != "" {
				return errors.New("--cpuprofile requires --stages")
			}

			results, err := bench.Run(runs, func() (int, error) {
				samples, err := r.RenderParagraph(cmd.Context(), text)
				return len(samples), err
			})
			if err != nil {
				return err
			}
			summary := bench.Summarize(results)

			if format == "json" {
				err = bench.WriteJSON(w, results, summary)
			} else {
				err = bench.WriteTable(w, results, summary)
			}
			if err != nil {
				return err
			}

			if err := summary.CheckRTF(rtfThreshold); err != nil {
				return fmt.Errorf("bench: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", defaultBenchText, "Transcription rendered on each run")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of synthesis runs")
	cmd.Flags().IntVar(&warmup, "warmup", 1, "Unmeasured runs before profiling (with --stages)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&rtfThreshold, "rtf-threshold", 0, "Exit non-zero if mean RTF exceeds this value (0 = disabled)")
	cmd.Flags().BoolVar(&stages, "stages", false, "Report per-stage timings instead of whole-render runs")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile of the measured runs (with --stages)")

	return cmd
}
