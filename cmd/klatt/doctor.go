package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/go-klatt/internal/audio"
	"github.com/example/go-klatt/internal/config"
	"github.com/example/go-klatt/internal/doctor"
	"github.com/example/go-klatt/internal/phoneme"
)

// smokePhrase uses only symbols every usable table is expected to carry.
const smokePhrase = "a."

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the phoneme table, ruleset and output location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			result := doctor.Run(doctor.Config{
				PhonemeTable: cfg.Paths.PhonemeTable,
				Language:     cfg.Rules.Language,
				OutputPath:   cfg.Paths.Output,
				Smoke: func(inv *phoneme.Inventory) error {
					return smokeRender(cmd.Context(), inv, cfg)
				},
			}, w)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(w, "doctor checks passed")

			return nil
		},
	}
}

// smokeRender renders a short phrase and checks that it survives a WAV
// encode and decode.
func smokeRender(ctx context.Context, inv *phoneme.Inventory, cfg config.Config) error {
	r, err := newRendererFor(inv, cfg, false)
	if err != nil {
		return err
	}
	samples, err := r.RenderParagraph(ctx, smokePhrase)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("rendered no samples")
	}
	data, err := audio.EncodeWAV(samples)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	back, err := audio.DecodeSamples(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(back) != len(samples) {
		return fmt.Errorf("WAV round trip kept %d of %d samples", len(back), len(samples))
	}
	return nil
}
