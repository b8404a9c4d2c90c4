package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-klatt/internal/config"
	"github.com/example/go-klatt/internal/phoneme"
	"github.com/example/go-klatt/internal/render"
	"github.com/example/go-klatt/internal/rules"
)

// renderOptions maps the loaded configuration onto renderer options.
func renderOptions(cfg config.Config) render.Options {
	return render.Options{
		SentencePauseMS:  float64(cfg.Render.SentencePauseMS),
		ParagraphPauseMS: float64(cfg.Render.ParagraphPauseMS),
		CommaPauseMS:     float64(cfg.Render.CommaPauseMS),
		Turbo:            cfg.Synth.Turbo,
		Workers:          cfg.Render.Workers,
		OnError:          cfg.Render.OnError,
		Seed:             cfg.Synth.Seed,
		BaseF0:           cfg.Synth.BaseF0Hz,
	}
}

// newRenderer loads the configured phoneme table and ruleset.
func newRenderer(cfg config.Config, debug bool) (*render.Renderer, error) {
	inv, err := phoneme.LoadFile(cfg.Paths.PhonemeTable)
	if err != nil {
		return nil, fmt.Errorf("load phoneme table: %w", err)
	}
	return newRendererFor(inv, cfg, debug)
}

func newRendererFor(inv *phoneme.Inventory, cfg config.Config, debug bool) (*render.Renderer, error) {
	rs, err := rules.Lookup(cfg.Rules.Language)
	if err != nil {
		return nil, err
	}
	opts := renderOptions(cfg)
	opts.Debug = debug
	return render.New(inv, rs, render.WithOptions(opts), render.WithLogger(slog.Default()))
}
