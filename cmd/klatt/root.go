package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/example/go-klatt/internal/config"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "klatt",
		Short: "Klatt formant synthesizer for IPA transcriptions",
		Long: `klatt renders IPA transcriptions to 10 kHz mono speech.

Input is one paragraph per line. Words may carry duration and pitch
modifiers (- + < >), a content marker ('), quotes and *emphasis*.

Settings come from flags, KLATT_* environment variables, a .env file and
klatt.{yaml,toml,json}, highest first.`,
		Example: `  echo 'hɛlo ʍɛɹ ɪz ðə "*stejʃən*"?' | klatt render --output hello.wav
  klatt parse --frames notes.txt
  klatt bench --runs 20 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        rootFlags{cmd},
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(
		newRenderCmd(),
		newParseCmd(),
		newPhonemesCmd(),
		newLanguagesCmd(),
		newDoctorCmd(),
		newBenchCmd(),
	)

	return cmd
}

// setupLogger installs a JSON logger on stderr as the slog default. An
// unparsable level falls back to info. Debug logging records call sites.
func setupLogger(level string) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelDebug}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)).With("app", "klatt"))
}

// rootFlags exposes only the root's persistent flags to config.Load, so a
// subcommand's local flag never shadows a config key of the same name.
type rootFlags struct{ cmd *cobra.Command }

func (r rootFlags) Flags() *pflag.FlagSet { return r.cmd.Root().PersistentFlags() }

func requireConfig() (config.Config, error) {
	if activeCfg.Render.Format == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}
