package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Paths    PathsConfig  `mapstructure:"paths"`
	Synth    SynthConfig  `mapstructure:"synth"`
	Rules    RulesConfig  `mapstructure:"rules"`
	Render   RenderConfig `mapstructure:"render"`
}

type PathsConfig struct {
	// PhonemeTable is a YAML inventory file; empty selects the built-in table.
	PhonemeTable string `mapstructure:"phoneme_table"`
	Output       string `mapstructure:"output"`
}

type SynthConfig struct {
	BaseF0Hz float64 `mapstructure:"base_f0_hz"`
	Turbo    bool    `mapstructure:"turbo"`
	Seed     uint64  `mapstructure:"seed"`
}

type RulesConfig struct {
	Language string `mapstructure:"language"`
}

type RenderConfig struct {
	SentencePauseMS  int    `mapstructure:"sentence_pause_ms"`
	ParagraphPauseMS int    `mapstructure:"paragraph_pause_ms"`
	CommaPauseMS     int    `mapstructure:"comma_pause_ms"`
	Workers          int    `mapstructure:"workers"`
	OnError          string `mapstructure:"on_error"`
	Format           string `mapstructure:"format"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
	// EnvFiles are dotenv files loaded before the environment is read.
	// Empty means ".env" in the working directory; missing files are ignored.
	EnvFiles []string
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Paths: PathsConfig{
			PhonemeTable: "",
			Output:       "output.wav",
		},
		Synth: SynthConfig{
			BaseF0Hz: 80,
			Turbo:    false,
			Seed:     1,
		},
		Rules: RulesConfig{
			Language: "english-canadian",
		},
		Render: RenderConfig{
			SentencePauseMS:  500,
			ParagraphPauseMS: 500,
			CommaPauseMS:     250,
			Workers:          1,
			OnError:          OnErrorSkip,
			Format:           FormatWAV,
		},
	}
}

// setting ties a config key to its command-line flag. def reads the
// setting's value out of a Config and also fixes the flag's type.
type setting struct {
	key, flag, usage string
	def              func(Config) any
}

var settings = []setting{
	{"log_level", "log-level", "Log level (debug|info|warn|error)", func(c Config) any { return c.LogLevel }},
	{"paths.phoneme_table", "phoneme-table", "YAML phoneme table (default: built-in inventory)", func(c Config) any { return c.Paths.PhonemeTable }},
	{"paths.output", "output", "Output path ('-' for stdout)", func(c Config) any { return c.Paths.Output }},
	{"synth.base_f0_hz", "base-f0", "Base fundamental frequency in Hz", func(c Config) any { return c.Synth.BaseF0Hz }},
	{"synth.turbo", "turbo", "Render two glottal periods per frame and repeat them", func(c Config) any { return c.Synth.Turbo }},
	{"synth.seed", "seed", "Noise generator seed", func(c Config) any { return c.Synth.Seed }},
	{"rules.language", "language", "Ruleset applied after coarticulation", func(c Config) any { return c.Rules.Language }},
	{"render.sentence_pause_ms", "sentence-pause-ms", "Silence after each sentence", func(c Config) any { return c.Render.SentencePauseMS }},
	{"render.paragraph_pause_ms", "paragraph-pause-ms", "Silence after each paragraph", func(c Config) any { return c.Render.ParagraphPauseMS }},
	{"render.comma_pause_ms", "comma-pause-ms", "Silence after a word ending in a comma", func(c Config) any { return c.Render.CommaPauseMS }},
	{"render.workers", "workers", "Paragraphs rendered concurrently", func(c Config) any { return c.Render.Workers }},
	{"render.on_error", "on-error", "Paragraph failure policy (skip|abort)", func(c Config) any { return c.Render.OnError }},
	{"render.format", "format", "Output format (wav|pcm)", func(c Config) any { return c.Render.Format }},
}

// RegisterFlags defines one flag per setting, defaulting to the value in
// defaults.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	for _, st := range settings {
		switch d := st.def(defaults).(type) {
		case string:
			fs.String(st.flag, d, st.usage)
		case bool:
			fs.Bool(st.flag, d, st.usage)
		case int:
			fs.Int(st.flag, d, st.usage)
		case uint64:
			fs.Uint64(st.flag, d, st.usage)
		case float64:
			fs.Float64(st.flag, d, st.usage)
		default:
			panic(fmt.Sprintf("config: setting %s has unsupported type %T", st.key, d))
		}
	}
}

func Load(opts LoadOptions) (Config, error) {
	if err := loadEnvFiles(opts.EnvFiles); err != nil {
		return Config{}, err
	}

	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	// synth.base_f0_hz reads KLATT_SYNTH_BASE_F0_HZ.
	v.SetEnvPrefix("KLATT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// readConfigFile reads path, or klatt.{yaml,json,toml,...} from the working
// directory when path is empty. Only an explicit path must exist.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("klatt")
		v.AddConfigPath(".")
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (path != "" || !errors.As(err, &notFound)) {
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	return nil
}

// bindFlags binds each known flag to its nested key, so a flag only wins
// over file and environment values when it was set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, st := range settings {
		f := fs.Lookup(st.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(st.key, f); err != nil {
			return fmt.Errorf("%s: %w", st.flag, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	for _, st := range settings {
		v.SetDefault(st.key, st.def(c))
	}
}

// Validate normalizes enumerated fields in place and rejects values the
// renderer cannot use.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Synth.BaseF0Hz <= 0 {
		return fmt.Errorf("base f0 must be positive, got %v", c.Synth.BaseF0Hz)
	}
	if c.Render.SentencePauseMS < 0 || c.Render.ParagraphPauseMS < 0 || c.Render.CommaPauseMS < 0 {
		return errors.New("pause lengths must not be negative")
	}
	if c.Render.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Render.Workers)
	}

	var err error
	if c.Rules.Language, err = NormalizeLanguage(c.Rules.Language); err != nil {
		return err
	}
	if c.Render.OnError, err = NormalizeOnError(c.Render.OnError); err != nil {
		return err
	}
	if c.Render.Format, err = NormalizeFormat(c.Render.Format); err != nil {
		return err
	}

	return nil
}
