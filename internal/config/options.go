package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/go-klatt/internal/audio"
	"github.com/example/go-klatt/internal/rules"
)

const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"

	FormatWAV = audio.FormatWAV
	FormatPCM = audio.FormatPCM
)

// ParseLogLevel maps a level name to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// NormalizeLanguage returns the registry id for a ruleset name.
func NormalizeLanguage(raw string) (string, error) {
	id := rules.NormalizeID(raw)
	if id == "" {
		id = rules.EnglishCanadianID
	}
	if _, err := rules.Lookup(id); err != nil {
		return "", err
	}

	return id, nil
}

func NormalizeOnError(raw string) (string, error) {
	policy := strings.ToLower(strings.TrimSpace(raw))
	switch policy {
	case "", OnErrorSkip, "continue":
		return OnErrorSkip, nil
	case OnErrorAbort, "fail":
		return OnErrorAbort, nil
	default:
		return "", fmt.Errorf("invalid on-error policy %q (expected %s|%s)", raw, OnErrorSkip, OnErrorAbort)
	}
}

func NormalizeFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "", FormatWAV:
		return FormatWAV, nil
	case FormatPCM, "raw", "s16le":
		return FormatPCM, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected %s|%s)", raw, FormatWAV, FormatPCM)
	}
}
