// Package testutil provides shared fixtures and skip helpers for tests.
//
// Skip helpers call t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so tests that exercise optional inputs stay
// runnable everywhere.
//
// Typical usage:
//
//	func TestCustomTable(t *testing.T) {
//	    path := testutil.RequirePhonemeTable(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-klatt/internal/phoneme"
)

// PhonemeTableEnv names an optional user-supplied phoneme table to run the
// table-driven integration tests against.
const PhonemeTableEnv = "KLATT_TEST_PHONEME_TABLE"

// RequirePhonemeTable skips the test unless PhonemeTableEnv points at a
// readable file, and returns that path.
func RequirePhonemeTable(tb testing.TB) string {
	tb.Helper()

	path := os.Getenv(PhonemeTableEnv)
	if path == "" {
		tb.Skipf("no external phoneme table; set %s to run", PhonemeTableEnv)
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		tb.Skipf("phoneme table not found at %s=%q", PhonemeTableEnv, path)
		return ""
	}

	return path
}

// DefaultInventory loads the built-in phoneme table or fails the test.
func DefaultInventory(tb testing.TB) *phoneme.Inventory {
	tb.Helper()

	inv, err := phoneme.Default()
	if err != nil {
		tb.Fatalf("load default inventory: %v", err)
	}

	return inv
}

// WriteFile writes content to name inside a fresh temp dir and returns the
// full path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}

	return path
}
