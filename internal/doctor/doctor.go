// Package doctor provides environment preflight checks for klatt.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/go-klatt/internal/phoneme"
	"github.com/example/go-klatt/internal/rules"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the settings each check verifies.
type Config struct {
	// PhonemeTable is a YAML inventory path; empty checks the built-in table.
	PhonemeTable string
	// Language is the ruleset id to look up.
	Language string
	// OutputPath is where audio will be written. Its directory must be
	// writable. Empty or "-" skips the check.
	OutputPath string
	// Smoke, if set, renders a short phrase end to end.
	Smoke func(inv *phoneme.Inventory) error
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

// check records one outcome and prints it. On failure detail is printed
// and label: err is recorded.
func (r *Result) check(w io.Writer, label, detail string, err error) {
	if err != nil {
		r.failures = append(r.failures, fmt.Sprintf("%s: %v", label, err))
		fmt.Fprintf(w, "%s %s: %s\n", FailMark, label, detail)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", PassMark, label, detail)
}

// Run executes all configured checks and writes one line per check to w,
// prefixed with PassMark or FailMark. The smoke render only runs when the
// phoneme table loaded.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	inv, err := phoneme.LoadFile(cfg.PhonemeTable)
	if err != nil {
		res.check(w, "phoneme table", err.Error(), err)
	} else {
		res.check(w, "phoneme table", fmt.Sprintf("%s (%d phonemes)", inv.Name(), inv.Len()), nil)
		if err := checkInventory(inv); err != nil {
			res.check(w, "phoneme table", err.Error(), err)
		}
	}

	if rs, err := rules.Lookup(cfg.Language); err != nil {
		res.check(w, "ruleset", fmt.Sprintf("%q: %v", cfg.Language, err), err)
	} else {
		res.check(w, "ruleset", fmt.Sprintf("%s (%d rules)", rs.Name, len(rs.Rules)), nil)
	}

	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		res.check(w, "output", "stdout", nil)
	} else {
		dir := filepath.Dir(cfg.OutputPath)
		err := checkWritable(dir)
		detail := dir
		if err != nil {
			detail = dir + " not writable"
		}
		res.check(w, "output directory", detail, err)
	}

	if cfg.Smoke != nil && inv != nil {
		err := cfg.Smoke(inv)
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		res.check(w, "smoke render", detail, err)
	}

	return res
}

// checkInventory reports tables that load but cannot drive the pipeline.
func checkInventory(inv *phoneme.Inventory) error {
	for _, sym := range inv.Symbols() {
		if inv.IsVowel(sym) {
			return nil
		}
	}
	return errors.New("no phoneme is classed as a vowel")
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".klatt-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
