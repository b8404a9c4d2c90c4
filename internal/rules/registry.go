package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownRuleset is returned by Lookup for unregistered names.
var ErrUnknownRuleset = errors.New("unknown ruleset")

// Factory builds a fresh Ruleset.
type Factory func() Ruleset

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a ruleset available under id. It panics if id is empty or
// already registered.
func Register(id string, f Factory) {
	id = NormalizeID(id)
	if id == "" || f == nil {
		panic("rules: Register with empty id or nil factory")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[id]; dup {
		panic("rules: Register called twice for " + id)
	}
	registry[id] = f
}

// Lookup builds the ruleset registered under id.
func Lookup(id string) (Ruleset, error) {
	registryMu.RLock()
	f, ok := registry[NormalizeID(id)]
	registryMu.RUnlock()
	if !ok {
		return Ruleset{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownRuleset, id, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names returns every registered id, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NormalizeID lower-cases id and maps underscores and spaces to dashes, so
// "English_Canadian" and "english-canadian" select the same ruleset.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.NewReplacer("_", "-", " ", "-").Replace(id)
}
