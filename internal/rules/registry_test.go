package rules

import (
	"errors"
	"slices"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		id       string
		wantName string
		wantLen  int
	}{
		{"null", "Null", 0},
		{"english-canadian", "Canadian English", 9},
		{"English_Canadian", "Canadian English", 9},
		{"  NULL ", "Null", 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rs, err := Lookup(tt.id)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.id, err)
			}
			if rs.Name != tt.wantName || len(rs.Rules) != tt.wantLen {
				t.Errorf("got %q with %d rules; want %q with %d", rs.Name, len(rs.Rules), tt.wantName, tt.wantLen)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("klingon")
	if !errors.Is(err, ErrUnknownRuleset) {
		t.Fatalf("expected ErrUnknownRuleset, got %v", err)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	for _, want := range []string{NullID, EnglishCanadianID} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() missing %q: %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(NullID, func() Ruleset { return Ruleset{} })
}

func TestResultMultiplier(t *testing.T) {
	if (Result{}).Multiplier() != 1 {
		t.Error("zero Result should leave pitch alone")
	}
	if Pitch(0.9).Multiplier() != 0.9 {
		t.Error("Pitch(0.9) multiplier mismatch")
	}
}
