package rules

import (
	"math"
	"testing"

	"github.com/example/go-klatt/internal/phoneme"
)

func testInventory(t *testing.T) *phoneme.Inventory {
	t.Helper()
	inv, err := phoneme.Default()
	if err != nil {
		t.Fatalf("phoneme.Default() error: %v", err)
	}
	return inv
}

func baseParams(t *testing.T, inv *phoneme.Inventory, sym string) phoneme.ParameterSet {
	t.Helper()
	p, err := inv.Params(sym)
	if err != nil {
		t.Fatalf("Params(%q) error: %v", sym, err)
	}
	return p
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEnglishCanadian_Order(t *testing.T) {
	want := []string{
		"liquidate-vowels",
		"inflect-question-pitch",
		"amplify-content",
		"emphasize-speech",
		"quote-speech",
		"degrade-pitch",
		"lengthen-terminal",
		"shorten-diphthong",
		"exclaim",
	}
	got := EnglishCanadian().RuleNames()
	if len(got) != len(want) {
		t.Fatalf("got %d rules, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rule %d = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestLiquidateVowels(t *testing.T) {
	inv := testInventory(t)
	l := baseParams(t, inv, "l")
	a := baseParams(t, inv, "a")

	t.Run("appends blend before vowel", func(t *testing.T) {
		ctx := &Context{Symbol: "l", Following: []string{"a"}, Phonemes: inv}
		p := l
		res := liquidateVowels(ctx, State{Remaining: 0}, &p)
		if len(res.After) != 1 || len(res.Before) != 0 {
			t.Fatalf("got %d before / %d after; want 0/1", len(res.Before), len(res.After))
		}
		bridge := res.After[0]
		if !approx(bridge[phoneme.F1], (l[phoneme.F1]+2*a[phoneme.F1])/3) {
			t.Errorf("bridge F1 = %v", bridge[phoneme.F1])
		}
		if bridge.DurationMS() != math.Trunc(a.DurationMS()*0.25) {
			t.Errorf("bridge duration = %v", bridge.DurationMS())
		}
	})

	t.Run("only on last frame", func(t *testing.T) {
		ctx := &Context{Symbol: "l", Following: []string{"a"}, Phonemes: inv}
		p := l
		if res := liquidateVowels(ctx, State{Remaining: 1}, &p); len(res.After) != 0 {
			t.Error("should not append while frames remain")
		}
	})

	t.Run("needs following vowel", func(t *testing.T) {
		ctx := &Context{Symbol: "l", Following: []string{"t"}, Phonemes: inv}
		p := l
		if res := liquidateVowels(ctx, State{}, &p); len(res.After) != 0 {
			t.Error("should not append before a consonant")
		}
	})
}

func TestInflectQuestionPitch(t *testing.T) {
	inv := testInventory(t)

	tests := []struct {
		name string
		ctx  Context
		want float64
	}{
		{
			name: "not a question",
			ctx:  Context{Symbol: "a", RemainingWords: 0},
			want: 1,
		},
		{
			name: "schwa ignored",
			ctx:  Context{Symbol: "ə", Question: true, RemainingWords: 0},
			want: 1,
		},
		{
			name: "consonant ignored",
			ctx:  Context{Symbol: "t", Question: true, RemainingWords: 0},
			want: 1,
		},
		{
			name: "wh question last word",
			ctx:  Context{Symbol: "a", Question: true, RemainingWords: 0, PreviousWords: []string{"ʍət"}, Preceding: []string{"k"}},
			want: 0.9,
		},
		{
			name: "wh question wedge ahead",
			ctx:  Context{Symbol: "a", Question: true, RemainingWords: 2, PreviousWords: []string{"ʍɛɹ"}, FollowingWords: []string{"ʌ", "ɪt"}},
			want: 0.7,
		},
		{
			name: "wh question bare vowel word",
			ctx:  Context{Symbol: "a", Question: true, RemainingWords: 1, PreviousWords: []string{"hu"}},
			want: 0.8,
		},
		{
			name: "yes/no question final word first vowel",
			ctx:  Context{Symbol: "a", Question: true, RemainingWords: 0, Following: []string{"t"}},
			want: 0.95,
		},
		{
			name: "yes/no question final word second vowel",
			ctx:  Context{Symbol: "i", Question: true, RemainingWords: 0, Preceding: []string{"a", "t"}},
			want: -0.05 + (1 - 0.11/2),
		},
		{
			name: "question word itself",
			ctx:  Context{Symbol: "ɛ", Question: true, RemainingWords: 3, Preceding: []string{"ʍ"}, Following: []string{"n"}},
			want: 0.9,
		},
		{
			name: "why is recognized",
			ctx:  Context{Symbol: "ʌ", Question: true, RemainingWords: 4, Preceding: []string{"ʍ"}, Following: []string{"j"}},
			want: 0.9,
		},
		{
			name: "early word in yes/no question",
			ctx:  Context{Symbol: "a", Question: true, RemainingWords: 3},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx
			ctx.Phonemes = inv
			p := baseParams(t, inv, "a")
			got := inflectQuestionPitch(&ctx, State{}, &p).Multiplier()
			if !approx(got, tt.want) {
				t.Errorf("multiplier = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestProsodyRules(t *testing.T) {
	inv := testInventory(t)
	a := baseParams(t, inv, "a")
	s := baseParams(t, inv, "s")
	p := baseParams(t, inv, "p")

	tests := []struct {
		name      string
		rule      Func
		ctx       Context
		in        phoneme.ParameterSet
		wantF0    float64
		field     int
		wantField float64
	}{
		{"content vowel", amplifyContent, Context{Symbol: "a", Content: true}, a, 0.95, phoneme.Duration, a.DurationMS() * 1.1},
		{"content consonant boosts f1", amplifyContent, Context{Symbol: "s", Content: true}, s, 1, phoneme.F1, s[phoneme.F1] * 1.25},
		{"content schwa untouched", amplifyContent, Context{Symbol: "ə", Content: true}, a, 1, phoneme.F1, a[phoneme.F1]},
		{"emphasis", emphasizeSpeech, Context{Symbol: "a", Emphasized: true}, a, 0.95, phoneme.AB, a[phoneme.AB] + 5},
		{"emphasis skips stops", emphasizeSpeech, Context{Symbol: "p", Emphasized: true}, p, 1, phoneme.AB, p[phoneme.AB]},
		{"quote", quoteSpeech, Context{Symbol: "s", Quoted: true}, s, 0.975, phoneme.Duration, s.DurationMS() * 0.925},
		{"terminal vowel", lengthenTerminal, Context{Symbol: "a", RemainingWords: 0}, a, 1, phoneme.Duration, a.DurationMS() * 1.5},
		{"non-terminal vowel", lengthenTerminal, Context{Symbol: "a", RemainingWords: 1}, a, 1, phoneme.Duration, a.DurationMS()},
		{"diphthong second half", shortenDiphthong, Context{Symbol: "a", Preceding: []string{"ɪ"}}, a, 1, phoneme.Duration, a.DurationMS() * 0.5},
		{"vowel after consonant", shortenDiphthong, Context{Symbol: "a", Preceding: []string{"s"}}, a, 1, phoneme.Duration, a.DurationMS()},
		{"exclaim final vowel", exclaim, Context{Symbol: "a", Exclamation: true}, a, 0.95, phoneme.Duration, a.DurationMS() * 0.95 * 1.35},
		{"exclaim question", exclaim, Context{Symbol: "a", Exclamation: true, Question: true, Following: []string{"i"}}, a, 0.95, phoneme.AV, math.Min(a[phoneme.AV]+5, 60)},
		{"exclaim inner vowel", exclaim, Context{Symbol: "a", Exclamation: true, Following: []string{"t", "i"}}, a, 0.975, phoneme.Duration, a.DurationMS() * 0.95},
		{"no exclamation still lifts pitch", exclaim, Context{Symbol: "a"}, a, 0.975, phoneme.BW1, a[phoneme.BW1]},
		{"no exclamation consonant", exclaim, Context{Symbol: "s"}, s, 0.975, phoneme.Duration, s.DurationMS()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.ctx
			ctx.Phonemes = inv
			got := tt.in
			res := tt.rule(&ctx, State{}, &got)
			if !approx(res.Multiplier(), tt.wantF0) {
				t.Errorf("multiplier = %v; want %v", res.Multiplier(), tt.wantF0)
			}
			if !approx(got[tt.field], tt.wantField) {
				t.Errorf("%s = %v; want %v", phoneme.FieldName(tt.field), got[tt.field], tt.wantField)
			}
		})
	}
}

func TestDegradePitch(t *testing.T) {
	ctx := &Context{WordPosition: 3, RemainingWords: 1}
	got := degradePitch(ctx, State{}, &phoneme.ParameterSet{}).Multiplier()
	want := 1 / math.Pow(1-0.05/4, 3)
	if !approx(got, want) {
		t.Errorf("multiplier = %v; want %v", got, want)
	}
	if got <= 1 {
		t.Error("pitch should fall (multiplier > 1) later in a statement")
	}

	ctx.Question = true
	if m := degradePitch(ctx, State{}, &phoneme.ParameterSet{}).Multiplier(); m != 1 {
		t.Errorf("question multiplier = %v; want 1", m)
	}
}
