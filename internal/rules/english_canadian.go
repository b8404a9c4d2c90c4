package rules

import (
	"math"
	"slices"
	"strings"

	"github.com/example/go-klatt/internal/phoneme"
)

// EnglishCanadianID selects the Canadian English ruleset.
const EnglishCanadianID = "english-canadian"

const schwa = "ə"

// Words that open a wh-question. A question containing one of them falls
// at the end instead of rising.
var questionWords = []string{
	"hæw", // how
	"hu",  // who
	"hum", // whom
	"ʍɛɹ", // where
	"ʍət", // what
	"ʍɛn", // when
	"ʍʌj", // why
}

func init() {
	Register(EnglishCanadianID, EnglishCanadian)
}

// EnglishCanadian returns the Canadian English prosody rules in application
// order.
func EnglishCanadian() Ruleset {
	return Ruleset{
		Name: "Canadian English",
		Rules: []Rule{
			Named("liquidate-vowels", liquidateVowels),
			Named("inflect-question-pitch", inflectQuestionPitch),
			Named("amplify-content", amplifyContent),
			Named("emphasize-speech", emphasizeSpeech),
			Named("quote-speech", quoteSpeech),
			Named("degrade-pitch", degradePitch),
			Named("lengthen-terminal", lengthenTerminal),
			Named("shorten-diphthong", shortenDiphthong),
			Named("exclaim", exclaim),
		},
	}
}

// liquidateVowels stretches a liquid into a following vowel by appending a
// 1:2 liquid:vowel blend lasting a quarter of the vowel.
func liquidateVowels(ctx *Context, st State, p *phoneme.ParameterSet) Result {
	if st.Remaining != 0 || len(ctx.Following) == 0 || !ctx.IsLiquid(ctx.Symbol) {
		return Result{}
	}
	next := ctx.Following[0]
	if !ctx.IsVowel(next) {
		return Result{}
	}
	vowel, err := ctx.Phonemes.Params(next)
	if err != nil {
		return Result{}
	}
	bridge := phoneme.Blend(*p, vowel, 1, 2, math.Trunc(vowel.DurationMS()*0.25))
	return Result{After: []phoneme.ParameterSet{bridge}}
}

// inflectQuestionPitch raises pitch toward the end of a yes/no question and
// keeps wh-questions mostly flat, with a lift on the question word itself.
func inflectQuestionPitch(ctx *Context, _ State, _ *phoneme.ParameterSet) Result {
	if !ctx.Question || ctx.Symbol == schwa || !ctx.IsVowel(ctx.Symbol) {
		return Result{}
	}

	whQuestion := containsQuestionWord(ctx.PreviousWords)
	if ctx.RemainingWords <= 2 && whQuestion {
		switch {
		case ctx.RemainingWords == 2 && len(ctx.FollowingWords) > 0 && ctx.FollowingWords[0] == "ʌ":
			return Pitch(0.7)
		case ctx.RemainingWords == 1 && len(ctx.Following) == 0 && len(ctx.Preceding) == 0 && ctx.Symbol != "ʌ":
			return Pitch(0.8)
		}
		return Pitch(0.9)
	}

	if ctx.RemainingWords == 0 {
		position := countVowels(ctx, ctx.Preceding)
		rise := 1 - 0.11/float64(position+countVowels(ctx, ctx.Following)+1)
		return Pitch(-0.05 + math.Pow(rise, float64(position)))
	}

	word := strings.Join(ctx.Preceding, "") + ctx.Symbol + strings.Join(ctx.Following, "")
	if slices.Contains(questionWords, word) && !whQuestion {
		return Pitch(0.9)
	}
	return Result{}
}

// amplifyContent boosts F1 on content words and gives their vowels a little
// extra length and pitch.
func amplifyContent(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if !ctx.Content || ctx.Symbol == schwa {
		return Result{}
	}
	p[phoneme.F1] *= 1.25
	if ctx.IsVowel(ctx.Symbol) {
		p[phoneme.Duration] *= 1.1
		return Pitch(0.95)
	}
	return Result{}
}

func emphasizeSpeech(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if !ctx.Emphasized || ctx.IsStop(ctx.Symbol) {
		return Result{}
	}
	p[phoneme.AB] += 5
	p[phoneme.Duration] *= 1.1
	return Pitch(0.95)
}

func quoteSpeech(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if !ctx.Quoted {
		return Result{}
	}
	p[phoneme.AB] += 5
	p[phoneme.Duration] *= 0.925
	return Pitch(0.975)
}

// degradePitch lowers pitch geometrically across a statement.
func degradePitch(ctx *Context, _ State, _ *phoneme.ParameterSet) Result {
	if ctx.Question {
		return Result{}
	}
	words := ctx.WordPosition + ctx.RemainingWords
	if words <= 0 {
		return Result{}
	}
	decay := 1 - 0.05/float64(words)
	return Pitch(1 / math.Pow(decay, float64(ctx.WordPosition)))
}

func lengthenTerminal(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if ctx.RemainingWords == 0 && ctx.Symbol != schwa && ctx.IsVowel(ctx.Symbol) {
		p[phoneme.Duration] *= 1.5
	}
	return Result{}
}

// shortenDiphthong halves a vowel that directly follows another vowel.
func shortenDiphthong(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if len(ctx.Preceding) == 0 || !ctx.IsVowel(ctx.Symbol) {
		return Result{}
	}
	if ctx.IsVowel(ctx.Preceding[len(ctx.Preceding)-1]) {
		p[phoneme.Duration] *= 0.5
	}
	return Result{}
}

// exclaim widens the low formants, raises voicing and speeds delivery. The
// final vowel of an exclaimed word is stretched and lifted. Every phoneme
// outside those cases, exclaimed or not, is lifted slightly.
func exclaim(ctx *Context, _ State, p *phoneme.ParameterSet) Result {
	if !ctx.Exclamation {
		return Pitch(0.975)
	}
	p[phoneme.BW1] *= 1.1
	p[phoneme.BW2] *= 1.1
	p[phoneme.BW3] *= 1.1
	p[phoneme.AV] = math.Min(p[phoneme.AV]+5, 60)
	p[phoneme.AVS] = math.Min(p[phoneme.AVS]+5, 60)
	p[phoneme.Duration] *= 0.95

	if ctx.Question {
		return Pitch(0.95)
	}
	if ctx.IsVowel(ctx.Symbol) && countVowels(ctx, ctx.Following) == 0 {
		p[phoneme.Duration] *= 1.35
		return Pitch(0.95)
	}
	return Pitch(0.975)
}

func containsQuestionWord(words []string) bool {
	for _, w := range words {
		if slices.Contains(questionWords, w) {
			return true
		}
	}
	return false
}

func countVowels(ctx *Context, symbols []string) int {
	n := 0
	for _, s := range symbols {
		if ctx.IsVowel(s) {
			n++
		}
	}
	return n
}
