// Package sentiment implements a small lexicon-based sentiment analyzer in
// the style of pattern/TextBlob: per-word polarity and subjectivity scores,
// averaged over the scored words of the input, with negation and intensifier
// handling.
package sentiment

import (
	"strings"
	"unicode"
)

// Analysis is the result of scoring a text
type Analysis struct {
	// Polarity ranges from -1.0 (negative) to 1.0 (positive)
	Polarity float64 `json:"polarity"`
	// Subjectivity ranges from 0.0 (objective) to 1.0 (subjective)
	Subjectivity float64 `json:"subjectivity"`
	// Assessment is "positive", "negative", or "neutral"
	Assessment string `json:"assessment"`
}

const (
	// negationDamping mirrors the pattern lexicon convention: a negated word
	// contributes half its polarity, with the sign flipped
	negationDamping = -0.5

	// intensifierBoost scales the word following an intensifier
	intensifierBoost = 1.3

	// exclamationBoost amplifies the final polarity when the text shouts
	exclamationBoost = 1.25
)

var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"neither": true,
	"nor":     true,
	"cannot":  true,
}

var intensifiers = map[string]bool{
	"very":       true,
	"really":     true,
	"extremely":  true,
	"absolutely": true,
	"so":         true,
	"totally":    true,
	"incredibly": true,
}

// Analyze scores a text. Texts with no scored words come back neutral with
// zero polarity and subjectivity.
func Analyze(text string) Analysis {
	words := tokenize(text)

	var polaritySum, subjectivitySum float64
	var scored int

	negated := false
	boost := 1.0

	for _, word := range words {
		if negations[word] {
			negated = true
			continue
		}
		if intensifiers[word] {
			boost *= intensifierBoost
			continue
		}

		entry, ok := lexicon[word]
		if !ok {
			// An unknown word breaks a pending negation chain but not a
			// pending intensifier ("very big deal breaker" style phrases
			// are rare enough not to matter here)
			negated = false
			boost = 1.0
			continue
		}

		polarity := entry.polarity * boost
		subjectivity := entry.subjectivity
		if negated {
			polarity *= negationDamping
		}

		polaritySum += polarity
		subjectivitySum += subjectivity
		scored++

		negated = false
		boost = 1.0
	}

	if scored == 0 {
		return Analysis{Assessment: "neutral"}
	}

	polarity := polaritySum / float64(scored)
	subjectivity := subjectivitySum / float64(scored)

	if strings.Contains(text, "!") {
		polarity *= exclamationBoost
	}

	return Analysis{
		Polarity:     clamp(polarity, -1, 1),
		Subjectivity: clamp(subjectivity, 0, 1),
		Assessment:   assess(polarity),
	}
}

func assess(polarity float64) string {
	switch {
	case polarity > 0:
		return "positive"
	case polarity < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tokenize lowercases the text and splits it into words, folding common
// contractions ("don't", "isn't") into their negation form.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" {
			continue
		}
		if strings.HasSuffix(f, "n't") {
			words = append(words, strings.TrimSuffix(f, "n't"), "not")
			continue
		}
		words = append(words, f)
	}
	return words
}
