package service

import (
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"photoshare/internal/models"
)

// Comment moderation thresholds on the VADER compound score in [-1, 1].
const (
	RejectThreshold   = -0.3
	PositiveThreshold = 0.3
	NegativeThreshold = -0.1
)

// Polarity computes the lexicon-based compound sentiment score for a text.
func Polarity(text string) float64 {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// SentimentLabel maps an accepted score onto the stored label bands.
func SentimentLabel(score float64) string {
	switch {
	case score >= PositiveThreshold:
		return models.SentimentPositive
	case score <= NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Rejected reports whether a comment is too negative to persist. The bound
// is strict: exactly -0.3 still passes.
func Rejected(score float64) bool {
	return score < RejectThreshold
}
