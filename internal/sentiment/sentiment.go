// Package sentiment holds the canonical sentiment labels and the
// dominant-label rule shared by every aggregation path.
package sentiment

import "strings"

const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Canonicalize maps an inbound sentiment value onto one of the three
// canonical labels. Anything unrecognized degrades to neutral; inbound
// data is never rejected on sentiment.
func Canonicalize(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case Positive, "positif":
		return Positive
	case Negative, "negatif":
		return Negative
	case Neutral, "netral":
		return Neutral
	default:
		return Neutral
	}
}

// Dominant picks the single label representing three percentages.
// Ties resolve positive first, then negative. A label only wins with a
// strictly positive percentage, so an all-zero row is neutral.
func Dominant(posPct, negPct, neuPct float64) string {
	if posPct > 0 && posPct >= negPct && posPct >= neuPct {
		return Positive
	}
	if negPct > 0 && negPct >= posPct && negPct >= neuPct {
		return Negative
	}
	return Neutral
}
