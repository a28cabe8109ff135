// Package normalization turns arbitrary inbound bulk records into fully
// populated feedback rows ready for insertion.
package normalization

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/types"
)

// UnknownLabel substitutes any missing categorical field.
const UnknownLabel = "Unknown"

// RawFeedback is one record as supplied by an external bulk source.
// Every field is optional.
type RawFeedback struct {
	SourceData      string `json:"source_data"`
	EmployeeName    string `json:"employee_name"`
	Date            string `json:"date"`
	Witel           string `json:"witel"`
	Kota            string `json:"kota"`
	OriginalText    string `json:"original_text"`
	SentenceInsight string `json:"sentence_insight"`
	WordInsight     string `json:"word_insight"`
	Sentimen        string `json:"sentimen"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// NormalizeFeedback produces a best-effort row: missing categorical fields
// become UnknownLabel, missing text fields stay empty, a missing date
// defaults to now, and the sentiment label is coerced onto the canonical
// set. The only rejection is a date that is present but unparseable.
func NormalizeFeedback(raw RawFeedback, now time.Time) (*types.Feedback, error) {
	eventDate := now
	if trimmed := strings.TrimSpace(raw.Date); trimmed != "" {
		parsed, err := parseDate(trimmed)
		if err != nil {
			return nil, err
		}
		eventDate = parsed
	}

	return &types.Feedback{
		SourceData:      defaultLabel(raw.SourceData),
		EmployeeName:    defaultLabel(raw.EmployeeName),
		Date:            datatypes.Date(eventDate),
		Witel:           defaultLabel(raw.Witel),
		Kota:            defaultLabel(raw.Kota),
		OriginalText:    strings.TrimSpace(raw.OriginalText),
		SentenceInsight: strings.TrimSpace(raw.SentenceInsight),
		WordInsight:     defaultLabel(raw.WordInsight),
		Sentimen:        sentiment.Canonicalize(raw.Sentimen),
	}, nil
}

func defaultLabel(val string) string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return UnknownLabel
	}
	return trimmed
}

func parseDate(val string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, val); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", val)
}
