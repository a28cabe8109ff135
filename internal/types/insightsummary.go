package types

import "time"

// InsightSummary is the derived keyword aggregate. The whole table is
// replaced on every recompute; rows are never patched in place.
type InsightSummary struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WordInsight       string    `gorm:"column:word_insight;not null;uniqueIndex" json:"word_insight"`
	TotalCount        int       `gorm:"column:total_count;not null" json:"total_count"`
	PositifCount      int       `gorm:"column:positif_count;not null" json:"positif_count"`
	NegatifCount      int       `gorm:"column:negatif_count;not null" json:"negatif_count"`
	NetralCount       int       `gorm:"column:netral_count;not null" json:"netral_count"`
	PositifPercentage float64   `gorm:"column:positif_percentage;not null" json:"positif_percentage"`
	NegatifPercentage float64   `gorm:"column:negatif_percentage;not null" json:"negatif_percentage"`
	NetralPercentage  float64   `gorm:"column:netral_percentage;not null" json:"netral_percentage"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
}

func (InsightSummary) TableName() string { return "insight_summary" }

// SentimentTotals is the column-wise sum over an aggregate table, used by
// the dashboard to derive overall ratios.
type SentimentTotals struct {
	Total   int64 `json:"total"`
	Positif int64 `json:"positif"`
	Negatif int64 `json:"negatif"`
	Netral  int64 `json:"netral"`
}
