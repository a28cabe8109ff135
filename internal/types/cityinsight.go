package types

import "time"

// CityInsight mirrors InsightSummary grouped by city. It carries its own
// created/updated timestamps and is refreshed independently of the
// keyword aggregate.
type CityInsight struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Kota              string    `gorm:"column:kota;not null;uniqueIndex" json:"kota"`
	TotalCount        int       `gorm:"column:total_count;not null" json:"total_count"`
	PositifCount      int       `gorm:"column:positif_count;not null" json:"positif_count"`
	NegatifCount      int       `gorm:"column:negatif_count;not null" json:"negatif_count"`
	NetralCount       int       `gorm:"column:netral_count;not null" json:"netral_count"`
	PositifPercentage float64   `gorm:"column:positif_percentage;not null" json:"positif_percentage"`
	NegatifPercentage float64   `gorm:"column:negatif_percentage;not null" json:"negatif_percentage"`
	NetralPercentage  float64   `gorm:"column:netral_percentage;not null" json:"netral_percentage"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (CityInsight) TableName() string { return "city_insight" }
