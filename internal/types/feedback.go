package types

import (
	"time"

	"gorm.io/datatypes"
)

// Feedback is one raw sentiment record. Rows are immutable once written:
// only the import pipeline creates them and only a full reload removes them.
type Feedback struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceData      string         `gorm:"column:source_data;not null" json:"source_data"`
	EmployeeName    string         `gorm:"column:employee_name;not null" json:"employee_name"`
	Date            datatypes.Date `gorm:"column:date;not null" json:"date"`
	Witel           string         `gorm:"column:witel;not null" json:"witel"`
	Kota            string         `gorm:"column:kota;not null;index" json:"kota"`
	OriginalText    string         `gorm:"column:original_text" json:"original_text"`
	SentenceInsight string         `gorm:"column:sentence_insight" json:"sentence_insight"`
	WordInsight     string         `gorm:"column:word_insight;not null;index" json:"word_insight"`
	Sentimen        string         `gorm:"column:sentimen;not null" json:"sentimen"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
