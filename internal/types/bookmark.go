package types

import "time"

// Bookmark pins one feedback row under its keyword. The (feedback_id,
// word_insight) pair is unique.
type Bookmark struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FeedbackID  uint      `gorm:"column:feedback_id;not null;uniqueIndex:idx_bookmark_feedback_word" json:"feedback_id"`
	Feedback    *Feedback `gorm:"constraint:OnDelete:CASCADE;foreignKey:FeedbackID;references:ID" json:"feedback,omitempty"`
	WordInsight string    `gorm:"column:word_insight;not null;uniqueIndex:idx_bookmark_feedback_word" json:"word_insight"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmark" }
