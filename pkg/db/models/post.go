package models

import "time"

// Post represents one collected social-media item. A post is scored iff
// Score is non-nil; only the scoring service writes the score columns, and
// only once per post.
type Post struct {
	ID             uint      `gorm:"primaryKey;column:id"`
	XID            string    `gorm:"column:x_id;not null;uniqueIndex"`
	AuthorUsername string    `gorm:"column:author_username;not null"`
	Text           string    `gorm:"column:text"`
	FullText       string    `gorm:"column:full_text"`
	Lang           string    `gorm:"column:lang"`
	PostedAt       time.Time `gorm:"column:posted_at;not null"`

	// Scoring Fields
	Score       *int    `gorm:"column:score"`
	Sentiment   *string `gorm:"column:sentiment"`
	Explanation *string `gorm:"column:explanation"`

	Payload   JSONMap   `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// Content returns the text used for sentiment analysis, preferring the
// untruncated full_text when the provider supplied one.
func (p *Post) Content() string {
	if p.FullText != "" {
		return p.FullText
	}
	return p.Text
}
