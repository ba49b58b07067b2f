package models

import "time"

// Author represents the canonical record for a tracked account. One row per
// user_name; re-collection overwrites the snapshot rather than duplicating.
type Author struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	XID       string    `gorm:"column:x_id;not null"`
	UserName  string    `gorm:"column:user_name;not null;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	JoinedAt  time.Time `gorm:"column:joined_at"`
	Profile   JSONMap   `gorm:"column:profile;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for the Author model
func (Author) TableName() string {
	return "authors"
}
