package entity

import "time"

// Comment ids are snowflakes, so listing by id ascending is also listing by
// creation time. Comments are hard-deleted, there is no restore.
type Comment struct {
	SnowFlakeBase
	CreatedAt time.Time

	UserID string `gorm:"not null"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"not null;index"`
	Post   Post   `gorm:"foreignKey:PostID"`

	Content string `gorm:"type:text"`
}
