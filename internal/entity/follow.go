package entity

import (
	"time"

	"gorm.io/gorm"
)

// Follow is the directed follower -> followee edge. The composite primary
// key guarantees at most one row per pair ever; unfollow soft-deletes the
// row and a re-follow restores it.
type Follow struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	FollowerID string `gorm:"primaryKey"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}
