package entity

// Share is both an engagement record and a feed entry of its own. It has its
// own id and created_at used for feed ordering, while the unique index keeps
// one row per (user, post) pair ever.
type Share struct {
	Base
	UserID string `gorm:"not null;uniqueIndex:idx_shares_user_post"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"not null;uniqueIndex:idx_shares_user_post"`
	Post   Post   `gorm:"foreignKey:PostID"`
}
