package entity

type Post struct {
	Base
	UserID string `gorm:"not null;index"`
	User   User   `gorm:"foreignKey:UserID"`

	Content string `gorm:"type:text"`

	// ImageFileName is the storage key of the attached image, kept so the
	// object can be removed when the image is replaced or the post deleted.
	ImageFileName string
	ImageURL      string

	LikeCount    int64
	ShareCount   int64
	CommentCount int64
}
