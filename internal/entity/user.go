package entity

type User struct {
	Base
	Name           string `gorm:"unique;not null"`
	Email          string `gorm:"unique;not null"`
	HashedPassword string `gorm:"not null"`
	Bio            string

	// ProfilePictures maps an avatar size ("128x128") to its public URL.
	ProfilePictures Map

	Followers  int64
	Followings int64
}
