package entity

type File struct {
	Base
	Mime   string
	Name   string
	UserID string `gorm:"not null"`
	User   User   `gorm:"foreignKey:UserID"`
	Url    string
}
