package model

type User struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	ProfilePictures map[string]any `json:"profile_pictures,omitempty"`
	Followers       int64          `json:"followers"`
	Followings      int64          `json:"followings"`

	// IsFollowed tells whether the requesting viewer follows this user. It is
	// always false for anonymous viewers.
	IsFollowed bool `json:"is_followed"`
}

// ShortUser is the compact identity attached to posts, shares, and comments.
type ShortUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type GetUserRequest struct {
	UserID string `form:"user_id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type SearchUsersRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type SearchUsersResponse struct {
	Users []User   `json:"users"`
	Meta  PageMeta `json:"meta"`
}
