package model

import "time"

// Post is the projection returned everywhere a post appears. When the entry
// is a share, ID is still the original post id, SharedBy carries the sharer,
// and CreatedAt is the share timestamp. A share whose original was deleted
// keeps only the identity fields and IsDeleted.
type Post struct {
	ID        string     `json:"id"`
	Author    *ShortUser `json:"author,omitempty"`
	Content   string     `json:"content,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	IsShare   bool       `json:"is_share"`
	IsDeleted bool       `json:"is_deleted,omitempty"`
	SharedBy  *ShortUser `json:"shared_by,omitempty"`

	LikeCount    int64 `json:"like_count"`
	ShareCount   int64 `json:"share_count"`
	CommentCount int64 `json:"comment_count"`

	LikedByUser  bool `json:"liked_by_user"`
	SharedByUser bool `json:"shared_by_user"`
	CanUpdate    bool `json:"can_update"`
	CanDelete    bool `json:"can_delete"`
}

type CreatePostRequest struct {
	Content string `json:"content"`

	// ImageID references a file previously created by uploadImage.
	ImageID string `json:"image_id"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type UpdatePostRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	ImageID string `json:"image_id"`
}

type UpdatePostResponse struct {
	Post Post `json:"post"`
}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type DeletePostResponse struct{}

type GetPostRequest struct {
	PostID string `form:"post_id"`
}

type GetPostResponse struct {
	Post Post `json:"post"`
}

type SearchPostsRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type SearchPostsResponse struct {
	Posts []Post   `json:"posts"`
	Meta  PageMeta `json:"meta"`
}
