package model

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	PostID    string    `json:"post_id"`
	Author    ShortUser `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	CanUpdate bool      `json:"can_update"`
	CanDelete bool      `json:"can_delete"`
}

type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type UpdateCommentRequest struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

type UpdateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type DeleteCommentRequest struct {
	ID int64 `json:"id"`
}

type DeleteCommentResponse struct{}

type GetCommentsRequest struct {
	PostID string `form:"post_id"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
	Meta     PageMeta  `json:"meta"`
}
