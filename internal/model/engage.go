package model

type ToggleLikeRequest struct {
	PostID string `json:"post_id"`
}

type ToggleLikeResponse struct {
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
	Message   string `json:"message"`
}

type ToggleShareRequest struct {
	PostID string `json:"post_id"`
}

type ToggleShareResponse struct {
	Shared     bool   `json:"shared"`
	ShareCount int64  `json:"share_count"`
	Message    string `json:"message"`
}

type ToggleFollowRequest struct {
	UserID string `json:"user_id"`
}

type ToggleFollowResponse struct {
	Following bool   `json:"following"`
	Message   string `json:"message"`
}
