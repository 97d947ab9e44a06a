package model

import "github.com/openfeed-lab/backend/pkg/enum"

type ProfileTab string

var (
	ProfileTabPosts  = enum.New(ProfileTab("posts"))
	ProfileTabShares = enum.New(ProfileTab("shares"))
)

type GetProfileRequest struct {
	UserID string `form:"user_id"`

	// Tab selects which list fills Posts, either "posts" or "shares".
	// Defaults to "posts".
	Tab  string `form:"tab"`
	Page int    `form:"page"`
}

type GetProfileResponse struct {
	User  User     `json:"user"`
	Posts []Post   `json:"posts"`
	Meta  PageMeta `json:"meta"`
}

type GetFollowersRequest struct {
	UserID string `form:"user_id"`
	Page   int    `form:"page"`
}

type GetFollowersResponse struct {
	Followers []User   `json:"followers"`
	Meta      PageMeta `json:"meta"`
}

type GetFollowingsRequest struct {
	UserID string `form:"user_id"`
	Page   int    `form:"page"`
}

type GetFollowingsResponse struct {
	Followings []User   `json:"followings"`
	Meta       PageMeta `json:"meta"`
}
