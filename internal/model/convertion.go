package model

import (
	"github.com/openfeed-lab/backend/internal/entity"
)

// AvatarSizeShort is the profile picture size used for inline identities.
const AvatarSizeShort = "128x128"

func ConvertUser(user *entity.User, isFollowed bool) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:              user.ID,
		Name:            user.Name,
		Bio:             user.Bio,
		ProfilePictures: user.ProfilePictures,
		Followers:       user.Followers,
		Followings:      user.Followings,
		IsFollowed:      isFollowed,
	}
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	avatarURL := ""
	if url, ok := user.ProfilePictures[AvatarSizeShort].(string); ok {
		avatarURL = url
	}

	return ShortUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: avatarURL,
	}
}

func ConvertComment(comment *entity.Comment, author *entity.User, viewerID string) Comment {
	if comment == nil {
		return Comment{}
	}

	isOwner := viewerID != "" && viewerID == comment.UserID
	return Comment{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    ConvertShortUser(author),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		CanUpdate: isOwner,
		CanDelete: isOwner,
	}
}
