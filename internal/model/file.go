package model

type UploadImageRequest struct{}

type UploadImageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	ProfilePictures map[string]any `json:"profile_pictures"`
}
