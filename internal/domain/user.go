package domain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openfeed-lab/backend/internal/common"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/storage"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error)
	UploadAvatar(ctx context.Context, req *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type userDomain struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	storage    storage.Storage
}

func NewUserDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	storage storage.Storage,
) *userDomain {
	return &userDomain{userRepo: userRepo, followRepo: followRepo, storage: storage}
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	viewerID := xcontext.RequestUserID(ctx)

	// With no explicit user id, this returns the authenticated caller.
	userID := req.UserID
	if userID == "" {
		if viewerID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You must login to get your own info")
		}

		userID = viewerID
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	isFollowed := false
	if viewerID != "" && viewerID != user.ID {
		follows, err := d.followRepo.GetActiveByFollowerAndUsers(ctx, viewerID, []string{user.ID})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get follow state: %v", err)
			return nil, errorx.Unknown
		}

		isFollowed = len(follows) > 0
	}

	resp := model.GetUserResponse{User: model.ConvertUser(user, isFollowed)}
	if userID == viewerID {
		resp.User.Email = user.Email
	}

	return &resp, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	cfg := xcontext.Configs(ctx).File

	httpReq := xcontext.HTTPRequest(ctx)
	if err := httpReq.ParseMultipartForm(cfg.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid multipart form")
	}

	file, header, err := httpReq.FormFile("image")
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Not found image in the form")
	}
	defer file.Close()

	if header.Size > cfg.MaxSize {
		return nil, errorx.New(errorx.BadRequest, "Image exceeds the maximum size")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read uploaded image: %v", err)
		return nil, errorx.Unknown
	}

	img, format, err := common.DecodeImage(data)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image")
	}

	objects := []*storage.UploadObject{}
	for _, size := range common.AvatarSizes {
		resized := common.ResizeImage(img, size)
		encoded, err := common.EncodeImage(resized, format)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode resized avatar: %v", err)
			return nil, errorx.Unknown
		}

		objects = append(objects, &storage.UploadObject{
			Bucket:   cfg.ImageBucket,
			Prefix:   "avatars/" + userID,
			FileName: fmt.Sprintf("%s.%s", size, format),
			Mime:     "image/" + format,
			Data:     encoded,
		})
	}

	resps, err := d.storage.BulkUpload(ctx, objects)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload avatars: %v", err)
		return nil, errorx.Unknown
	}

	pictures := entity.Map{}
	for i, size := range common.AvatarSizes {
		pictures[size.String()] = resps[i].Url
	}

	err = d.userRepo.UpdateByID(ctx, userID, &entity.User{ProfilePictures: pictures})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update profile pictures: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{ProfilePictures: pictures}, nil
}
