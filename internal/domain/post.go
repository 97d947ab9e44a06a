package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/storage"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostDomain interface {
	Create(ctx context.Context, req *model.CreatePostRequest) (*model.CreatePostResponse, error)
	Update(ctx context.Context, req *model.UpdatePostRequest) (*model.UpdatePostResponse, error)
	Delete(ctx context.Context, req *model.DeletePostRequest) (*model.DeletePostResponse, error)
	Get(ctx context.Context, req *model.GetPostRequest) (*model.GetPostResponse, error)
}

type postDomain struct {
	postRepo  repository.PostRepository
	fileRepo  repository.FileRepository
	storage   storage.Storage
	projector *postProjector
}

func NewPostDomain(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
	fileRepo repository.FileRepository,
	storage storage.Storage,
) *postDomain {
	return &postDomain{
		postRepo:  postRepo,
		fileRepo:  fileRepo,
		storage:   storage,
		projector: newPostProjector(userRepo, postRepo, likeRepo, shareRepo),
	}
}

// resolveImage loads an uploaded file and checks it belongs to the caller.
func (d *postDomain) resolveImage(ctx context.Context, imageID string) (*entity.File, error) {
	file, err := d.fileRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found image")
		}

		xcontext.Logger(ctx).Errorf("Cannot get file: %v", err)
		return nil, errorx.Unknown
	}

	if file.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "You can only attach your own image")
	}

	return file, nil
}

func (d *postDomain) deleteImageObject(ctx context.Context, fileName string) {
	if fileName == "" {
		return
	}

	bucket := xcontext.Configs(ctx).File.ImageBucket
	if err := d.storage.Delete(ctx, bucket, fileName); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete image object %s: %v", fileName, err)
	}
}

func (d *postDomain) Create(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if req.Content == "" && req.ImageID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty post")
	}

	post := &entity.Post{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  xcontext.RequestUserID(ctx),
		Content: req.Content,
	}

	if req.ImageID != "" {
		file, err := d.resolveImage(ctx, req.ImageID)
		if err != nil {
			return nil, err
		}

		post.ImageFileName = file.Name
		post.ImageURL = file.Url
	}

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	projected, err := d.projector.projectOne(ctx, post)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePostResponse{Post: projected}, nil
}

func (d *postDomain) Update(
	ctx context.Context, req *model.UpdatePostRequest,
) (*model.UpdatePostResponse, error) {
	if req.Content == "" && req.ImageID == "" {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	post, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this post")
	}

	update := entity.Post{Content: req.Content}
	if req.ImageID != "" {
		file, err := d.resolveImage(ctx, req.ImageID)
		if err != nil {
			return nil, err
		}

		update.ImageFileName = file.Name
		update.ImageURL = file.Url
	}

	if err := d.postRepo.UpdateByID(ctx, req.ID, update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update post: %v", err)
		return nil, errorx.Unknown
	}

	// The old object is only removed after the row points at the new one.
	if req.ImageID != "" && post.ImageFileName != "" {
		d.deleteImageObject(ctx, post.ImageFileName)
	}

	updated, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload post: %v", err)
		return nil, errorx.Unknown
	}

	projected, err := d.projector.projectOne(ctx, updated)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdatePostResponse{Post: projected}, nil
}

func (d *postDomain) Delete(
	ctx context.Context, req *model.DeletePostRequest,
) (*model.DeletePostResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete this post")
	}

	if err := d.postRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete post: %v", err)
		return nil, errorx.Unknown
	}

	// Deleted posts are never restored, so the image object goes with the
	// row even though the row itself is only soft-deleted.
	d.deleteImageObject(ctx, post.ImageFileName)

	return &model.DeletePostResponse{}, nil
}

func (d *postDomain) Get(
	ctx context.Context, req *model.GetPostRequest,
) (*model.GetPostResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	projected, err := d.projector.projectOne(ctx, post)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPostResponse{Post: projected}, nil
}
