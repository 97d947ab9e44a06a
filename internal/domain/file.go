package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/openfeed-lab/backend/internal/common"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/storage"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

type FileDomain interface {
	UploadImage(ctx context.Context, req *model.UploadImageRequest) (*model.UploadImageResponse, error)
}

type fileDomain struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileDomain(fileRepo repository.FileRepository, storage storage.Storage) *fileDomain {
	return &fileDomain{fileRepo: fileRepo, storage: storage}
}

// UploadImage stores a post image and records it so a later createPost or
// updatePost can reference it by id.
func (d *fileDomain) UploadImage(
	ctx context.Context, req *model.UploadImageRequest,
) (*model.UploadImageResponse, error) {
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

	_, format, err := common.DecodeImage(data)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image")
	}

	resp, err := d.storage.Upload(ctx, &storage.UploadObject{
		Bucket:   cfg.ImageBucket,
		Prefix:   "posts",
		FileName: header.Filename,
		Mime:     "image/" + format,
		Data:     data,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	record := &entity.File{
		Base:   entity.Base{ID: uuid.NewString()},
		Mime:   "image/" + format,
		Name:   resp.FileName,
		UserID: userID,
		Url:    resp.Url,
	}

	if err := d.fileRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create file record: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadImageResponse{ID: record.ID, URL: record.Url}, nil
}
