package repository

import (
	"context"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

type FileRepository interface {
	Create(ctx context.Context, data *entity.File) error
	GetByID(ctx context.Context, id string) (*entity.File, error)
	BulkInsert(ctx context.Context, data []*entity.File) error
}

type fileRepository struct{}

func NewFileRepository() *fileRepository {
	return &fileRepository{}
}

func (r *fileRepository) Create(ctx context.Context, data *entity.File) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	var result entity.File
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *fileRepository) BulkInsert(ctx context.Context, data []*entity.File) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(data).Error
}
