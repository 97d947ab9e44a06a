package repository

import (
	"context"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	GetListByPostID(ctx context.Context, postID string, offset, limit int) ([]entity.Comment, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
	UpdateContentByID(ctx context.Context, id int64, content string) error
	DeleteByID(ctx context.Context, id int64) error
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	var result entity.Comment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) GetListByPostID(
	ctx context.Context, postID string, offset, limit int,
) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.DB(ctx).
		Where("post_id=?", postID).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Comment{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *commentRepository) UpdateContentByID(ctx context.Context, id int64, content string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Comment{}).
		Where("id=?", id).
		Update("content", content)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *commentRepository) DeleteByID(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Delete(&entity.Comment{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
