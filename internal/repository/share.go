package repository

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ShareRepository interface {
	Get(ctx context.Context, userID, postID string) (*entity.Share, error)
	GetUnscoped(ctx context.Context, userID, postID string) (*entity.Share, error)
	Create(ctx context.Context, data *entity.Share) error
	SoftDelete(ctx context.Context, userID, postID string) error
	Restore(ctx context.Context, userID, postID string) error
	GetByIDs(ctx context.Context, ids []string) ([]entity.Share, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Share, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	GetActiveByUserAndPosts(ctx context.Context, userID string, postIDs []string) ([]entity.Share, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
}

type shareRepository struct{}

func NewShareRepository() *shareRepository {
	return &shareRepository{}
}

func (r *shareRepository) Get(ctx context.Context, userID, postID string) (*entity.Share, error) {
	var result entity.Share
	err := xcontext.DB(ctx).
		Where("user_id=? AND post_id=?", userID, postID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *shareRepository) GetUnscoped(
	ctx context.Context, userID, postID string,
) (*entity.Share, error) {
	var result entity.Share
	err := xcontext.DB(ctx).Unscoped().
		Where("user_id=? AND post_id=?", userID, postID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *shareRepository) Create(ctx context.Context, data *entity.Share) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *shareRepository) SoftDelete(ctx context.Context, userID, postID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND post_id=?", userID, postID).
		Delete(&entity.Share{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *shareRepository) Restore(ctx context.Context, userID, postID string) error {
	now := time.Now()
	tx := xcontext.DB(ctx).Unscoped().
		Model(&entity.Share{}).
		Where("user_id=? AND post_id=? AND deleted_at IS NOT NULL", userID, postID).
		Updates(map[string]any{
			"deleted_at": nil,
			"created_at": now,
			"updated_at": now,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *shareRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Share, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Share
	if err := xcontext.DB(ctx).Find(&result, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *shareRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Share, error) {
	var result []entity.Share
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *shareRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Share{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *shareRepository) GetActiveByUserAndPosts(
	ctx context.Context, userID string, postIDs []string,
) ([]entity.Share, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var result []entity.Share
	err := xcontext.DB(ctx).
		Where("user_id=? AND post_id IN ?", userID, postIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *shareRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Share{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
