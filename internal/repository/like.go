package repository

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LikeRepository interface {
	GetUnscoped(ctx context.Context, userID, postID string) (*entity.Like, error)
	Create(ctx context.Context, data *entity.Like) error
	SoftDelete(ctx context.Context, userID, postID string) error
	Restore(ctx context.Context, userID, postID string) error
	GetActiveByUserAndPosts(ctx context.Context, userID string, postIDs []string) ([]entity.Like, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func (r *likeRepository) GetUnscoped(
	ctx context.Context, userID, postID string,
) (*entity.Like, error) {
	var result entity.Like
	err := xcontext.DB(ctx).Unscoped().
		Where("user_id=? AND post_id=?", userID, postID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *likeRepository) Create(ctx context.Context, data *entity.Like) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *likeRepository) SoftDelete(ctx context.Context, userID, postID string) error {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND post_id=?", userID, postID).
		Delete(&entity.Like{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *likeRepository) Restore(ctx context.Context, userID, postID string) error {
	now := time.Now()
	tx := xcontext.DB(ctx).Unscoped().
		Model(&entity.Like{}).
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

func (r *likeRepository) GetActiveByUserAndPosts(
	ctx context.Context, userID string, postIDs []string,
) ([]entity.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	var result []entity.Like
	err := xcontext.DB(ctx).
		Where("user_id=? AND post_id IN ?", userID, postIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *likeRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Like{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
