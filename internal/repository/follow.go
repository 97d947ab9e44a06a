package repository

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowRepository interface {
	// GetUnscoped returns the follow edge even if it was soft-deleted, so the
	// caller can decide between create, restore, or remove.
	GetUnscoped(ctx context.Context, followerID, userID string) (*entity.Follow, error)
	Create(ctx context.Context, data *entity.Follow) error
	SoftDelete(ctx context.Context, followerID, userID string) error
	Restore(ctx context.Context, followerID, userID string) error
	GetFollowingIDs(ctx context.Context, followerID string) ([]string, error)
	GetFollowersList(ctx context.Context, userID string, offset, limit int) ([]entity.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	GetFollowingsList(ctx context.Context, followerID string, offset, limit int) ([]entity.Follow, error)
	CountFollowings(ctx context.Context, followerID string) (int64, error)
	GetActiveByFollowerAndUsers(ctx context.Context, followerID string, userIDs []string) ([]entity.Follow, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) GetUnscoped(
	ctx context.Context, followerID, userID string,
) (*entity.Follow, error) {
	var result entity.Follow
	err := xcontext.DB(ctx).Unscoped().
		Where("follower_id=? AND user_id=?", followerID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *followRepository) SoftDelete(ctx context.Context, followerID, userID string) error {
	tx := xcontext.DB(ctx).
		Where("follower_id=? AND user_id=?", followerID, userID).
		Delete(&entity.Follow{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *followRepository) Restore(ctx context.Context, followerID, userID string) error {
	now := time.Now()
	tx := xcontext.DB(ctx).Unscoped().
		Model(&entity.Follow{}).
		Where("follower_id=? AND user_id=? AND deleted_at IS NOT NULL", followerID, userID).
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

func (r *followRepository) GetFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("follower_id=?", followerID).
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) GetFollowersList(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Follow, error) {
	var result []entity.Follow
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

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *followRepository) GetFollowingsList(
	ctx context.Context, followerID string, offset, limit int,
) ([]entity.Follow, error) {
	var result []entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=?", followerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followRepository) CountFollowings(ctx context.Context, followerID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Follow{}).
		Where("follower_id=?", followerID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *followRepository) GetActiveByFollowerAndUsers(
	ctx context.Context, followerID string, userIDs []string,
) ([]entity.Follow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var result []entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND user_id IN ?", followerID, userIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
