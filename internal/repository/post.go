package repository

import (
	"context"
	"errors"

	"github.com/openfeed-lab/backend/internal/client"
	"github.com/openfeed-lab/backend/internal/domain/search"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetByIDUnscoped(ctx context.Context, id string) (*entity.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Post, error)
	// GetByIDsUnscoped also returns soft-deleted posts, used when hydrating
	// shares whose target may have been removed.
	GetByIDsUnscoped(ctx context.Context, ids []string) ([]entity.Post, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Post, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	UpdateByID(ctx context.Context, id string, data entity.Post) error
	DeleteByID(ctx context.Context, id string) error
	IncreaseLikeCount(ctx context.Context, postID string, delta int) error
	IncreaseShareCount(ctx context.Context, postID string, delta int) error
	IncreaseCommentCount(ctx context.Context, postID string, delta int) error
}

type postRepository struct {
	searchCaller client.SearchCaller
}

func NewPostRepository(searchCaller client.SearchCaller) *postRepository {
	return &postRepository{searchCaller: searchCaller}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	if err := xcontext.DB(ctx).Create(data).Error; err != nil {
		return err
	}

	err := r.searchCaller.IndexPost(ctx, data.ID, search.PostData{Content: data.Content})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index post %s: %v", data.ID, err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetByIDUnscoped(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Unscoped().Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Post
	if err := xcontext.DB(ctx).Find(&result, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetByIDsUnscoped(ctx context.Context, ids []string) ([]entity.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Post
	if err := xcontext.DB(ctx).Unscoped().Find(&result, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Post, error) {
	var result []entity.Post
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

func (r *postRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *postRepository) UpdateByID(ctx context.Context, id string, data entity.Post) error {
	updateMap := map[string]any{}
	if data.Content != "" {
		updateMap["content"] = data.Content
	}

	if data.ImageURL != "" {
		updateMap["image_url"] = data.ImageURL
		updateMap["image_file_name"] = data.ImageFileName
	}

	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Post{}).Where("id=?", id).Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if data.Content != "" {
		err := r.searchCaller.IndexPost(ctx, id, search.PostData{Content: data.Content})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot re-index post %s: %v", id, err)
		}
	}

	return nil
}

func (r *postRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.searchCaller.DeletePost(ctx, id); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove post %s from index: %v", id, err)
	}

	return nil
}

func (r *postRepository) increaseCount(ctx context.Context, postID, column string, delta int) error {
	// Unscoped so unsharing a deleted post still decrements its counter.
	tx := xcontext.DB(ctx).Unscoped().
		Model(&entity.Post{}).
		Where("id=?", postID).
		Update(column, gorm.Expr(column+"+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *postRepository) IncreaseLikeCount(ctx context.Context, postID string, delta int) error {
	return r.increaseCount(ctx, postID, "like_count", delta)
}

func (r *postRepository) IncreaseShareCount(ctx context.Context, postID string, delta int) error {
	return r.increaseCount(ctx, postID, "share_count", delta)
}

func (r *postRepository) IncreaseCommentCount(ctx context.Context, postID string, delta int) error {
	return r.increaseCount(ctx, postID, "comment_count", delta)
}
