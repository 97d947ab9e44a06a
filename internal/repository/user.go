package repository

import (
	"context"
	"encoding/json"

	"github.com/openfeed-lab/backend/internal/client"
	"github.com/openfeed-lab/backend/internal/domain/search"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/openfeed-lab/backend/pkg/xredis"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	IncreaseFollowers(ctx context.Context, userID string, delta int) error
	IncreaseFollowings(ctx context.Context, userID string, delta int) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	searchCaller client.SearchCaller
	redisClient  xredis.Client
}

func NewUserRepository(searchCaller client.SearchCaller, redisClient xredis.Client) *userRepository {
	return &userRepository{searchCaller: searchCaller, redisClient: redisClient}
}

func (r *userRepository) cacheKey(userID string) string {
	return "cache:user:" + userID
}

func (r *userRepository) cache(ctx context.Context, users ...entity.User) {
	if r.redisClient == nil {
		return
	}

	redisKV := map[string]any{}
	for _, record := range users {
		b, err := json.Marshal(record)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot marshal user for caching: %v", err)
			return
		}

		redisKV[r.cacheKey(record.ID)] = string(b)
	}

	if err := r.redisClient.MSet(ctx, redisKV); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple set for user redis: %v", err)
	}
}

func (r *userRepository) fromCache(ctx context.Context, ids ...string) []entity.User {
	if r.redisClient == nil {
		return nil
	}

	keys := []string{}
	for _, id := range ids {
		keys = append(keys, r.cacheKey(id))
	}

	values, err := r.redisClient.MGet(ctx, keys...)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot multiple get user from redis: %v", err)
		return nil
	}

	var records []entity.User
	for i := range keys {
		if values[i] == nil {
			continue
		}

		s, ok := values[i].(string)
		if !ok {
			xcontext.Logger(ctx).Warnf("Invalid type of cached user %T", values[i])
			continue
		}

		var result entity.User
		if err := json.Unmarshal([]byte(s), &result); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unmarshal user object: %v", err)
			continue
		}

		records = append(records, result)
	}

	return records
}

func (r *userRepository) invalidateCache(ctx context.Context, ids ...string) {
	if r.redisClient == nil {
		return
	}

	keys := []string{}
	for _, id := range ids {
		keys = append(keys, r.cacheKey(id))
	}

	if err := r.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate user cache: %v", err)
	}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	if err := xcontext.DB(ctx).Create(data).Error; err != nil {
		return err
	}

	err := r.searchCaller.IndexUser(ctx, data.ID, search.UserData{Name: data.Name, Bio: data.Bio})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index user %s: %v", data.ID, err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if cached := r.fromCache(ctx, id); len(cached) == 1 {
		return &cached[0], nil
	}

	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, record)
	return &record, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records := r.fromCache(ctx, ids...)
	if len(records) == len(ids) {
		return records, nil
	}

	found := map[string]bool{}
	for _, record := range records {
		found[record.ID] = true
	}

	missing := []string{}
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	var fromDB []entity.User
	if err := xcontext.DB(ctx).Find(&fromDB, "id IN ?", missing).Error; err != nil {
		return nil, err
	}

	r.cache(ctx, fromDB...)
	return append(records, fromDB...), nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.Bio != "" {
		updateMap["bio"] = data.Bio
	}

	if data.ProfilePictures != nil {
		updateMap["profile_pictures"] = data.ProfilePictures
	}

	if len(updateMap) == 0 {
		return nil
	}

	err := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
	if err != nil {
		return err
	}

	r.invalidateCache(ctx, id)

	// Re-index from the merged row so a partial update keeps the other
	// field searchable.
	if data.Name != "" || data.Bio != "" {
		var record entity.User
		if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
			xcontext.Logger(ctx).Warnf("Cannot reload user %s for indexing: %v", id, err)
			return nil
		}

		err := r.searchCaller.IndexUser(ctx, id, search.UserData{Name: record.Name, Bio: record.Bio})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot re-index user %s: %v", id, err)
		}
	}

	return nil
}

func (r *userRepository) IncreaseFollowers(ctx context.Context, userID string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Update("followers", gorm.Expr("followers+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCache(ctx, userID)
	return nil
}

func (r *userRepository) IncreaseFollowings(ctx context.Context, userID string, delta int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Update("followings", gorm.Expr("followings+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCache(ctx, userID)
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}
