package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEngageDomain(t *testing.T, userID string) (context.Context, *engageDomain, *testutil.MockPublisher) {
	ctx := testutil.MockContextWithUserID(t, userID)
	testutil.CreateFixtureDb(ctx, t)

	searchCaller := testutil.NewMockSearchCaller()
	publisher := testutil.NewMockPublisher()
	engageDomain := NewEngageDomain(
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		repository.NewLikeRepository(),
		repository.NewShareRepository(),
		repository.NewFollowRepository(),
		publisher,
	)

	return ctx, engageDomain, publisher
}

func Test_engageDomain_ToggleLike_cycle(t *testing.T) {
	ctx, engageDomain, publisher := newTestEngageDomain(t, testutil.User1.ID)

	resp, err := engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1), resp.LikeCount)
	require.Equal(t, "Post liked.", resp.Message)

	resp, err = engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.False(t, resp.Liked)
	require.Equal(t, int64(0), resp.LikeCount)
	require.Equal(t, "Post unliked.", resp.Message)

	resp, err = engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, int64(1), resp.LikeCount)
	require.Equal(t, "Like restored.", resp.Message)

	post, err := repository.NewPostRepository(testutil.NewMockSearchCaller()).
		GetByID(ctx, testutil.Post2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), post.LikeCount)

	require.Len(t, publisher.Packs["notifications"], 3)
}

func Test_engageDomain_ToggleLike_notFoundPost(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User1.ID)

	_, err := engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: "invalid-post"})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}

func Test_engageDomain_ToggleShare_cycle(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User1.ID)

	resp, err := engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Shared)
	require.Equal(t, int64(1), resp.ShareCount)
	require.Equal(t, "Post shared.", resp.Message)

	resp, err = engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.False(t, resp.Shared)
	require.Equal(t, int64(0), resp.ShareCount)
	require.Equal(t, "Post unshared.", resp.Message)

	resp, err = engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Shared)
	require.Equal(t, "Share restored.", resp.Message)

	// The unique pair row is reused across the whole cycle.
	share, err := repository.NewShareRepository().Get(ctx, testutil.User1.ID, testutil.Post2.ID)
	require.NoError(t, err)
	require.False(t, share.DeletedAt.Valid)
}

func Test_engageDomain_ToggleFollow_cycle(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User3.ID)

	resp, err := engageDomain.ToggleFollow(ctx, &model.ToggleFollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.True(t, resp.Following)
	require.Equal(t, "User followed.", resp.Message)

	searchCaller := testutil.NewMockSearchCaller()
	userRepo := repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient())

	user2, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), user2.Followers)

	user3, err := userRepo.GetByID(ctx, testutil.User3.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), user3.Followings)

	resp, err = engageDomain.ToggleFollow(ctx, &model.ToggleFollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.False(t, resp.Following)
	require.Equal(t, "User unfollowed.", resp.Message)

	resp, err = engageDomain.ToggleFollow(ctx, &model.ToggleFollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.True(t, resp.Following)
	require.Equal(t, "Follow restored.", resp.Message)
}

func Test_engageDomain_ToggleFollow_self(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User1.ID)

	_, err := engageDomain.ToggleFollow(ctx, &model.ToggleFollowRequest{UserID: testutil.User1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "You cannot follow yourself"), err)

	// The failed toggle must not touch the counters.
	userRepo := repository.NewUserRepository(testutil.NewMockSearchCaller(), testutil.NewMockRedisClient())
	user1, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), user1.Followings)
}

// The racing repositories report the pair as absent, like a lookup that ran
// before a concurrent request committed the row. The later insert then hits
// the unique constraint.

type racingLikeRepository struct {
	repository.LikeRepository
}

func (r *racingLikeRepository) GetUnscoped(
	ctx context.Context, userID, postID string,
) (*entity.Like, error) {
	return nil, gorm.ErrRecordNotFound
}

type racingShareRepository struct {
	repository.ShareRepository
}

func (r *racingShareRepository) GetUnscoped(
	ctx context.Context, userID, postID string,
) (*entity.Share, error) {
	return nil, gorm.ErrRecordNotFound
}

type racingFollowRepository struct {
	repository.FollowRepository
}

func (r *racingFollowRepository) GetUnscoped(
	ctx context.Context, followerID, userID string,
) (*entity.Follow, error) {
	return nil, gorm.ErrRecordNotFound
}

func Test_engageDomain_ToggleLike_createConflict(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	likeRepo := repository.NewLikeRepository()
	require.NoError(t, likeRepo.Create(ctx, &entity.Like{
		UserID: testutil.User1.ID,
		PostID: testutil.Post2.ID,
	}))

	searchCaller := testutil.NewMockSearchCaller()
	engageDomain := NewEngageDomain(
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		&racingLikeRepository{LikeRepository: likeRepo},
		repository.NewShareRepository(),
		repository.NewFollowRepository(),
		testutil.NewMockPublisher(),
	)

	resp, err := engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.Equal(t, "Post already liked.", resp.Message)
}

func Test_engageDomain_ToggleShare_createConflict(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	shareRepo := repository.NewShareRepository()
	require.NoError(t, shareRepo.Create(ctx, &entity.Share{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: testutil.User1.ID,
		PostID: testutil.Post2.ID,
	}))

	searchCaller := testutil.NewMockSearchCaller()
	engageDomain := NewEngageDomain(
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		repository.NewLikeRepository(),
		&racingShareRepository{ShareRepository: shareRepo},
		repository.NewFollowRepository(),
		testutil.NewMockPublisher(),
	)

	resp, err := engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.True(t, resp.Shared)
	require.Equal(t, "Post already shared.", resp.Message)
}

func Test_engageDomain_ToggleFollow_createConflict(t *testing.T) {
	ctx := testutil.MockContextWithUserID(t, testutil.User3.ID)
	testutil.CreateFixtureDb(ctx, t)

	followRepo := repository.NewFollowRepository()
	require.NoError(t, followRepo.Create(ctx, &entity.Follow{
		FollowerID: testutil.User3.ID,
		UserID:     testutil.User2.ID,
	}))

	searchCaller := testutil.NewMockSearchCaller()
	engageDomain := NewEngageDomain(
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		repository.NewLikeRepository(),
		repository.NewShareRepository(),
		&racingFollowRepository{FollowRepository: followRepo},
		testutil.NewMockPublisher(),
	)

	resp, err := engageDomain.ToggleFollow(ctx, &model.ToggleFollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.True(t, resp.Following)
	require.Equal(t, "User already followed.", resp.Message)
}

func Test_engageDomain_ToggleShare_deletedPost(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User1.ID)

	_, err := engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)

	require.NoError(t, repository.NewPostRepository(testutil.NewMockSearchCaller()).
		DeleteByID(ctx, testutil.Post2.ID))

	// Unsharing still works after the post is gone.
	resp, err := engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)
	require.False(t, resp.Shared)
	require.Equal(t, "Post unshared.", resp.Message)

	// Restoring the share does not.
	_, err = engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}

func Test_engageDomain_ToggleLike_deletedPost(t *testing.T) {
	ctx, engageDomain, _ := newTestEngageDomain(t, testutil.User2.ID)

	require.NoError(t, repository.NewPostRepository(testutil.NewMockSearchCaller()).
		DeleteByID(ctx, testutil.Post1.ID))

	_, err := engageDomain.ToggleLike(ctx, &model.ToggleLikeRequest{PostID: testutil.Post1.ID})
	require.Error(t, err)

	var count int64
	err = xcontext.DB(ctx).Table("likes").Where("deleted_at IS NULL").Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}
