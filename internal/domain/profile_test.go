package domain

import (
	"context"
	"testing"

	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestProfileDomain(t *testing.T, viewerID string) (context.Context, *profileDomain, *engageDomain) {
	ctx := testutil.MockContextWithUserID(t, viewerID)
	testutil.CreateFixtureDb(ctx, t)

	searchCaller := testutil.NewMockSearchCaller()
	userRepo := repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient())
	postRepo := repository.NewPostRepository(searchCaller)
	likeRepo := repository.NewLikeRepository()
	shareRepo := repository.NewShareRepository()
	followRepo := repository.NewFollowRepository()

	profileDomain := NewProfileDomain(userRepo, postRepo, likeRepo, shareRepo, followRepo)
	engageDomain := NewEngageDomain(
		userRepo, postRepo, likeRepo, shareRepo, followRepo, testutil.NewMockPublisher())
	return ctx, profileDomain, engageDomain
}

func Test_profileDomain_GetProfile_postsTab(t *testing.T) {
	ctx, profileDomain, _ := newTestProfileDomain(t, testutil.User1.ID)

	resp, err := profileDomain.GetProfile(ctx, &model.GetProfileRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.User.ID)
	require.True(t, resp.User.IsFollowed)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, testutil.Post2.ID, resp.Posts[0].ID)
	require.Equal(t, 6, resp.Meta.PerPage)
	require.Equal(t, int64(1), resp.Meta.Total)
}

func Test_profileDomain_GetProfile_sharesTab(t *testing.T) {
	ctx, profileDomain, engageDomain := newTestProfileDomain(t, testutil.User1.ID)

	_, err := engageDomain.ToggleShare(ctx, &model.ToggleShareRequest{PostID: testutil.Post2.ID})
	require.NoError(t, err)

	resp, err := profileDomain.GetProfile(ctx, &model.GetProfileRequest{
		UserID: testutil.User1.ID,
		Tab:    string(model.ProfileTabShares),
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, testutil.Post2.ID, resp.Posts[0].ID)
	require.True(t, resp.Posts[0].IsShare)
	require.Equal(t, testutil.User1.ID, resp.Posts[0].SharedBy.ID)

	// The viewer is the profile owner here, not a follower.
	require.False(t, resp.User.IsFollowed)
}

func Test_profileDomain_GetProfile_invalidTab(t *testing.T) {
	ctx, profileDomain, _ := newTestProfileDomain(t, testutil.User1.ID)

	_, err := profileDomain.GetProfile(ctx, &model.GetProfileRequest{
		UserID: testutil.User2.ID,
		Tab:    "likes",
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_profileDomain_GetProfile_notFound(t *testing.T) {
	ctx, profileDomain, _ := newTestProfileDomain(t, testutil.User1.ID)

	_, err := profileDomain.GetProfile(ctx, &model.GetProfileRequest{UserID: "nobody"})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_profileDomain_GetFollowers(t *testing.T) {
	ctx, profileDomain, engageDomain := newTestProfileDomain(t, testutil.User1.ID)

	// User3 follows User2 too, so User2 has two followers. The viewer
	// User1 follows neither of them.
	_, err := engageDomain.ToggleFollow(
		xcontext.WithRequestUserID(ctx, testutil.User3.ID),
		&model.ToggleFollowRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)

	resp, err := profileDomain.GetFollowers(ctx, &model.GetFollowersRequest{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.Len(t, resp.Followers, 2)
	require.Equal(t, 5, resp.Meta.PerPage)
	require.Equal(t, int64(2), resp.Meta.Total)

	for _, follower := range resp.Followers {
		require.False(t, follower.IsFollowed)
	}
}

func Test_profileDomain_GetFollowings(t *testing.T) {
	ctx, profileDomain, _ := newTestProfileDomain(t, testutil.User1.ID)

	resp, err := profileDomain.GetFollowings(ctx, &model.GetFollowingsRequest{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Followings, 1)
	require.Equal(t, testutil.User2.ID, resp.Followings[0].ID)

	// The viewer follows this listed user.
	require.True(t, resp.Followings[0].IsFollowed)
}
