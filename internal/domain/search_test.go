package domain

import (
	"context"
	"testing"

	"github.com/openfeed-lab/backend/internal/domain/search"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestSearchDomain(t *testing.T, viewerID string) (context.Context, *searchDomain, *testutil.MockSearchCaller) {
	ctx := testutil.MockContextWithUserID(t, viewerID)
	testutil.CreateFixtureDb(ctx, t)

	searchCaller := testutil.NewMockSearchCaller()
	searchDomain := NewSearchDomain(
		searchCaller,
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		repository.NewLikeRepository(),
		repository.NewShareRepository(),
		repository.NewFollowRepository(),
	)

	return ctx, searchDomain, searchCaller
}

func Test_searchDomain_SearchUsers(t *testing.T) {
	ctx, searchDomain, searchCaller := newTestSearchDomain(t, testutil.User1.ID)

	require.NoError(t, searchCaller.IndexUser(ctx, testutil.User2.ID,
		search.UserData{Name: testutil.User2.Name, Bio: testutil.User2.Bio}))
	require.NoError(t, searchCaller.IndexUser(ctx, testutil.User3.ID,
		search.UserData{Name: testutil.User3.Name}))

	resp, err := searchDomain.SearchUsers(ctx, &model.SearchUsersRequest{Query: "bob"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, testutil.User2.ID, resp.Users[0].ID)
	require.True(t, resp.Users[0].IsFollowed)
}

func Test_searchDomain_SearchUsers_emptyQuery(t *testing.T) {
	ctx, searchDomain, _ := newTestSearchDomain(t, testutil.User1.ID)

	_, err := searchDomain.SearchUsers(ctx, &model.SearchUsersRequest{})
	require.Error(t, err)
}

func Test_searchDomain_SearchPosts(t *testing.T) {
	ctx, searchDomain, searchCaller := newTestSearchDomain(t, testutil.User1.ID)

	require.NoError(t, searchCaller.IndexPost(ctx, testutil.Post1.ID,
		search.PostData{Content: testutil.Post1.Content}))
	require.NoError(t, searchCaller.IndexPost(ctx, testutil.Post2.ID,
		search.PostData{Content: testutil.Post2.Content}))

	resp, err := searchDomain.SearchPosts(ctx, &model.SearchPostsRequest{Query: "tomatoes"})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, testutil.Post1.ID, resp.Posts[0].ID)
	require.Equal(t, testutil.User1.ID, resp.Posts[0].Author.ID)
	require.True(t, resp.Posts[0].CanUpdate)
}
