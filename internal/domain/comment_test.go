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

func newTestCommentDomain(t *testing.T, viewerID string) (context.Context, *commentDomain) {
	ctx := testutil.MockContextWithUserID(t, viewerID)
	testutil.CreateFixtureDb(ctx, t)

	searchCaller := testutil.NewMockSearchCaller()
	commentDomain := NewCommentDomain(
		repository.NewCommentRepository(),
		repository.NewPostRepository(searchCaller),
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		testutil.NewMockPublisher(),
	)

	return ctx, commentDomain
}

func Test_commentDomain_Create(t *testing.T) {
	ctx, commentDomain := newTestCommentDomain(t, testutil.User2.ID)

	resp, err := commentDomain.Create(ctx, &model.CreateCommentRequest{
		PostID:  testutil.Post1.ID,
		Content: "nice tomatoes",
	})
	require.NoError(t, err)
	require.NotZero(t, resp.Comment.ID)
	require.Equal(t, "nice tomatoes", resp.Comment.Content)
	require.Equal(t, testutil.User2.ID, resp.Comment.Author.ID)
	require.True(t, resp.Comment.CanUpdate)

	post, err := repository.NewPostRepository(testutil.NewMockSearchCaller()).
		GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), post.CommentCount)
}

func Test_commentDomain_Create_invalid(t *testing.T) {
	ctx, commentDomain := newTestCommentDomain(t, testutil.User2.ID)

	_, err := commentDomain.Create(ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = commentDomain.Create(ctx, &model.CreateCommentRequest{
		PostID:  "nothing",
		Content: "hello",
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_commentDomain_UpdateDelete_ownerOnly(t *testing.T) {
	ctx, commentDomain := newTestCommentDomain(t, testutil.User2.ID)

	created, err := commentDomain.Create(ctx, &model.CreateCommentRequest{
		PostID:  testutil.Post1.ID,
		Content: "first",
	})
	require.NoError(t, err)

	strangerCtx := xcontext.WithRequestUserID(ctx, testutil.User3.ID)
	_, err = commentDomain.Update(strangerCtx, &model.UpdateCommentRequest{
		ID:      created.Comment.ID,
		Content: "vandalized",
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = commentDomain.Delete(strangerCtx, &model.DeleteCommentRequest{ID: created.Comment.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	updated, err := commentDomain.Update(ctx, &model.UpdateCommentRequest{
		ID:      created.Comment.ID,
		Content: "first, edited",
	})
	require.NoError(t, err)
	require.Equal(t, "first, edited", updated.Comment.Content)

	_, err = commentDomain.Delete(ctx, &model.DeleteCommentRequest{ID: created.Comment.ID})
	require.NoError(t, err)

	post, err := repository.NewPostRepository(testutil.NewMockSearchCaller()).
		GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), post.CommentCount)
}

func Test_commentDomain_GetList(t *testing.T) {
	ctx, commentDomain := newTestCommentDomain(t, testutil.User2.ID)

	for _, content := range []string{"one", "two", "three"} {
		_, err := commentDomain.Create(ctx, &model.CreateCommentRequest{
			PostID:  testutil.Post1.ID,
			Content: content,
		})
		require.NoError(t, err)
	}

	resp, err := commentDomain.GetList(ctx, &model.GetCommentsRequest{
		PostID: testutil.Post1.ID,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 2)
	require.Equal(t, "one", resp.Comments[0].Content)
	require.Equal(t, "two", resp.Comments[1].Content)
	require.Equal(t, int64(3), resp.Meta.Total)
	require.Equal(t, 2, resp.Meta.LastPage)

	resp, err = commentDomain.GetList(ctx, &model.GetCommentsRequest{
		PostID: testutil.Post1.ID,
		Page:   2,
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Comments, 1)
	require.Equal(t, "three", resp.Comments[0].Content)
}

func Test_commentDomain_GetList_exceedMaxLimit(t *testing.T) {
	ctx, commentDomain := newTestCommentDomain(t, testutil.User2.ID)

	_, err := commentDomain.GetList(ctx, &model.GetCommentsRequest{
		PostID: testutil.Post1.ID,
		Limit:  1000,
	})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}
