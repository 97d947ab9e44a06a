package domain

import (
	"context"
	"testing"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestPostDomain(t *testing.T, viewerID string) (context.Context, *postDomain, *testutil.MockStorage) {
	ctx := testutil.MockContextWithUserID(t, viewerID)
	testutil.CreateFixtureDb(ctx, t)

	searchCaller := testutil.NewMockSearchCaller()
	mockStorage := testutil.NewMockStorage()
	postDomain := NewPostDomain(
		repository.NewUserRepository(searchCaller, testutil.NewMockRedisClient()),
		repository.NewPostRepository(searchCaller),
		repository.NewLikeRepository(),
		repository.NewShareRepository(),
		repository.NewFileRepository(),
		mockStorage,
	)

	return ctx, postDomain, mockStorage
}

func Test_postDomain_Create(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	resp, err := postDomain.Create(ctx, &model.CreatePostRequest{Content: "hello world"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Post.ID)
	require.Equal(t, "hello world", resp.Post.Content)
	require.Equal(t, testutil.User1.ID, resp.Post.Author.ID)
	require.True(t, resp.Post.CanUpdate)
	require.True(t, resp.Post.CanDelete)
	require.False(t, resp.Post.IsShare)
}

func Test_postDomain_Create_empty(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	_, err := postDomain.Create(ctx, &model.CreatePostRequest{})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_postDomain_Create_withImage(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	file := &entity.File{
		Base:   entity.Base{ID: "file1"},
		Mime:   "image/png",
		Name:   "posts/abc-cat.png",
		UserID: testutil.User1.ID,
		Url:    "http://storage.local/images/posts/abc-cat.png",
	}
	require.NoError(t, repository.NewFileRepository().Create(ctx, file))

	resp, err := postDomain.Create(ctx, &model.CreatePostRequest{
		Content: "look at this",
		ImageID: file.ID,
	})
	require.NoError(t, err)
	require.Equal(t, file.Url, resp.Post.ImageURL)
}

func Test_postDomain_Create_withForeignImage(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	file := &entity.File{
		Base:   entity.Base{ID: "file2"},
		Name:   "posts/xyz-dog.png",
		UserID: testutil.User2.ID,
	}
	require.NoError(t, repository.NewFileRepository().Create(ctx, file))

	_, err := postDomain.Create(ctx, &model.CreatePostRequest{
		Content: "stolen picture",
		ImageID: file.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_postDomain_Update_ownerOnly(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	resp, err := postDomain.Update(ctx, &model.UpdatePostRequest{
		ID:      testutil.Post1.ID,
		Content: "updated content",
	})
	require.NoError(t, err)
	require.Equal(t, "updated content", resp.Post.Content)

	_, err = postDomain.Update(
		xcontext.WithRequestUserID(ctx, testutil.User2.ID),
		&model.UpdatePostRequest{ID: testutil.Post1.ID, Content: "hijacked"})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_postDomain_Delete(t *testing.T) {
	ctx, postDomain, mockStorage := newTestPostDomain(t, testutil.User1.ID)

	// Attach an image so the delete also removes the stored object.
	err := xcontext.DB(ctx).Model(&entity.Post{}).
		Where("id=?", testutil.Post1.ID).
		Update("image_file_name", "posts/abc-cat.png").Error
	require.NoError(t, err)

	_, err = postDomain.Delete(ctx, &model.DeletePostRequest{ID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"images/posts/abc-cat.png"}, mockStorage.Deleted)

	_, err = postDomain.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_postDomain_Delete_notOwner(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User2.ID)

	_, err := postDomain.Delete(ctx, &model.DeletePostRequest{ID: testutil.Post1.ID})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func Test_postDomain_Get_recountsDriftedCounter(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, testutil.User1.ID)

	require.NoError(t, repository.NewLikeRepository().Create(ctx, &entity.Like{
		UserID: testutil.User1.ID,
		PostID: testutil.Post1.ID,
	}))

	// Force the counter column into an impossible value.
	err := xcontext.DB(ctx).Model(&entity.Post{}).
		Where("id=?", testutil.Post1.ID).
		Update("like_count", -3).Error
	require.NoError(t, err)

	resp, err := postDomain.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Post.LikeCount)
}

func Test_postDomain_Get_anonymousFlags(t *testing.T) {
	ctx, postDomain, _ := newTestPostDomain(t, "")

	resp, err := postDomain.Get(ctx, &model.GetPostRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.False(t, resp.Post.LikedByUser)
	require.False(t, resp.Post.SharedByUser)
	require.False(t, resp.Post.CanUpdate)
	require.False(t, resp.Post.CanDelete)
	require.Equal(t, testutil.User1.ID, resp.Post.Author.ID)
}
