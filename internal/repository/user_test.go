package repository

import (
	"testing"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_userRepository_cache(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	userRepo := NewUserRepository(testutil.NewMockSearchCaller(), testutil.NewMockRedisClient())

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, user.Name)

	// The second read must be served from the cache. Remove the row
	// underneath to prove it.
	err = xcontext.DB(ctx).Unscoped().Delete(&entity.User{}, "id=?", testutil.User1.ID).Error
	require.NoError(t, err)

	cached, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, cached.Name)
}

func Test_userRepository_invalidateOnUpdate(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	userRepo := NewUserRepository(testutil.NewMockSearchCaller(), testutil.NewMockRedisClient())

	_, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	err = userRepo.UpdateByID(ctx, testutil.User1.ID, &entity.User{Bio: "new bio"})
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, "new bio", user.Bio)
}

func Test_userRepository_reindexOnPartialUpdate(t *testing.T) {
	ctx := testutil.MockContext(t)

	searchCaller := testutil.NewMockSearchCaller()
	userRepo := NewUserRepository(searchCaller, testutil.NewMockRedisClient())

	user := &entity.User{Base: entity.Base{ID: "user-dave"}, Name: "dave", Bio: "initial bio"}
	require.NoError(t, userRepo.Create(ctx, user))

	require.NoError(t, userRepo.UpdateByID(ctx, user.ID, &entity.User{Bio: "updated bio"}))

	// A bio-only update must keep the name searchable.
	ids, err := searchCaller.SearchUser(ctx, "dave", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{user.ID}, ids)

	ids, err = searchCaller.SearchUser(ctx, "updated", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{user.ID}, ids)
}

func Test_userRepository_GetByIDs_partialCache(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	userRepo := NewUserRepository(testutil.NewMockSearchCaller(), testutil.NewMockRedisClient())

	_, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	users, err := userRepo.GetByIDs(ctx, []string{testutil.User1.ID, testutil.User2.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
}
