package repository

import (
	"testing"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_timelineRepository_GetEntries(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	// User1 shares Post2, so the post arm must drop Post2 and the share
	// arm must emit it at the share timestamp.
	share := entity.Share{
		Base:   entity.Base{ID: "share1", CreatedAt: time.Now()},
		UserID: testutil.User1.ID,
		PostID: testutil.Post2.ID,
	}
	require.NoError(t, xcontext.DB(ctx).Create(&share).Error)

	timelineRepo := NewTimelineRepository()
	authorIDs := []string{testutil.User1.ID, testutil.User2.ID}

	entries, err := timelineRepo.GetEntries(ctx, testutil.User1.ID, authorIDs, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, share.ID, entries[0].ID)
	require.Equal(t, TimelineEntryShare, entries[0].Kind)
	require.Equal(t, testutil.Post1.ID, entries[1].ID)
	require.Equal(t, TimelineEntryPost, entries[1].Kind)

	total, err := timelineRepo.CountEntries(ctx, testutil.User1.ID, authorIDs)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	// For another viewer the same share coexists with the original post.
	entries, err = timelineRepo.GetEntries(ctx, testutil.User2.ID, authorIDs, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func Test_timelineRepository_GetEntries_softDeleted(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	require.NoError(t, xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", testutil.Post1.ID).Error)

	timelineRepo := NewTimelineRepository()
	authorIDs := []string{testutil.User1.ID, testutil.User2.ID}

	entries, err := timelineRepo.GetEntries(ctx, testutil.User1.ID, authorIDs, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, testutil.Post2.ID, entries[0].ID)
}

func Test_timelineRepository_GetEntries_pagination(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	timelineRepo := NewTimelineRepository()
	authorIDs := []string{testutil.User1.ID, testutil.User2.ID}

	entries, err := timelineRepo.GetEntries(ctx, testutil.User1.ID, authorIDs, 1, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, testutil.Post1.ID, entries[0].ID)

	entries, err = timelineRepo.GetEntries(ctx, testutil.User1.ID, authorIDs, 10, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}
