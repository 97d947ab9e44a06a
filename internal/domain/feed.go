package domain

import (
	"context"

	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type FeedDomain interface {
	GetTimeline(ctx context.Context, req *model.GetTimelineRequest) (*model.GetTimelineResponse, error)
}

type feedDomain struct {
	followRepo   repository.FollowRepository
	shareRepo    repository.ShareRepository
	timelineRepo repository.TimelineRepository
	projector    *postProjector
}

func NewFeedDomain(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
	followRepo repository.FollowRepository,
	timelineRepo repository.TimelineRepository,
) *feedDomain {
	return &feedDomain{
		followRepo:   followRepo,
		shareRepo:    shareRepo,
		timelineRepo: timelineRepo,
		projector:    newPostProjector(userRepo, postRepo, likeRepo, shareRepo),
	}
}

// GetTimeline merges posts and shares authored by the viewer and everyone the
// viewer follows, newest activity first. A post the viewer shared shows up as
// the share, not as the original post.
func (d *feedDomain) GetTimeline(
	ctx context.Context, req *model.GetTimelineRequest,
) (*model.GetTimelineResponse, error) {
	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	viewerID := xcontext.RequestUserID(ctx)
	followingIDs, err := d.followRepo.GetFollowingIDs(ctx, viewerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following ids: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := followingIDs
	if !slices.Contains(authorIDs, viewerID) {
		authorIDs = append(authorIDs, viewerID)
	}

	offset := (page - 1) * timelinePageSize

	entries, err := d.timelineRepo.GetEntries(ctx, viewerID, authorIDs, offset, timelinePageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get timeline entries: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.timelineRepo.CountEntries(ctx, viewerID, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count timeline entries: %v", err)
		return nil, errorx.Unknown
	}

	shareIDs := []string{}
	for _, entry := range entries {
		if entry.Kind == repository.TimelineEntryShare {
			shareIDs = append(shareIDs, entry.ID)
		}
	}

	shares, err := d.shareRepo.GetByIDs(ctx, shareIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shares: %v", err)
		return nil, errorx.Unknown
	}

	shareMap := map[string]int{}
	for i := range shares {
		shareMap[shares[i].ID] = i
	}

	feedEntries := []feedEntry{}
	for _, entry := range entries {
		if entry.Kind == repository.TimelineEntryPost {
			feedEntries = append(feedEntries, feedEntry{
				postID:    entry.ID,
				timestamp: entry.CreatedAt,
			})
			continue
		}

		i, ok := shareMap[entry.ID]
		if !ok {
			continue
		}

		feedEntries = append(feedEntries, feedEntry{
			postID:    shares[i].PostID,
			isShare:   true,
			shareID:   shares[i].ID,
			sharerID:  shares[i].UserID,
			timestamp: entry.CreatedAt,
		})
	}

	posts, err := d.projector.project(ctx, feedEntries)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate timeline: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetTimelineResponse{
		Posts: posts,
		Meta:  pageMeta(page, timelinePageSize, total),
	}, nil
}
