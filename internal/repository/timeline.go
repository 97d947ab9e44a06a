package repository

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/pkg/xcontext"
)

type TimelineEntryKind string

const (
	TimelineEntryPost  = TimelineEntryKind("post")
	TimelineEntryShare = TimelineEntryKind("share")
)

// TimelineEntry is one row of the merged feed. ID points at a post or a share
// depending on Kind, and CreatedAt is the entry's own timestamp, meaning the
// share time for shares rather than the original post time.
type TimelineEntry struct {
	ID        string
	Kind      TimelineEntryKind
	CreatedAt time.Time
}

type TimelineRepository interface {
	GetEntries(ctx context.Context, viewerID string, authorIDs []string, offset, limit int) ([]TimelineEntry, error)
	CountEntries(ctx context.Context, viewerID string, authorIDs []string) (int64, error)
}

type timelineRepository struct{}

func NewTimelineRepository() *timelineRepository {
	return &timelineRepository{}
}

// Posts the viewer has actively shared are excluded from the post arm because
// the share arm re-emits them at the share timestamp. Everything else is a
// straight union of authored posts and shares among the allowed authors.
const timelineUnionSQL = `
SELECT id, 'post' AS kind, created_at FROM posts
	WHERE user_id IN ? AND deleted_at IS NULL
	AND id NOT IN (SELECT post_id FROM shares WHERE user_id = ? AND deleted_at IS NULL)
UNION ALL
SELECT id, 'share' AS kind, created_at FROM shares
	WHERE user_id IN ? AND deleted_at IS NULL
`

func (r *timelineRepository) GetEntries(
	ctx context.Context, viewerID string, authorIDs []string, offset, limit int,
) ([]TimelineEntry, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	var result []TimelineEntry
	err := xcontext.DB(ctx).
		Raw(
			timelineUnionSQL+"ORDER BY created_at DESC LIMIT ? OFFSET ?",
			authorIDs, viewerID, authorIDs, limit, offset,
		).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *timelineRepository) CountEntries(
	ctx context.Context, viewerID string, authorIDs []string,
) (int64, error) {
	if len(authorIDs) == 0 {
		return 0, nil
	}

	var result int64
	err := xcontext.DB(ctx).
		Raw(
			"SELECT COUNT(*) FROM ("+timelineUnionSQL+") AS entries",
			authorIDs, viewerID, authorIDs,
		).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
