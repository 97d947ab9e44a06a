package domain

import (
	"context"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// feedEntry is the unhydrated form of a feed item. For shares, postID is the
// original post, shareID is the share row, and timestamp is the share time.
type feedEntry struct {
	postID    string
	isShare   bool
	shareID   string
	sharerID  string
	timestamp time.Time
}

// postProjector turns feed entries into the post projection returned by every
// endpoint. It batch-loads posts, authors, and the viewer's engagement rows to
// avoid per-entry queries.
type postProjector struct {
	userRepo  repository.UserRepository
	postRepo  repository.PostRepository
	likeRepo  repository.LikeRepository
	shareRepo repository.ShareRepository
}

func newPostProjector(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
) *postProjector {
	return &postProjector{
		userRepo:  userRepo,
		postRepo:  postRepo,
		likeRepo:  likeRepo,
		shareRepo: shareRepo,
	}
}

func (p *postProjector) project(ctx context.Context, entries []feedEntry) ([]model.Post, error) {
	viewerID := xcontext.RequestUserID(ctx)

	postIDs := []string{}
	seenIDs := map[string]bool{}
	for _, entry := range entries {
		if !seenIDs[entry.postID] {
			seenIDs[entry.postID] = true
			postIDs = append(postIDs, entry.postID)
		}
	}

	// Soft-deleted posts are loaded too so a share of a deleted post can
	// still be rendered in its degraded shape.
	posts, err := p.postRepo.GetByIDsUnscoped(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	postMap := map[string]*entity.Post{}
	for i := range posts {
		postMap[posts[i].ID] = &posts[i]
	}

	userIDs := []string{}
	seenUsers := map[string]bool{}
	appendUser := func(id string) {
		if id != "" && !seenUsers[id] {
			seenUsers[id] = true
			userIDs = append(userIDs, id)
		}
	}

	for _, entry := range entries {
		appendUser(entry.sharerID)
		if post, ok := postMap[entry.postID]; ok && !post.DeletedAt.Valid {
			appendUser(post.UserID)
		}
	}

	users, err := p.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	likedSet := map[string]bool{}
	sharedSet := map[string]bool{}
	if viewerID != "" {
		likes, err := p.likeRepo.GetActiveByUserAndPosts(ctx, viewerID, postIDs)
		if err != nil {
			return nil, err
		}

		for _, like := range likes {
			likedSet[like.PostID] = true
		}

		shares, err := p.shareRepo.GetActiveByUserAndPosts(ctx, viewerID, postIDs)
		if err != nil {
			return nil, err
		}

		for _, share := range shares {
			sharedSet[share.PostID] = true
		}
	}

	result := make([]model.Post, 0, len(entries))
	emitted := map[string]bool{}
	for _, entry := range entries {
		// The same post can reach the feed through multiple shares. The
		// first occurrence wins.
		if emitted[entry.postID] {
			continue
		}

		post, ok := postMap[entry.postID]
		if !ok {
			continue
		}

		if post.DeletedAt.Valid && !entry.isShare {
			continue
		}

		emitted[entry.postID] = true

		if post.DeletedAt.Valid {
			// The degraded shape carries the share's own id, not the id
			// of the removed post.
			out := model.Post{
				ID:        entry.shareID,
				CreatedAt: entry.timestamp,
				IsShare:   true,
				IsDeleted: true,
			}
			if sharer, ok := userMap[entry.sharerID]; ok {
				shortSharer := model.ConvertShortUser(sharer)
				out.SharedBy = &shortSharer
			}

			result = append(result, out)
			continue
		}

		// A negative counter is drift from concurrent toggles. Recount
		// from the rows in that case.
		likeCount, shareCount := post.LikeCount, post.ShareCount
		if likeCount < 0 {
			recounted, err := p.likeRepo.CountByPostID(ctx, post.ID)
			if err != nil {
				return nil, err
			}

			likeCount = recounted
		}

		if shareCount < 0 {
			recounted, err := p.shareRepo.CountByPostID(ctx, post.ID)
			if err != nil {
				return nil, err
			}

			shareCount = recounted
		}

		isOwner := viewerID != "" && viewerID == post.UserID
		out := model.Post{
			ID:           post.ID,
			Content:      post.Content,
			ImageURL:     post.ImageURL,
			CreatedAt:    entry.timestamp,
			IsShare:      entry.isShare,
			LikeCount:    likeCount,
			ShareCount:   shareCount,
			CommentCount: post.CommentCount,
			LikedByUser:  likedSet[post.ID],
			SharedByUser: sharedSet[post.ID],
			CanUpdate:    isOwner,
			CanDelete:    isOwner,
		}

		if author, ok := userMap[post.UserID]; ok {
			shortAuthor := model.ConvertShortUser(author)
			out.Author = &shortAuthor
		}

		if entry.isShare {
			if sharer, ok := userMap[entry.sharerID]; ok {
				shortSharer := model.ConvertShortUser(sharer)
				out.SharedBy = &shortSharer
			}
		}

		result = append(result, out)
	}

	return result, nil
}

func (p *postProjector) projectOne(ctx context.Context, post *entity.Post) (model.Post, error) {
	projected, err := p.project(ctx, []feedEntry{{postID: post.ID, timestamp: post.CreatedAt}})
	if err != nil {
		return model.Post{}, err
	}

	if len(projected) == 0 {
		return model.Post{}, gorm.ErrRecordNotFound
	}

	return projected[0], nil
}
