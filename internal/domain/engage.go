package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/pubsub"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// EngageDomain flips like, share, and follow states. Every toggle walks the
// same three-way cycle: no row yet creates one, an active row is soft-deleted,
// a soft-deleted row is restored.
type EngageDomain interface {
	ToggleLike(ctx context.Context, req *model.ToggleLikeRequest) (*model.ToggleLikeResponse, error)
	ToggleShare(ctx context.Context, req *model.ToggleShareRequest) (*model.ToggleShareResponse, error)
	ToggleFollow(ctx context.Context, req *model.ToggleFollowRequest) (*model.ToggleFollowResponse, error)
}

type engageDomain struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	shareRepo  repository.ShareRepository
	followRepo repository.FollowRepository
	publisher  pubsub.Publisher
}

func NewEngageDomain(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
	followRepo repository.FollowRepository,
	publisher pubsub.Publisher,
) *engageDomain {
	return &engageDomain{
		userRepo:   userRepo,
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		shareRepo:  shareRepo,
		followRepo: followRepo,
		publisher:  publisher,
	}
}

func (d *engageDomain) ToggleLike(
	ctx context.Context, req *model.ToggleLikeRequest,
) (*model.ToggleLikeResponse, error) {
	if req.PostID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty post id")
	}

	userID := xcontext.RequestUserID(ctx)
	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	var liked bool
	var message string
	var delta int

	like, err := d.likeRepo.GetUnscoped(ctx, userID, req.PostID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		newLike := &entity.Like{UserID: userID, PostID: req.PostID}
		if err := d.likeRepo.Create(ctx, newLike); err != nil {
			// A concurrent request can win the primary key race between
			// our pair lookup and this insert. If an active like now
			// exists, the desired state is already reached.
			xcontext.WithRollbackDBTransaction(ctx)
			likes, gerr := d.likeRepo.GetActiveByUserAndPosts(ctx, userID, []string{req.PostID})
			if gerr == nil && len(likes) == 1 {
				return &model.ToggleLikeResponse{
					Liked:     true,
					LikeCount: post.LikeCount,
					Message:   "Post already liked.",
				}, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot create like: %v", err)
			return nil, errorx.Unknown
		}

		liked, delta, message = true, 1, "Post liked."

	case err != nil:
		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return nil, errorx.Unknown

	case like.DeletedAt.Valid:
		if err := d.likeRepo.Restore(ctx, userID, req.PostID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot restore like: %v", err)
			return nil, errorx.Unknown
		}

		liked, delta, message = true, 1, "Like restored."

	default:
		if err := d.likeRepo.SoftDelete(ctx, userID, req.PostID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove like: %v", err)
			return nil, errorx.Unknown
		}

		liked, delta, message = false, -1, "Post unliked."
	}

	if err := d.postRepo.IncreaseLikeCount(ctx, req.PostID, delta); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update like count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	publishNotification(ctx, d.publisher, notificationEvent{
		Type:    "like",
		ActorID: userID,
		UserID:  post.UserID,
		PostID:  post.ID,
		Active:  liked,
	})

	return &model.ToggleLikeResponse{
		Liked:     liked,
		LikeCount: post.LikeCount + int64(delta),
		Message:   message,
	}, nil
}

func (d *engageDomain) ToggleShare(
	ctx context.Context, req *model.ToggleShareRequest,
) (*model.ToggleShareResponse, error) {
	if req.PostID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty post id")
	}

	// The post is looked up unscoped so a share of a since-deleted post can
	// still be unshared. The other directions reject the deleted target.
	userID := xcontext.RequestUserID(ctx)
	post, err := d.postRepo.GetByIDUnscoped(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	var shared bool
	var message string
	var delta int

	share, err := d.shareRepo.GetUnscoped(ctx, userID, req.PostID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if post.DeletedAt.Valid {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		newShare := &entity.Share{
			Base:   entity.Base{ID: uuid.NewString()},
			UserID: userID,
			PostID: req.PostID,
		}

		if err := d.shareRepo.Create(ctx, newShare); err != nil {
			// A concurrent request can win the unique index race between
			// our pair lookup and this insert. If an active share now
			// exists, the desired state is already reached.
			xcontext.WithRollbackDBTransaction(ctx)
			if _, gerr := d.shareRepo.Get(ctx, userID, req.PostID); gerr == nil {
				return &model.ToggleShareResponse{
					Shared:     true,
					ShareCount: post.ShareCount,
					Message:    "Post already shared.",
				}, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot create share: %v", err)
			return nil, errorx.Unknown
		}

		shared, delta, message = true, 1, "Post shared."

	case err != nil:
		xcontext.Logger(ctx).Errorf("Cannot get share: %v", err)
		return nil, errorx.Unknown

	case share.DeletedAt.Valid:
		if post.DeletedAt.Valid {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		if err := d.shareRepo.Restore(ctx, userID, req.PostID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot restore share: %v", err)
			return nil, errorx.Unknown
		}

		shared, delta, message = true, 1, "Share restored."

	default:
		if err := d.shareRepo.SoftDelete(ctx, userID, req.PostID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove share: %v", err)
			return nil, errorx.Unknown
		}

		shared, delta, message = false, -1, "Post unshared."
	}

	if err := d.postRepo.IncreaseShareCount(ctx, req.PostID, delta); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update share count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	publishNotification(ctx, d.publisher, notificationEvent{
		Type:    "share",
		ActorID: userID,
		UserID:  post.UserID,
		PostID:  post.ID,
		Active:  shared,
	})

	return &model.ToggleShareResponse{
		Shared:     shared,
		ShareCount: post.ShareCount + int64(delta),
		Message:    message,
	}, nil
}

func (d *engageDomain) ToggleFollow(
	ctx context.Context, req *model.ToggleFollowRequest,
) (*model.ToggleFollowResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == req.UserID {
		return nil, errorx.New(errorx.PermissionDenied, "You cannot follow yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	var following bool
	var message string
	var delta int

	follow, err := d.followRepo.GetUnscoped(ctx, userID, req.UserID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		newFollow := &entity.Follow{FollowerID: userID, UserID: req.UserID}
		if err := d.followRepo.Create(ctx, newFollow); err != nil {
			// Same primary key race as likes.
			xcontext.WithRollbackDBTransaction(ctx)
			follows, gerr := d.followRepo.GetActiveByFollowerAndUsers(ctx, userID, []string{req.UserID})
			if gerr == nil && len(follows) == 1 {
				return &model.ToggleFollowResponse{
					Following: true,
					Message:   "User already followed.",
				}, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot create follow: %v", err)
			return nil, errorx.Unknown
		}

		following, delta, message = true, 1, "User followed."

	case err != nil:
		xcontext.Logger(ctx).Errorf("Cannot get follow: %v", err)
		return nil, errorx.Unknown

	case follow.DeletedAt.Valid:
		if err := d.followRepo.Restore(ctx, userID, req.UserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot restore follow: %v", err)
			return nil, errorx.Unknown
		}

		following, delta, message = true, 1, "Follow restored."

	default:
		if err := d.followRepo.SoftDelete(ctx, userID, req.UserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove follow: %v", err)
			return nil, errorx.Unknown
		}

		following, delta, message = false, -1, "User unfollowed."
	}

	if err := d.userRepo.IncreaseFollowers(ctx, req.UserID, delta); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update followers count: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.IncreaseFollowings(ctx, userID, delta); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update followings count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	publishNotification(ctx, d.publisher, notificationEvent{
		Type:    "follow",
		ActorID: userID,
		UserID:  req.UserID,
		Active:  following,
	})

	return &model.ToggleFollowResponse{Following: following, Message: message}, nil
}
