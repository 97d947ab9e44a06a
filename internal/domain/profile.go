package domain

import (
	"context"
	"errors"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/enum"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ProfileDomain interface {
	GetProfile(ctx context.Context, req *model.GetProfileRequest) (*model.GetProfileResponse, error)
	GetFollowers(ctx context.Context, req *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowings(ctx context.Context, req *model.GetFollowingsRequest) (*model.GetFollowingsResponse, error)
}

type profileDomain struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	shareRepo  repository.ShareRepository
	followRepo repository.FollowRepository
	projector  *postProjector
}

func NewProfileDomain(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
	followRepo repository.FollowRepository,
) *profileDomain {
	return &profileDomain{
		userRepo:   userRepo,
		postRepo:   postRepo,
		shareRepo:  shareRepo,
		followRepo: followRepo,
		projector:  newPostProjector(userRepo, postRepo, likeRepo, shareRepo),
	}
}

// followedSet returns which of the given users the viewer actively follows.
// It is empty for anonymous viewers.
func (d *profileDomain) followedSet(
	ctx context.Context, userIDs []string,
) (map[string]bool, error) {
	viewerID := xcontext.RequestUserID(ctx)
	if viewerID == "" {
		return nil, nil
	}

	follows, err := d.followRepo.GetActiveByFollowerAndUsers(ctx, viewerID, userIDs)
	if err != nil {
		return nil, err
	}

	result := map[string]bool{}
	for _, follow := range follows {
		result[follow.UserID] = true
	}

	return result, nil
}

func (d *profileDomain) GetProfile(
	ctx context.Context, req *model.GetProfileRequest,
) (*model.GetProfileResponse, error) {
	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	tab := model.ProfileTabPosts
	if req.Tab != "" {
		tab, err = enum.ToEnum[model.ProfileTab](req.Tab)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid profile tab %s", req.Tab)
		}
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	followed, err := d.followedSet(ctx, []string{user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follow state: %v", err)
		return nil, errorx.Unknown
	}

	offset := (page - 1) * profileTabPageSize

	var entries []feedEntry
	var total int64
	if tab == model.ProfileTabPosts {
		posts, err := d.postRepo.GetListByUserID(ctx, user.ID, offset, profileTabPageSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
			return nil, errorx.Unknown
		}

		total, err = d.postRepo.CountByUserID(ctx, user.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count posts: %v", err)
			return nil, errorx.Unknown
		}

		for _, post := range posts {
			entries = append(entries, feedEntry{postID: post.ID, timestamp: post.CreatedAt})
		}
	} else {
		shares, err := d.shareRepo.GetListByUserID(ctx, user.ID, offset, profileTabPageSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get shares: %v", err)
			return nil, errorx.Unknown
		}

		total, err = d.shareRepo.CountByUserID(ctx, user.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count shares: %v", err)
			return nil, errorx.Unknown
		}

		for _, share := range shares {
			entries = append(entries, feedEntry{
				postID:    share.PostID,
				isShare:   true,
				shareID:   share.ID,
				sharerID:  user.ID,
				timestamp: share.CreatedAt,
			})
		}
	}

	posts, err := d.projector.project(ctx, entries)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate profile tab: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetProfileResponse{
		User:  model.ConvertUser(user, followed[user.ID]),
		Posts: posts,
		Meta:  pageMeta(page, profileTabPageSize, total),
	}, nil
}

func (d *profileDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	offset := (page - 1) * followListPageSize
	follows, err := d.followRepo.GetFollowersList(ctx, req.UserID, offset, followListPageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.followRepo.CountFollowers(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count followers: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, follow := range follows {
		ids = append(ids, follow.FollowerID)
	}

	users, err := d.loadUsersInOrder(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follower users: %v", err)
		return nil, errorx.Unknown
	}

	followed, err := d.followedSet(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follow states: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.User{}
	for i := range users {
		result = append(result, model.ConvertUser(&users[i], followed[users[i].ID]))
	}

	return &model.GetFollowersResponse{
		Followers: result,
		Meta:      pageMeta(page, followListPageSize, total),
	}, nil
}

func (d *profileDomain) GetFollowings(
	ctx context.Context, req *model.GetFollowingsRequest,
) (*model.GetFollowingsResponse, error) {
	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	if _, err := d.userRepo.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	offset := (page - 1) * followListPageSize
	follows, err := d.followRepo.GetFollowingsList(ctx, req.UserID, offset, followListPageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followings: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.followRepo.CountFollowings(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count followings: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, follow := range follows {
		ids = append(ids, follow.UserID)
	}

	users, err := d.loadUsersInOrder(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following users: %v", err)
		return nil, errorx.Unknown
	}

	followed, err := d.followedSet(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follow states: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.User{}
	for i := range users {
		result = append(result, model.ConvertUser(&users[i], followed[users[i].ID]))
	}

	return &model.GetFollowingsResponse{
		Followings: result,
		Meta:       pageMeta(page, followListPageSize, total),
	}, nil
}

// loadUsersInOrder batch-loads users and returns them in the order of ids,
// skipping ids that no longer resolve.
func (d *profileDomain) loadUsersInOrder(
	ctx context.Context, ids []string,
) ([]entity.User, error) {
	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	result := []entity.User{}
	for _, id := range ids {
		if user, ok := userMap[id]; ok {
			result = append(result, *user)
		}
	}

	return result, nil
}
