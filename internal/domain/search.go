package domain

import (
	"context"

	"github.com/openfeed-lab/backend/internal/client"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

type SearchDomain interface {
	SearchUsers(ctx context.Context, req *model.SearchUsersRequest) (*model.SearchUsersResponse, error)
	SearchPosts(ctx context.Context, req *model.SearchPostsRequest) (*model.SearchPostsResponse, error)
}

type searchDomain struct {
	searchCaller client.SearchCaller
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	projector    *postProjector
}

func NewSearchDomain(
	searchCaller client.SearchCaller,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	shareRepo repository.ShareRepository,
	followRepo repository.FollowRepository,
) *searchDomain {
	return &searchDomain{
		searchCaller: searchCaller,
		userRepo:     userRepo,
		postRepo:     postRepo,
		followRepo:   followRepo,
		projector:    newPostProjector(userRepo, postRepo, likeRepo, shareRepo),
	}
}

// searchMeta builds page metadata without a total count. The index only tells
// whether a full page came back, so the last page is a lower bound.
func searchMeta(page, limit, found int) model.PageMeta {
	lastPage := page
	if found == limit {
		lastPage = page + 1
	}

	return model.PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     limit,
		Total:       int64(found),
	}
}

func (d *searchDomain) SearchUsers(
	ctx context.Context, req *model.SearchUsersRequest,
) (*model.SearchUsersResponse, error) {
	if req.Query == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty query")
	}

	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	ids, err := d.searchCaller.SearchUser(ctx, req.Query, (page-1)*limit, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]int{}
	for i := range users {
		userMap[users[i].ID] = i
	}

	followed := map[string]bool{}
	if viewerID := xcontext.RequestUserID(ctx); viewerID != "" {
		follows, err := d.followRepo.GetActiveByFollowerAndUsers(ctx, viewerID, ids)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get follow states: %v", err)
			return nil, errorx.Unknown
		}

		for _, follow := range follows {
			followed[follow.UserID] = true
		}
	}

	result := []model.User{}
	for _, id := range ids {
		i, ok := userMap[id]
		if !ok {
			continue
		}

		result = append(result, model.ConvertUser(&users[i], followed[id]))
	}

	return &model.SearchUsersResponse{
		Users: result,
		Meta:  searchMeta(page, limit, len(result)),
	}, nil
}

func (d *searchDomain) SearchPosts(
	ctx context.Context, req *model.SearchPostsRequest,
) (*model.SearchPostsResponse, error) {
	if req.Query == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty query")
	}

	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	ids, err := d.searchCaller.SearchPost(ctx, req.Query, (page-1)*limit, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search posts: %v", err)
		return nil, errorx.Unknown
	}

	posts, err := d.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
		return nil, errorx.Unknown
	}

	postMap := map[string]int{}
	for i := range posts {
		postMap[posts[i].ID] = i
	}

	entries := []feedEntry{}
	for _, id := range ids {
		i, ok := postMap[id]
		if !ok {
			continue
		}

		entries = append(entries, feedEntry{postID: id, timestamp: posts[i].CreatedAt})
	}

	projected, err := d.projector.project(ctx, entries)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hydrate posts: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SearchPostsResponse{
		Posts: projected,
		Meta:  searchMeta(page, limit, len(projected)),
	}, nil
}
