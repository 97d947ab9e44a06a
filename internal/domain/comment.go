package domain

import (
	"context"
	"errors"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/pubsub"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

type CommentDomain interface {
	Create(ctx context.Context, req *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	Update(ctx context.Context, req *model.UpdateCommentRequest) (*model.UpdateCommentResponse, error)
	Delete(ctx context.Context, req *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	GetList(ctx context.Context, req *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
}

type commentDomain struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	publisher   pubsub.Publisher
}

func NewCommentDomain(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *commentDomain {
	return &commentDomain{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

func checkCommentContent(content string) error {
	if content == "" {
		return errorx.New(errorx.BadRequest, "Not allow an empty comment")
	}

	if len(content) > maxCommentLength {
		return errorx.New(errorx.BadRequest,
			"Comment must not exceed %d characters", maxCommentLength)
	}

	return nil
}

func (d *commentDomain) Create(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	if err := checkCommentContent(req.Content); err != nil {
		return nil, err
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

	comment := &entity.Comment{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		CreatedAt:     time.Now(),
		UserID:        userID,
		PostID:        req.PostID,
		Content:       req.Content,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseCommentCount(ctx, req.PostID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	publishNotification(ctx, d.publisher, notificationEvent{
		Type:      "comment",
		ActorID:   userID,
		UserID:    post.UserID,
		PostID:    post.ID,
		CommentID: comment.ID,
		Active:    true,
	})

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment author: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommentResponse{
		Comment: model.ConvertComment(comment, author, userID),
	}, nil
}

func (d *commentDomain) Update(
	ctx context.Context, req *model.UpdateCommentRequest,
) (*model.UpdateCommentResponse, error) {
	if err := checkCommentContent(req.Content); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this comment")
	}

	if err := d.commentRepo.UpdateContentByID(ctx, req.ID, req.Content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment: %v", err)
		return nil, errorx.Unknown
	}

	comment.Content = req.Content
	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment author: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommentResponse{
		Comment: model.ConvertComment(comment, author, userID),
	}, nil
}

func (d *commentDomain) Delete(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	if comment.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete this comment")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseCommentCount(ctx, comment.PostID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) GetList(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	page, err := checkPage(req.Page)
	if err != nil {
		return nil, err
	}

	limit, err := checkLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	if _, err := d.postRepo.GetByID(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	offset := (page - 1) * limit
	comments, err := d.commentRepo.GetListByPostID(ctx, req.PostID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.commentRepo.CountByPostID(ctx, req.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := []string{}
	seen := map[string]bool{}
	for _, comment := range comments {
		if !seen[comment.UserID] {
			seen[comment.UserID] = true
			authorIDs = append(authorIDs, comment.UserID)
		}
	}

	authors, err := d.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment authors: %v", err)
		return nil, errorx.Unknown
	}

	authorMap := map[string]*entity.User{}
	for i := range authors {
		authorMap[authors[i].ID] = &authors[i]
	}

	viewerID := xcontext.RequestUserID(ctx)
	result := []model.Comment{}
	for i := range comments {
		result = append(result, model.ConvertComment(
			&comments[i], authorMap[comments[i].UserID], viewerID))
	}

	return &model.GetCommentsResponse{
		Comments: result,
		Meta:     pageMeta(page, limit, total),
	}, nil
}
