package service

import (
	"context"

	"github.com/ayxworxfr/go_blog/internal/dao"
	"github.com/ayxworxfr/go_blog/internal/domain/models"
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/ayxworxfr/go_blog/internal/domain/vo"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/ayxworxfr/go_blog/pkg/paging"
	"github.com/ayxworxfr/go_blog/pkg/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CommentService 评论管理服务
type CommentService struct {
	commentRepo repository.Repository[models.Comment]
	articleRepo repository.Repository[models.Article]
}

// NewCommentService 创建评论服务实例
func NewCommentService() *CommentService {
	return &CommentService{
		commentRepo: dao.CommentRepo,
		articleRepo: dao.ArticleRepo,
	}
}

// CreateComment 创建评论，重复提交相同幂等令牌时返回首次创建的结果
func (s *CommentService) CreateComment(ctx context.Context, authorID uint64, req *params.CreateCommentRequest) (*vo.CreateResult, error) {
	token, err := findIdempotencyToken(ctx, authorID, req.IdempotencyTokenValue, models.IdempotencyTargetComment)
	if err != nil {
		return nil, err
	}
	if token != nil {
		return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
	}

	// 评论必须挂在存在的文章上
	if _, err := s.articleRepo.FindByID(ctx, req.Payload.ArticleID); err != nil {
		logger.Warn(ctx, "Comment target article not found", zap.Error(err),
			zap.Uint64("article_id", req.Payload.ArticleID))
		return nil, errors.Wrap(err, "failed to retrieve article")
	}

	comment := &models.Comment{
		ArticleID: req.Payload.ArticleID,
		AuthorID:  authorID,
		Content:   req.Payload.Content,
	}

	_, err = s.commentRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.commentRepo.Create(txCtx, comment); err != nil {
			return nil, errors.Wrap(err, "failed to create comment")
		}
		if err := claimIdempotencyToken(txCtx, dao.IdempotencyTokenRepo, authorID,
			req.IdempotencyTokenValue, models.IdempotencyTargetComment, comment.ID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if token, findErr := findIdempotencyToken(ctx, authorID, req.IdempotencyTokenValue, models.IdempotencyTargetComment); findErr == nil && token != nil {
			return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
		}
		logger.Error(ctx, "Failed to create comment", zap.Error(err), zap.Uint64("author_id", authorID))
		return nil, err
	}

	logger.Info(ctx, "Comment created", zap.Uint64("comment_id", comment.ID),
		zap.Uint64("article_id", comment.ArticleID))
	return &vo.CreateResult{ID: comment.ID}, nil
}

// UpdateComment 更新评论，请求携带的版本必须与当前版本一致
func (s *CommentService) UpdateComment(ctx context.Context, req *params.UpdateCommentRequest) (*vo.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, req.ID)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve comment", zap.Error(err), zap.Uint64("comment_id", req.ID))
		return nil, errors.Wrap(err, "failed to retrieve comment")
	}

	if comment.Version != req.Version {
		logger.Warn(ctx, "Comment version conflict", zap.Uint64("comment_id", req.ID),
			zap.Int("current", comment.Version), zap.Int("requested", req.Version))
		return nil, ErrVersionConflict
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, ErrVersionConflict
		}
		logger.Error(ctx, "Failed to update comment", zap.Error(err), zap.Uint64("comment_id", req.ID))
		return nil, errors.Wrap(err, "failed to update comment")
	}

	var result vo.Comment
	if err := copier.Copy(&result, comment); err != nil {
		return nil, errors.Wrap(err, "failed to copy comment to result")
	}
	return &result, nil
}

// DeleteCommentBatch 批量删除评论
func (s *CommentService) DeleteCommentBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.commentRepo.DeleteByID(ctx, id); err != nil {
			logger.Error(ctx, "Failed to delete comment", zap.Error(err), zap.Uint64("comment_id", id))
			errs.Errors = append(errs.Errors, errors.Wrapf(err, "failed to delete comment %d", id))
		}
	}
	return errs.ErrorOrNil()
}

// GetCommentList 按文章获取评论列表，按创建时间升序
func (s *CommentService) GetCommentList(ctx context.Context, req *params.GetCommentListRequest) ([]vo.Comment, int64, error) {
	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.By("createTime"))

	comments, total, err := s.commentRepo.FindPage(ctx, req, page)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve comments", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve comments")
	}

	var result []vo.Comment
	if err := copier.Copy(&result, &comments); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy comments to result")
	}
	return result, total, nil
}
