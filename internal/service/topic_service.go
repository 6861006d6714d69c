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

// TopicService 主题管理服务
type TopicService struct {
	topicRepo        repository.Repository[models.Topic]
	articleTopicRepo repository.Repository[models.ArticleTopic]
}

// NewTopicService 创建主题服务实例
func NewTopicService() *TopicService {
	return &TopicService{
		topicRepo:        dao.TopicRepo,
		articleTopicRepo: dao.ArticleTopicRepo,
	}
}

// CreateTopic 创建主题，重复提交相同幂等令牌时返回首次创建的结果
func (s *TopicService) CreateTopic(ctx context.Context, clientID uint64, req *params.CreateTopicRequest) (*vo.CreateResult, error) {
	token, err := findIdempotencyToken(ctx, clientID, req.IdempotencyTokenValue, models.IdempotencyTargetTopic)
	if err != nil {
		return nil, err
	}
	if token != nil {
		return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
	}

	topic := &models.Topic{Name: req.Name}
	_, err = s.topicRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.topicRepo.Create(txCtx, topic); err != nil {
			return nil, errors.Wrap(err, "failed to create topic")
		}
		if err := claimIdempotencyToken(txCtx, dao.IdempotencyTokenRepo, clientID,
			req.IdempotencyTokenValue, models.IdempotencyTargetTopic, topic.ID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if token, findErr := findIdempotencyToken(ctx, clientID, req.IdempotencyTokenValue, models.IdempotencyTargetTopic); findErr == nil && token != nil {
			return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
		}
		logger.Error(ctx, "Failed to create topic", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}

	logger.Info(ctx, "Topic created", zap.Uint64("topic_id", topic.ID), zap.String("name", req.Name))
	return &vo.CreateResult{ID: topic.ID}, nil
}

// UpdateTopic 更新主题，请求携带的版本必须与当前版本一致
func (s *TopicService) UpdateTopic(ctx context.Context, req *params.UpdateTopicRequest) (*vo.Topic, error) {
	topic, err := s.topicRepo.FindByID(ctx, req.ID)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve topic", zap.Error(err), zap.Uint64("topic_id", req.ID))
		return nil, errors.Wrap(err, "failed to retrieve topic")
	}

	if topic.Version != req.Version {
		logger.Warn(ctx, "Topic version conflict", zap.Uint64("topic_id", req.ID),
			zap.Int("current", topic.Version), zap.Int("requested", req.Version))
		return nil, ErrVersionConflict
	}

	topic.Name = req.Name
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, ErrVersionConflict
		}
		logger.Error(ctx, "Failed to update topic", zap.Error(err), zap.Uint64("topic_id", req.ID))
		return nil, errors.Wrap(err, "failed to update topic")
	}

	var result vo.Topic
	if err := copier.Copy(&result, topic); err != nil {
		return nil, errors.Wrap(err, "failed to copy topic to result")
	}
	return &result, nil
}

// DeleteTopicBatch 批量删除主题
func (s *TopicService) DeleteTopicBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.DeleteTopic(ctx, id); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
	}
	return errs.ErrorOrNil()
}

// DeleteTopic 删除主题及其文章关联
func (s *TopicService) DeleteTopic(ctx context.Context, id uint64) error {
	_, err := s.topicRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve topic", zap.Error(err), zap.Uint64("topic_id", id))
		return errors.Wrap(err, "failed to retrieve topic")
	}

	_, err = s.topicRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.articleTopicRepo.QueryBuilder().
			Eq("topic_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete topic links")
		}
		if err := s.topicRepo.DeleteByID(txCtx, id); err != nil {
			return nil, errors.Wrap(err, "failed to delete topic")
		}
		return nil, nil
	})
	return err
}

// GetTopic 获取单个主题
func (s *TopicService) GetTopic(ctx context.Context, id uint64) (*vo.Topic, error) {
	topic, err := s.topicRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve topic", zap.Error(err), zap.Uint64("topic_id", id))
		return nil, errors.Wrap(err, "failed to retrieve topic")
	}

	var result vo.Topic
	if err := copier.Copy(&result, topic); err != nil {
		return nil, errors.Wrap(err, "failed to copy topic to result")
	}
	return &result, nil
}

// GetTopicList 获取主题列表，按名称升序
func (s *TopicService) GetTopicList(ctx context.Context, req *params.GetTopicListRequest) ([]vo.Topic, int64, error) {
	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.By("name"))

	topics, total, err := s.topicRepo.FindPage(ctx, req, page)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve topics", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve topics")
	}

	var result []vo.Topic
	if err := copier.Copy(&result, &topics); err != nil {
		return nil, 0, errors.Wrap(err, "failed to copy topics to result")
	}
	return result, total, nil
}
