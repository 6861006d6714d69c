package service

import (
	"context"
	"strings"

	"github.com/ayxworxfr/go_blog/internal/dao"
	"github.com/ayxworxfr/go_blog/internal/domain/models"
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/ayxworxfr/go_blog/internal/domain/types"
	"github.com/ayxworxfr/go_blog/internal/domain/vo"
	"github.com/ayxworxfr/go_blog/internal/search"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/ayxworxfr/go_blog/pkg/paging"
	"github.com/ayxworxfr/go_blog/pkg/repository"
	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrVersionConflict 乐观锁版本不匹配
var ErrVersionConflict = errors.New("version conflict")

// ArticleService 文章管理服务
type ArticleService struct {
	articleRepo      repository.Repository[models.Article]
	articleTopicRepo repository.Repository[models.ArticleTopic]
	topicRepo        repository.Repository[models.Topic]
	commentRepo      repository.Repository[models.Comment]
	personRepo       repository.Repository[models.Person]
}

// NewArticleService 创建文章服务实例
func NewArticleService() *ArticleService {
	return &ArticleService{
		articleRepo:      dao.ArticleRepo,
		articleTopicRepo: dao.ArticleTopicRepo,
		topicRepo:        dao.TopicRepo,
		commentRepo:      dao.CommentRepo,
		personRepo:       dao.PersonRepo,
	}
}

// CreateArticle 创建文章，同一客户端重复提交相同幂等令牌时返回首次创建的结果
func (s *ArticleService) CreateArticle(ctx context.Context, authorID uint64, req *params.CreateArticleRequest) (*vo.CreateResult, error) {
	// 令牌已登记则为重放请求
	token, err := findIdempotencyToken(ctx, authorID, req.IdempotencyTokenValue, models.IdempotencyTargetArticle)
	if err != nil {
		return nil, err
	}
	if token != nil {
		logger.Info(ctx, "Article create replayed", zap.Uint64("article_id", token.TargetID),
			zap.String("token", req.IdempotencyTokenValue))
		return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
	}

	article := &models.Article{
		Title:    req.Payload.Title,
		Content:  req.Payload.Content,
		AuthorID: authorID,
	}

	_, err = s.articleRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.articleRepo.Create(txCtx, article); err != nil {
			return nil, errors.Wrap(err, "failed to create article")
		}

		if err := s.replaceTopicLinks(txCtx, article.ID, req.Payload.TopicIDs); err != nil {
			return nil, err
		}

		// 令牌与文章在同一事务中落库，并发重复提交由唯一约束兜底
		if err := claimIdempotencyToken(txCtx, dao.IdempotencyTokenRepo, authorID,
			req.IdempotencyTokenValue, models.IdempotencyTargetArticle, article.ID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		// 唯一约束冲突说明并发请求已经创建成功，按重放处理
		if token, findErr := findIdempotencyToken(ctx, authorID, req.IdempotencyTokenValue, models.IdempotencyTargetArticle); findErr == nil && token != nil {
			return &vo.CreateResult{ID: token.TargetID, Replayed: true}, nil
		}
		logger.Error(ctx, "Failed to create article", zap.Error(err), zap.Uint64("author_id", authorID))
		return nil, err
	}

	s.indexArticle(ctx, article)

	logger.Info(ctx, "Article created", zap.Uint64("article_id", article.ID), zap.Uint64("author_id", authorID))
	return &vo.CreateResult{ID: article.ID}, nil
}

// UpdateArticle 更新文章，请求携带的版本必须与当前版本一致
func (s *ArticleService) UpdateArticle(ctx context.Context, req *params.UpdateArticleRequest) (*vo.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, req.ID)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve article", zap.Error(err), zap.Uint64("article_id", req.ID))
		return nil, errors.Wrap(err, "failed to retrieve article")
	}

	if article.Version != req.Version {
		logger.Warn(ctx, "Article version conflict", zap.Uint64("article_id", req.ID),
			zap.Int("current", article.Version), zap.Int("requested", req.Version))
		return nil, ErrVersionConflict
	}

	article.Title = req.Payload.Title
	article.Content = req.Payload.Content

	_, err = s.articleRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.articleRepo.Update(txCtx, article); err != nil {
			return nil, errors.Wrap(err, "failed to update article")
		}
		if req.Payload.TopicIDs != nil {
			if err := s.replaceTopicLinks(txCtx, article.ID, req.Payload.TopicIDs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		// 版本检查通过后仍可能被并发更新抢先
		if errors.Is(err, repository.ErrOptimisticLock) {
			logger.Warn(ctx, "Article version conflict", zap.Uint64("article_id", req.ID),
				zap.Int("requested", req.Version))
			return nil, ErrVersionConflict
		}
		logger.Error(ctx, "Failed to update article", zap.Error(err), zap.Uint64("article_id", req.ID))
		return nil, err
	}

	s.indexArticle(ctx, article)

	var result vo.Article
	if err := copier.Copy(&result, article); err != nil {
		return nil, errors.Wrap(err, "failed to copy article to result")
	}
	return &result, nil
}

// DeleteArticleBatch 批量删除文章
func (s *ArticleService) DeleteArticleBatch(ctx context.Context, ids []uint64) error {
	var errs multierror.Error
	for _, id := range ids {
		if err := s.DeleteArticle(ctx, id); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
	}
	return errs.ErrorOrNil()
}

// DeleteArticle 删除文章及其主题关联和评论
func (s *ArticleService) DeleteArticle(ctx context.Context, id uint64) error {
	_, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve article", zap.Error(err), zap.Uint64("article_id", id))
		return errors.Wrap(err, "failed to retrieve article")
	}

	_, err = s.articleRepo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.articleTopicRepo.QueryBuilder().
			Eq("article_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete article topic links")
		}

		if err := s.commentRepo.QueryBuilder().
			Eq("article_id", id).
			Delete(txCtx); err != nil {
			return nil, errors.Wrap(err, "failed to delete article comments")
		}

		if err := s.articleRepo.DeleteByID(txCtx, id); err != nil {
			return nil, errors.Wrap(err, "failed to delete article")
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	// 索引删除失败不影响主流程，重建任务会补偿
	if search.Enabled() {
		if err := search.Instance.Delete(ctx, id); err != nil {
			logger.Warn(ctx, "Failed to delete article document", zap.Error(err), zap.Uint64("article_id", id))
		}
	}

	logger.Info(ctx, "Article deleted", zap.Uint64("article_id", id))
	return nil
}

// GetArticle 获取单篇文章，位标志控制附带的关联内容
func (s *ArticleService) GetArticle(ctx context.Context, id uint64, flags int) (*vo.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve article", zap.Error(err), zap.Uint64("article_id", id))
		return nil, errors.Wrap(err, "failed to retrieve article")
	}

	return s.buildArticleVo(ctx, article, params.NewResponseFlags(flags))
}

// GetArticleList 获取文章列表，默认按创建时间倒序
func (s *ArticleService) GetArticleList(ctx context.Context, req *params.GetArticleListRequest) ([]vo.Article, int64, error) {
	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.Sort{paging.Desc("createTime")})

	articles, total, err := s.articleRepo.FindPage(ctx, req, page)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve articles", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve articles")
	}

	result, err := s.buildArticleVos(ctx, articles, params.NewResponseFlags(req.Flags))
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// GetArticleListByTopics 按主题名获取文章列表，文章命中任一主题即返回
func (s *ArticleService) GetArticleListByTopics(ctx context.Context, req *params.GetArticleListByTopicsRequest) ([]vo.Article, int64, error) {
	topics, err := s.topicRepo.QueryBuilder().
		In("name", lo.ToAnySlice(req.TopicNames)).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve topics", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve topics")
	}
	if len(topics) == 0 {
		return []vo.Article{}, 0, nil
	}

	topicIDs := lo.Map(topics, func(t models.Topic, _ int) any { return t.ID })
	links, err := s.articleTopicRepo.QueryBuilder().
		In("topic_id", topicIDs).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve article topic links", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve article topic links")
	}

	articleIDs := lo.Uniq(lo.Map(links, func(l models.ArticleTopic, _ int) uint64 { return l.ArticleID }))
	if len(articleIDs) == 0 {
		return []vo.Article{}, 0, nil
	}

	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.Sort{paging.Desc("createTime")})
	articles, err := s.articleRepo.QueryBuilder().
		In("id", lo.ToAnySlice(articleIDs)).
		Paginate(page).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve articles by topics", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve articles by topics")
	}

	result, err := s.buildArticleVos(ctx, articles, params.NewResponseFlags(req.Flags))
	if err != nil {
		return nil, 0, err
	}
	return result, int64(len(articleIDs)), nil
}

// SearchArticleList 全文检索文章，词条之间是与的关系
func (s *ArticleService) SearchArticleList(ctx context.Context, req *params.SearchArticleListRequest) ([]vo.Article, int64, error) {
	if !search.Enabled() {
		return nil, 0, errors.New("article search is unavailable")
	}

	// 相关度由索引层保证排在最前，这里补充按发布日期倒序
	page := paging.ToPageable(req.RequestedPage).
		WithSort(paging.Sort{paging.Desc("datePublished")})
	docs, total, err := search.Instance.Search(ctx, strings.Fields(req.Terms), page)
	if err != nil {
		logger.Error(ctx, "Failed to search articles", zap.Error(err), zap.String("terms", req.Terms))
		return nil, 0, errors.Wrap(err, "failed to search articles")
	}
	if len(docs) == 0 {
		return []vo.Article{}, total, nil
	}

	// 命中的文章按相关度顺序回源数据库
	ids := lo.Map(docs, func(d search.ArticleDocument, _ int) any { return d.ID })
	articles, err := s.articleRepo.QueryBuilder().
		In("id", ids).
		Find(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to retrieve searched articles", zap.Error(err))
		return nil, 0, errors.Wrap(err, "failed to retrieve searched articles")
	}

	byID := lo.KeyBy(articles, func(a models.Article) uint64 { return a.ID })
	ordered := make([]models.Article, 0, len(docs))
	for _, doc := range docs {
		if article, ok := byID[doc.ID]; ok {
			ordered = append(ordered, article)
		}
	}

	result, err := s.buildArticleVos(ctx, ordered, params.NewResponseFlags(req.Flags))
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// RebuildSearchIndex 全量重建文章索引
func (s *ArticleService) RebuildSearchIndex(ctx context.Context) error {
	if !search.Enabled() {
		return nil
	}

	articles, err := s.articleRepo.FindAll(ctx, &models.Article{})
	if err != nil {
		return errors.Wrap(err, "failed to load articles for reindex")
	}

	var errs multierror.Error
	for i := range articles {
		if err := search.Instance.Index(ctx, articleDocument(&articles[i])); err != nil {
			errs.Errors = append(errs.Errors, err)
		}
	}

	logger.Info(ctx, "Search index rebuilt", zap.Int("articles", len(articles)),
		zap.Int("failures", len(errs.Errors)))
	return errs.ErrorOrNil()
}

// replaceTopicLinks 重建文章与主题的关联
func (s *ArticleService) replaceTopicLinks(txCtx context.Context, articleID uint64, topicIDs []uint64) error {
	if err := s.articleTopicRepo.QueryBuilder().
		Eq("article_id", articleID).
		Delete(txCtx); err != nil {
		return errors.Wrap(err, "failed to clear article topic links")
	}

	for _, topicID := range topicIDs {
		if _, err := s.topicRepo.FindByID(txCtx, topicID); err != nil {
			return errors.Wrapf(err, "topic %d not found", topicID)
		}
		link := &models.ArticleTopic{ArticleID: articleID, TopicID: topicID}
		if err := s.articleTopicRepo.Create(txCtx, link); err != nil {
			return errors.Wrap(err, "failed to link article topic")
		}
	}
	return nil
}

// indexArticle 同步写索引，失败只告警，由重建任务补偿
func (s *ArticleService) indexArticle(ctx context.Context, article *models.Article) {
	if !search.Enabled() {
		return
	}
	if err := search.Instance.Index(ctx, articleDocument(article)); err != nil {
		logger.Warn(ctx, "Failed to index article", zap.Error(err), zap.Uint64("article_id", article.ID))
	}
}

func articleDocument(article *models.Article) *search.ArticleDocument {
	return &search.ArticleDocument{
		ID:            article.ID,
		Title:         article.Title,
		Content:       article.Content,
		AuthorID:      article.AuthorID,
		DatePublished: types.FromTime(article.CreateTime),
	}
}

// buildArticleVos 批量构建文章视图对象
func (s *ArticleService) buildArticleVos(ctx context.Context, articles []models.Article, flags *params.ResponseFlags) ([]vo.Article, error) {
	result := make([]vo.Article, 0, len(articles))
	for i := range articles {
		item, err := s.buildArticleVo(ctx, &articles[i], flags)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, nil
}

// buildArticleVo 构建文章视图对象（使用位标志控制返回内容）
func (s *ArticleService) buildArticleVo(ctx context.Context, article *models.Article, flags *params.ResponseFlags) (*vo.Article, error) {
	var result vo.Article
	if err := copier.Copy(&result, article); err != nil {
		return nil, errors.Wrap(err, "failed to copy article to result")
	}

	if flags.Has(params.INCLUDE_AUTHOR) {
		person, err := s.personRepo.FindByID(ctx, article.AuthorID)
		if err == nil {
			var author vo.Person
			if err := copier.Copy(&author, person); err == nil {
				result.Author = &author
			}
		}
	}

	if flags.Has(params.INCLUDE_TOPICS) {
		topics, err := s.retrieveArticleTopics(ctx, article.ID)
		if err != nil {
			return nil, err
		}
		result.Topics = topics
	}

	if flags.Has(params.INCLUDE_COMMENTS) {
		comments, err := s.commentRepo.QueryBuilder().
			Eq("article_id", article.ID).
			OrderBy("create_time ASC").
			Find(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to retrieve article comments")
		}
		var commentVOs []*vo.Comment
		if err := copier.Copy(&commentVOs, &comments); err != nil {
			return nil, errors.Wrap(err, "failed to copy comments to result")
		}
		result.Comments = commentVOs
	}

	return &result, nil
}

// retrieveArticleTopics 获取文章关联的主题
func (s *ArticleService) retrieveArticleTopics(ctx context.Context, articleID uint64) ([]*vo.Topic, error) {
	links, err := s.articleTopicRepo.QueryBuilder().
		Eq("article_id", articleID).
		Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve article topic links")
	}
	if len(links) == 0 {
		return nil, nil
	}

	topicIDs := lo.Map(links, func(l models.ArticleTopic, _ int) any { return l.TopicID })
	topics, err := s.topicRepo.QueryBuilder().
		In("id", topicIDs).
		Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve topics")
	}

	var topicVOs []*vo.Topic
	if err := copier.Copy(&topicVOs, &topics); err != nil {
		return nil, errors.Wrap(err, "failed to copy topics to result")
	}
	return topicVOs, nil
}
