package blog_handler

import (
	"errors"

	"github.com/ayxworxfr/go_blog/internal/domain/params"
	validator "github.com/ayxworxfr/go_blog/internal/domain/validate"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
)

type IArticleHandler interface {
	CreateArticle(c *context.Context, req *params.CreateArticleRequest) *context.Response
	UpdateArticle(c *context.Context, req *params.UpdateArticleRequest) *context.Response
	DeleteArticle(c *context.Context, req *params.DeleteArticleRequest) *context.Response
	GetArticle(c *context.Context, req *params.GetArticleRequest) *context.Response
	GetArticleList(c *context.Context, req *params.GetArticleListRequest) *context.Response
	GetArticleListByTopics(c *context.Context, req *params.GetArticleListByTopicsRequest) *context.Response
	SearchArticleList(c *context.Context, req *params.SearchArticleListRequest) *context.Response
	RebuildArticleIndex(c *context.Context) *context.Response
}

type ArticleHandler struct{}

// @route Post /article
func (h *ArticleHandler) CreateArticle(c *context.Context, req *params.CreateArticleRequest) *context.Response {
	if violations := validator.ValidateCreateArticle(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	authorID := c.GetUserID()
	if authorID == 0 {
		return context.Unauthorized("Invalid token")
	}

	result, err := service.ArticleServiceInstance.CreateArticle(c.Context(), authorID, req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Put /article
func (h *ArticleHandler) UpdateArticle(c *context.Context, req *params.UpdateArticleRequest) *context.Response {
	if violations := validator.ValidateUpdateArticle(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	result, err := service.ArticleServiceInstance.UpdateArticle(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrVersionConflict) {
			return context.Conflict(err)
		}
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Delete /article
func (h *ArticleHandler) DeleteArticle(c *context.Context, req *params.DeleteArticleRequest) *context.Response {
	if err := service.ArticleServiceInstance.DeleteArticleBatch(c.Context(), req.IDs); err != nil {
		return context.DatabaseError(err)
	}
	return context.NoContent()
}

// @route Get /article
func (h *ArticleHandler) GetArticle(c *context.Context, req *params.GetArticleRequest) *context.Response {
	result, err := service.ArticleServiceInstance.GetArticle(c.Context(), req.ID, req.Flags)
	if err != nil {
		return context.NotFound(err)
	}
	return context.Success(result)
}

// @route Get /article/list
func (h *ArticleHandler) GetArticleList(c *context.Context, req *params.GetArticleListRequest) *context.Response {
	data, total, err := service.ArticleServiceInstance.GetArticleList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(data, total)
}

// @route Get /article/list/by/topics
func (h *ArticleHandler) GetArticleListByTopics(c *context.Context, req *params.GetArticleListByTopicsRequest) *context.Response {
	data, total, err := service.ArticleServiceInstance.GetArticleListByTopics(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(data, total)
}

// @route Post /search/article/list
// SearchArticleList 全文检索，依赖ES可用
func (h *ArticleHandler) SearchArticleList(c *context.Context, req *params.SearchArticleListRequest) *context.Response {
	data, total, err := service.ArticleServiceInstance.SearchArticleList(c.Context(), req)
	if err != nil {
		return context.SearchError(err)
	}
	return context.PageSuccess(data, total)
}

// @route Post /rebuild/article/index
// RebuildArticleIndex 全量重建索引，管理用途
func (h *ArticleHandler) RebuildArticleIndex(c *context.Context) *context.Response {
	if err := service.ArticleServiceInstance.RebuildSearchIndex(c.Context()); err != nil {
		return context.SearchError(err)
	}
	return context.NoContent()
}
