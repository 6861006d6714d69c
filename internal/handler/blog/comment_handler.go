package blog_handler

import (
	"errors"

	"github.com/ayxworxfr/go_blog/internal/domain/params"
	validator "github.com/ayxworxfr/go_blog/internal/domain/validate"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
)

type ICommentHandler interface {
	CreateComment(c *context.Context, req *params.CreateCommentRequest) *context.Response
	UpdateComment(c *context.Context, req *params.UpdateCommentRequest) *context.Response
	DeleteComment(c *context.Context, req *params.DeleteCommentRequest) *context.Response
	GetCommentList(c *context.Context, req *params.GetCommentListRequest) *context.Response
}

type CommentHandler struct{}

// @route Post /comment
func (h *CommentHandler) CreateComment(c *context.Context, req *params.CreateCommentRequest) *context.Response {
	if violations := validator.ValidateCreateComment(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	authorID := c.GetUserID()
	if authorID == 0 {
		return context.Unauthorized("Invalid token")
	}

	result, err := service.CommentServiceInstance.CreateComment(c.Context(), authorID, req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Put /comment
func (h *CommentHandler) UpdateComment(c *context.Context, req *params.UpdateCommentRequest) *context.Response {
	if violations := validator.ValidateUpdateComment(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	result, err := service.CommentServiceInstance.UpdateComment(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrVersionConflict) {
			return context.Conflict(err)
		}
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Delete /comment
func (h *CommentHandler) DeleteComment(c *context.Context, req *params.DeleteCommentRequest) *context.Response {
	if err := service.CommentServiceInstance.DeleteCommentBatch(c.Context(), req.IDs); err != nil {
		return context.DatabaseError(err)
	}
	return context.NoContent()
}

// @route Get /comment/list
func (h *CommentHandler) GetCommentList(c *context.Context, req *params.GetCommentListRequest) *context.Response {
	data, total, err := service.CommentServiceInstance.GetCommentList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(data, total)
}
