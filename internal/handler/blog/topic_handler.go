package blog_handler

import (
	"errors"

	"github.com/ayxworxfr/go_blog/internal/domain/params"
	validator "github.com/ayxworxfr/go_blog/internal/domain/validate"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
)

type ITopicHandler interface {
	CreateTopic(c *context.Context, req *params.CreateTopicRequest) *context.Response
	UpdateTopic(c *context.Context, req *params.UpdateTopicRequest) *context.Response
	DeleteTopic(c *context.Context, req *params.DeleteTopicRequest) *context.Response
	GetTopic(c *context.Context, req *params.GetTopicRequest) *context.Response
	GetTopicList(c *context.Context, req *params.GetTopicListRequest) *context.Response
}

type TopicHandler struct{}

// @route Post /topic
func (h *TopicHandler) CreateTopic(c *context.Context, req *params.CreateTopicRequest) *context.Response {
	if violations := validator.ValidateCreateTopic(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	clientID := c.GetUserID()
	if clientID == 0 {
		return context.Unauthorized("Invalid token")
	}

	result, err := service.TopicServiceInstance.CreateTopic(c.Context(), clientID, req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Put /topic
func (h *TopicHandler) UpdateTopic(c *context.Context, req *params.UpdateTopicRequest) *context.Response {
	if violations := validator.ValidateUpdateTopic(req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	result, err := service.TopicServiceInstance.UpdateTopic(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrVersionConflict) {
			return context.Conflict(err)
		}
		return context.BusinessError(err)
	}
	return context.Success(result)
}

// @route Delete /topic
func (h *TopicHandler) DeleteTopic(c *context.Context, req *params.DeleteTopicRequest) *context.Response {
	if err := service.TopicServiceInstance.DeleteTopicBatch(c.Context(), req.IDs); err != nil {
		return context.DatabaseError(err)
	}
	return context.NoContent()
}

// @route Get /topic
func (h *TopicHandler) GetTopic(c *context.Context, req *params.GetTopicRequest) *context.Response {
	result, err := service.TopicServiceInstance.GetTopic(c.Context(), req.ID)
	if err != nil {
		return context.NotFound(err)
	}
	return context.Success(result)
}

// @route Get /topic/list
func (h *TopicHandler) GetTopicList(c *context.Context, req *params.GetTopicListRequest) *context.Response {
	data, total, err := service.TopicServiceInstance.GetTopicList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(data, total)
}
