package auth_handler

import (
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
	"github.com/ayxworxfr/go_blog/pkg/jwtauth"
)

type IPersonHandler interface {
	GetPerson(c *context.Context, req *params.GetPersonRequest) *context.Response
	GetPersonList(c *context.Context, req *params.GetPersonListRequest) *context.Response
	GetPersonCurrent(c *context.Context) *context.Response
}

type PersonHandler struct{}

// @route Get /person
func (h *PersonHandler) GetPerson(c *context.Context, req *params.GetPersonRequest) *context.Response {
	result, err := service.AuthServiceInstance.GetPerson(c.Context(), req.ID)
	if err != nil {
		return context.NotFound(err)
	}
	return context.Success(result)
}

// @route Get /person/list
func (h *PersonHandler) GetPersonList(c *context.Context, req *params.GetPersonListRequest) *context.Response {
	data, total, err := service.AuthServiceInstance.GetPersonList(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(data, total)
}

// @route Get /person/current
// GetPersonCurrent 返回当前登录作者信息
func (h *PersonHandler) GetPersonCurrent(c *context.Context) *context.Response {
	userID, err := jwtauth.Instance.GetUserIDUint64(c.RequestContext)
	if err != nil {
		return context.Unauthorized("Invalid token")
	}
	result, err := service.AuthServiceInstance.GetPerson(c.Context(), userID)
	if err != nil {
		return context.NotFound(err)
	}
	return context.Success(result)
}
