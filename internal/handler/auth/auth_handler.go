package auth_handler

import (
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/ayxworxfr/go_blog/internal/domain/vo"
	validator "github.com/ayxworxfr/go_blog/internal/domain/validate"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
	"github.com/ayxworxfr/go_blog/pkg/jwtauth"
)

type ILoginHandler interface {
	Login(c *context.Context) *context.Response
	RefreshToken(c *context.Context) *context.Response
	Register(c *context.Context) *context.Response
	LoginOut(c *context.Context) *context.Response
}

type LoginHandler struct{}

// @route POST /login
func (h *LoginHandler) Login(c *context.Context) *context.Response {
	var req params.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		return context.ParamError(err)
	}

	token, err := service.AuthServiceInstance.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return context.Unauthorized(err.Error())
	}

	claims, err := jwtauth.Instance.ParseToken(token.AccessToken)
	if err != nil {
		return context.Unauthorized("Invalid token")
	}
	result := vo.LoginResult{
		TokenResponse: vo.TokenResponse{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.ExpiresAt,
		},
		Status:           "ok",
		Type:             "account",
		CurrentAuthority: claims.Nice,
	}

	return context.Success(result)
}

// @route POST /refresh/token
// RefreshToken 刷新令牌
func (h *LoginHandler) RefreshToken(c *context.Context) *context.Response {
	var req params.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		return context.ParamError(err)
	}

	token, err := service.AuthServiceInstance.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return context.Unauthorized(err.Error())
	}

	return context.Success(token)
}

// @route POST /register
// Register 注册新作者，公开接口
func (h *LoginHandler) Register(c *context.Context) *context.Response {
	var req params.RegisterPersonRequest
	if err := c.BindAndValidate(&req); err != nil {
		return context.ParamError(err)
	}
	if violations := validator.ValidateRegisterPerson(&req); len(violations) > 0 {
		return context.ValidationError(violations)
	}

	result, err := service.AuthServiceInstance.Register(c.Context(), &req)
	if err != nil {
		return context.BusinessError(err)
	}
	return context.Success(result)
}

func (h *LoginHandler) LoginOut(c *context.Context) *context.Response {
	// todo 让token失效
	return context.Success("LoginOut")
}
