package blog_handler

import (
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/context"
)

type ITokenHandler interface {
	CreateIdempotencyToken(c *context.Context) *context.Response
}

type TokenHandler struct{}

// @route Post /idempotency/token
// CreateIdempotencyToken 发放幂等令牌，客户端重试创建请求时复用同一令牌
func (h *TokenHandler) CreateIdempotencyToken(c *context.Context) *context.Response {
	return context.Success(map[string]string{
		"token_value": service.NewIdempotencyTokenValue(),
	})
}
