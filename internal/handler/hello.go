package handler

import (
	"github.com/ayxworxfr/go_blog/pkg/context"
)

func HelloHandler(c *context.Context) *context.Response {
	return context.Success("Hello, World!")
}
