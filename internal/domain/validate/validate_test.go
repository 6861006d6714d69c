package validator

import (
	"strings"
	"testing"

	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validToken() string {
	return uuid.NewString()
}

func TestValidateCreateArticle(t *testing.T) {
	t.Run("合法请求", func(t *testing.T) {
		req := &params.CreateArticleRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.ArticlePayload{
				Title:   "Hello",
				Content: "World",
			},
		}
		assert.Empty(t, ValidateCreateArticle(req))
	})

	t.Run("非法令牌", func(t *testing.T) {
		req := &params.CreateArticleRequest{
			IdempotencyTokenValue: "not-a-uuid",
			Payload: &params.ArticlePayload{
				Title:   "Hello",
				Content: "World",
			},
		}
		violations := ValidateCreateArticle(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "idempotency_token_value", violations[0].Field)
	})

	t.Run("载荷为空", func(t *testing.T) {
		req := &params.CreateArticleRequest{IdempotencyTokenValue: validToken()}
		violations := ValidateCreateArticle(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "payload", violations[0].Field)
	})

	t.Run("标题为空或全空白", func(t *testing.T) {
		for _, title := range []string{"", "   ", "\t\n"} {
			req := &params.CreateArticleRequest{
				IdempotencyTokenValue: validToken(),
				Payload: &params.ArticlePayload{
					Title:   title,
					Content: "content",
				},
			}
			violations := ValidateCreateArticle(req)
			assert.Len(t, violations, 1)
			assert.Equal(t, "payload.title", violations[0].Field)
		}
	})

	t.Run("标题超长", func(t *testing.T) {
		req := &params.CreateArticleRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.ArticlePayload{
				Title:   strings.Repeat("a", MaxTitleLength+1),
				Content: "content",
			},
		}
		violations := ValidateCreateArticle(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "payload.title", violations[0].Field)
	})

	t.Run("标题达到上限", func(t *testing.T) {
		req := &params.CreateArticleRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.ArticlePayload{
				Title:   strings.Repeat("a", MaxTitleLength),
				Content: "content",
			},
		}
		assert.Empty(t, ValidateCreateArticle(req))
	})

	t.Run("正文超长", func(t *testing.T) {
		req := &params.CreateArticleRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.ArticlePayload{
				Title:   "Hello",
				Content: strings.Repeat("a", MaxContentLength+1),
			},
		}
		violations := ValidateCreateArticle(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "payload.content", violations[0].Field)
	})
}

func TestValidateCreateComment(t *testing.T) {
	t.Run("合法请求", func(t *testing.T) {
		req := &params.CreateCommentRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.CommentPayload{
				ArticleID: 1,
				Content:   "nice post",
			},
		}
		assert.Empty(t, ValidateCreateComment(req))
	})

	t.Run("缺少文章ID", func(t *testing.T) {
		req := &params.CreateCommentRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.CommentPayload{
				Content: "nice post",
			},
		}
		violations := ValidateCreateComment(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "payload.article_id", violations[0].Field)
	})

	t.Run("评论超长", func(t *testing.T) {
		req := &params.CreateCommentRequest{
			IdempotencyTokenValue: validToken(),
			Payload: &params.CommentPayload{
				ArticleID: 1,
				Content:   strings.Repeat("a", MaxCommentLength+1),
			},
		}
		violations := ValidateCreateComment(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "payload.content", violations[0].Field)
	})
}

func TestValidateCreateTopic(t *testing.T) {
	t.Run("合法请求", func(t *testing.T) {
		req := &params.CreateTopicRequest{
			IdempotencyTokenValue: validToken(),
			Name:                  "golang",
		}
		assert.Empty(t, ValidateCreateTopic(req))
	})

	t.Run("名称超长", func(t *testing.T) {
		req := &params.CreateTopicRequest{
			IdempotencyTokenValue: validToken(),
			Name:                  strings.Repeat("a", MaxTopicNameLength+1),
		}
		violations := ValidateCreateTopic(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "name", violations[0].Field)
	})

	t.Run("令牌和名称同时非法", func(t *testing.T) {
		req := &params.CreateTopicRequest{Name: ""}
		violations := ValidateCreateTopic(req)
		assert.Len(t, violations, 2)
	})
}

func TestValidateRegisterPerson(t *testing.T) {
	t.Run("合法请求", func(t *testing.T) {
		req := &params.RegisterPersonRequest{
			Username:     "alice",
			PrimaryEmail: "alice@example.com",
			Password:     "secret123",
		}
		assert.Empty(t, ValidateRegisterPerson(req))
	})

	t.Run("非法邮箱", func(t *testing.T) {
		for _, email := range []string{"not-an-email", "a@", "@b"} {
			req := &params.RegisterPersonRequest{
				Username:     "alice",
				PrimaryEmail: email,
				Password:     "secret123",
			}
			violations := ValidateRegisterPerson(req)
			assert.NotEmpty(t, violations, "email: %s", email)
			assert.Equal(t, "primary_email", violations[0].Field)
		}
	})

	t.Run("邮箱超长", func(t *testing.T) {
		local := strings.Repeat("a", MaxEmailLength)
		req := &params.RegisterPersonRequest{
			Username:     "alice",
			PrimaryEmail: local + "@example.com",
			Password:     "secret123",
		}
		violations := ValidateRegisterPerson(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "primary_email", violations[0].Field)
	})
}

func TestValidateUpdateArticle(t *testing.T) {
	t.Run("版本号为负", func(t *testing.T) {
		req := &params.UpdateArticleRequest{
			ID:      1,
			Version: -1,
			Payload: &params.ArticlePayload{Title: "t", Content: "c"},
		}
		violations := ValidateUpdateArticle(req)
		assert.Len(t, violations, 1)
		assert.Equal(t, "version", violations[0].Field)
	})
}
