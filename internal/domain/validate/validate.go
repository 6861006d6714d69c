package validator

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/ayxworxfr/go_blog/internal/domain/params"
	"github.com/google/uuid"
)

// Violation 单条校验失败：字段路径 + 原因
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// 各DTO的文本长度约束
const (
	MaxTitleLength     = 100
	MaxContentLength   = 1_000_000
	MaxCommentLength   = 10_000
	MaxEmailLength     = 50
	MaxTopicNameLength = 50
)

func violation(field, format string, args ...any) Violation {
	return Violation{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// checkText 校验必填文本：非空、非全空白、长度上限
func checkText(field, value string, maxLen int) []Violation {
	if value == "" {
		return []Violation{violation(field, "must not be empty")}
	}
	if strings.TrimSpace(value) == "" {
		return []Violation{violation(field, "must not be blank")}
	}
	if len(value) > maxLen {
		return []Violation{violation(field, "length must be at most %d", maxLen)}
	}
	return nil
}

// checkIdempotencyToken 校验幂等令牌为合法UUID
func checkIdempotencyToken(value string) []Violation {
	if value == "" {
		return []Violation{violation("idempotency_token_value", "must not be empty")}
	}
	if _, err := uuid.Parse(value); err != nil {
		return []Violation{violation("idempotency_token_value", "must be a valid UUID")}
	}
	return nil
}

func checkEmail(field, value string) []Violation {
	if strings.TrimSpace(value) == "" {
		return []Violation{violation(field, "must not be blank")}
	}
	if len(value) > MaxEmailLength {
		return []Violation{violation(field, "length must be at most %d", MaxEmailLength)}
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return []Violation{violation(field, "must be a well-formed email address")}
	}
	return nil
}

// ValidateArticlePayload 校验文章载荷
func ValidateArticlePayload(prefix string, payload *params.ArticlePayload) []Violation {
	if payload == nil {
		return []Violation{violation(prefix, "must not be null")}
	}
	var violations []Violation
	violations = append(violations, prefixed(prefix, checkText("title", payload.Title, MaxTitleLength))...)
	violations = append(violations, prefixed(prefix, checkText("content", payload.Content, MaxContentLength))...)
	return violations
}

// ValidateCreateArticle 校验创建文章请求
func ValidateCreateArticle(req *params.CreateArticleRequest) []Violation {
	var violations []Violation
	violations = append(violations, checkIdempotencyToken(req.IdempotencyTokenValue)...)
	violations = append(violations, ValidateArticlePayload("payload", req.Payload)...)
	return violations
}

// ValidateUpdateArticle 校验更新文章请求
func ValidateUpdateArticle(req *params.UpdateArticleRequest) []Violation {
	var violations []Violation
	if req.Version < 0 {
		violations = append(violations, violation("version", "must not be negative"))
	}
	violations = append(violations, ValidateArticlePayload("payload", req.Payload)...)
	return violations
}

// ValidateCreateComment 校验创建评论请求
func ValidateCreateComment(req *params.CreateCommentRequest) []Violation {
	var violations []Violation
	violations = append(violations, checkIdempotencyToken(req.IdempotencyTokenValue)...)
	if req.Payload == nil {
		return append(violations, violation("payload", "must not be null"))
	}
	if req.Payload.ArticleID == 0 {
		violations = append(violations, violation("payload.article_id", "must be positive"))
	}
	violations = append(violations, prefixed("payload", checkText("content", req.Payload.Content, MaxCommentLength))...)
	return violations
}

// ValidateUpdateComment 校验更新评论请求
func ValidateUpdateComment(req *params.UpdateCommentRequest) []Violation {
	return checkText("content", req.Content, MaxCommentLength)
}

// ValidateCreateTopic 校验创建主题请求
func ValidateCreateTopic(req *params.CreateTopicRequest) []Violation {
	var violations []Violation
	violations = append(violations, checkIdempotencyToken(req.IdempotencyTokenValue)...)
	violations = append(violations, checkText("name", req.Name, MaxTopicNameLength)...)
	return violations
}

// ValidateUpdateTopic 校验更新主题请求
func ValidateUpdateTopic(req *params.UpdateTopicRequest) []Violation {
	return checkText("name", req.Name, MaxTopicNameLength)
}

// ValidateRegisterPerson 校验注册请求
func ValidateRegisterPerson(req *params.RegisterPersonRequest) []Violation {
	var violations []Violation
	violations = append(violations, checkText("username", req.Username, 50)...)
	violations = append(violations, checkEmail("primary_email", req.PrimaryEmail)...)
	return violations
}

func prefixed(prefix string, violations []Violation) []Violation {
	if prefix == "" {
		return violations
	}
	result := make([]Violation, 0, len(violations))
	for _, v := range violations {
		result = append(result, Violation{Field: prefix + "." + v.Field, Reason: v.Reason})
	}
	return result
}
