package params

import "github.com/ayxworxfr/go_blog/pkg/paging"

// ---------------------- 文章管理模块 ----------------------

// ArticlePayload 文章内容载荷
type ArticlePayload struct {
	Title    string   `json:"title" vd:"len($)>0&&len($)<=100"`
	Content  string   `json:"content" vd:"len($)>0&&len($)<=1000000"`
	TopicIDs []uint64 `json:"topic_ids"`
}

// CreateArticleRequest 创建文章请求（携带幂等令牌）
type CreateArticleRequest struct {
	IdempotencyTokenValue string          `json:"idempotency_token_value" vd:"len($)>0"`
	Payload               *ArticlePayload `json:"payload"`
}

// UpdateArticleRequest 更新文章请求（乐观锁版本校验）
type UpdateArticleRequest struct {
	ID      uint64          `json:"id" vd:"$>0"`
	Version int             `json:"version" vd:"$>=0"`
	Payload *ArticlePayload `json:"payload"`
}

// DeleteArticleRequest 删除文章请求
type DeleteArticleRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetArticleRequest 获取文章请求
type GetArticleRequest struct {
	ID    uint64 `query:"id" vd:"$>0"`
	Flags int    `query:"flags"` // 控制响应内容
}

// GetArticleListRequest 获取文章列表请求
type GetArticleListRequest struct {
	paging.RequestedPage
	Title    string `query:"title" vd:"len($)>=0&&len($)<=100" xorm:"title op=like"`
	AuthorID uint64 `query:"author_id" xorm:"author_id op=eq"`
	Flags    int    `query:"flags"`
}

// GetArticleListByTopicsRequest 按主题获取文章列表请求
type GetArticleListByTopicsRequest struct {
	paging.RequestedPage
	TopicNames []string `query:"topic" vd:"len($)>0"`
	Flags      int      `query:"flags"`
}

// SearchArticleListRequest 全文检索文章请求
type SearchArticleListRequest struct {
	paging.RequestedPage
	Terms string `query:"terms" vd:"len($)>0"`
	Flags int    `query:"flags"`
}

// ---------------------- 主题管理模块 ----------------------

// CreateTopicRequest 创建主题请求
type CreateTopicRequest struct {
	IdempotencyTokenValue string `json:"idempotency_token_value" vd:"len($)>0"`
	Name                  string `json:"name" vd:"len($)>0&&len($)<=50"`
}

// UpdateTopicRequest 更新主题请求
type UpdateTopicRequest struct {
	ID      uint64 `json:"id" vd:"$>0"`
	Version int    `json:"version" vd:"$>=0"`
	Name    string `json:"name" vd:"len($)>0&&len($)<=50"`
}

// DeleteTopicRequest 删除主题请求
type DeleteTopicRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetTopicRequest 获取主题请求
type GetTopicRequest struct {
	ID uint64 `query:"id" vd:"$>0"`
}

// GetTopicListRequest 获取主题列表请求
type GetTopicListRequest struct {
	paging.RequestedPage
	Name string `query:"name" vd:"len($)>=0&&len($)<=50" xorm:"name op=like"`
}

// ---------------------- 评论管理模块 ----------------------

// CommentPayload 评论内容载荷
type CommentPayload struct {
	ArticleID uint64 `json:"article_id" vd:"$>0"`
	Content   string `json:"content" vd:"len($)>0&&len($)<=10000"`
}

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	IdempotencyTokenValue string          `json:"idempotency_token_value" vd:"len($)>0"`
	Payload               *CommentPayload `json:"payload"`
}

// UpdateCommentRequest 更新评论请求
type UpdateCommentRequest struct {
	ID      uint64 `json:"id" vd:"$>0"`
	Version int    `json:"version" vd:"$>=0"`
	Content string `json:"content" vd:"len($)>0&&len($)<=10000"`
}

// DeleteCommentRequest 删除评论请求
type DeleteCommentRequest struct {
	IDs []uint64 `json:"ids" vd:"len($)>0"`
}

// GetCommentListRequest 按文章获取评论列表请求
type GetCommentListRequest struct {
	paging.RequestedPage
	ArticleID uint64 `query:"article_id" vd:"$>0" xorm:"article_id op=eq"`
}

// ---------------------- 作者管理模块 ----------------------

// RegisterPersonRequest 注册请求
type RegisterPersonRequest struct {
	Username     string `json:"username" vd:"len($)>0&&len($)<50"`
	PrimaryEmail string `json:"primary_email" vd:"len($)>0&&len($)<=50"`
	Password     string `json:"password" vd:"len($)>=6&&len($)<20"`
}

// GetPersonRequest 获取作者请求
type GetPersonRequest struct {
	ID uint64 `query:"id" vd:"$>0"`
}

// GetPersonListRequest 获取作者列表请求
type GetPersonListRequest struct {
	paging.RequestedPage
	Username     string `query:"username" vd:"len($)>=0&&len($)<50" xorm:"username op=like"`
	PrimaryEmail string `query:"primary_email" vd:"len($)>=0&&len($)<=50" xorm:"primary_email op=like"`
	Status       int    `query:"status" xorm:"status op=eq"`
}
