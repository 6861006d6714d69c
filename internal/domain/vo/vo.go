package vo

import "time"

// Article 文章视图对象
type Article struct {
	ID         uint64     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorID   uint64     `json:"author_id"`
	Author     *Person    `json:"author,omitempty"`
	Version    int        `json:"version"`
	Topics     []*Topic   `json:"topics,omitempty"`
	Comments   []*Comment `json:"comments,omitempty"`
	CreateTime time.Time  `json:"create_time"`
	UpdateTime time.Time  `json:"update_time"`
}

// Topic 主题视图对象
type Topic struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Version    int       `json:"version"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// Comment 评论视图对象
type Comment struct {
	ID         uint64    `json:"id"`
	ArticleID  uint64    `json:"article_id"`
	AuthorID   uint64    `json:"author_id"`
	Content    string    `json:"content"`
	Version    int       `json:"version"`
	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`
}

// Person 作者视图对象（不包含密码）
type Person struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	PrimaryEmail  string    `json:"primary_email"`
	Status        int       `json:"status"`
	CreateTime    time.Time `json:"create_time"`
	UpdateTime    time.Time `json:"update_time"`
	LastLoginTime time.Time `json:"last_login_time"`
}

// CreateResult 创建结果，幂等重放时返回已存在的记录ID
type CreateResult struct {
	ID       uint64 `json:"id"`
	Replayed bool   `json:"replayed"`
}
