package models

import "time"

// Topic 主题模型
type Topic struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	Name       string    `xorm:"varchar(50) notnull unique 'name'" json:"name"`
	Version    int       `xorm:"version 'version'" json:"version"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
	UpdateTime time.Time `xorm:"updated" json:"update_time"`
}

// Comment 评论模型
type Comment struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	ArticleID  uint64    `xorm:"bigint unsigned notnull index 'article_id'" json:"article_id"`
	AuthorID   uint64    `xorm:"bigint unsigned notnull index 'author_id'" json:"author_id"`
	Content    string    `xorm:"text notnull 'content'" json:"content"`
	Version    int       `xorm:"version 'version'" json:"version"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
	UpdateTime time.Time `xorm:"updated" json:"update_time"`
}
