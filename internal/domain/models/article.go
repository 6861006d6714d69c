package models

import "time"

// Article 文章模型
type Article struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	Title      string    `xorm:"varchar(100) notnull 'title'" json:"title"`
	Content    string    `xorm:"longtext notnull 'content'" json:"content"`
	AuthorID   uint64    `xorm:"bigint unsigned notnull index 'author_id'" json:"author_id"`
	Version    int       `xorm:"version 'version'" json:"version"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
	UpdateTime time.Time `xorm:"updated" json:"update_time"`
}

// ArticleTopic 文章主题关联模型
type ArticleTopic struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	ArticleID  uint64    `xorm:"bigint unsigned notnull index 'article_id'" json:"article_id"`
	TopicID    uint64    `xorm:"bigint unsigned notnull index 'topic_id'" json:"topic_id"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
}
