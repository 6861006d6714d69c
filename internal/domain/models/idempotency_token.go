package models

import "time"

// 幂等令牌目标类型
const (
	IdempotencyTargetArticle = "ARTICLE"
	IdempotencyTargetComment = "COMMENT"
	IdempotencyTargetTopic   = "TOPIC"
)

// IdempotencyToken 幂等令牌模型，防止创建请求重复提交
// (client_id, token_value) 唯一标识一次创建操作
type IdempotencyToken struct {
	ID         uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	ClientID   uint64    `xorm:"bigint unsigned notnull unique(client_token) 'client_id'" json:"client_id"`
	TokenValue string    `xorm:"varchar(36) notnull unique(client_token) 'token_value'" json:"token_value"`
	TargetType string    `xorm:"varchar(20) notnull 'target_type'" json:"target_type"`
	TargetID   uint64    `xorm:"bigint unsigned notnull 'target_id'" json:"target_id"`
	CreateTime time.Time `xorm:"created" json:"create_time"`
}
