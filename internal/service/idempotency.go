package service

import (
	"context"

	"github.com/NebulousLabs/fastrand"
	"github.com/ayxworxfr/go_blog/internal/dao"
	"github.com/ayxworxfr/go_blog/internal/domain/models"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/ayxworxfr/go_blog/pkg/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewIdempotencyTokenValue 生成一个随机的幂等令牌（UUID v4格式）
func NewIdempotencyTokenValue() string {
	b := fastrand.Bytes(16)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// findIdempotencyToken 查找客户端已使用过的幂等令牌，不存在时返回nil
func findIdempotencyToken(ctx context.Context, clientID uint64, tokenValue, targetType string) (*models.IdempotencyToken, error) {
	tokens, err := dao.IdempotencyTokenRepo.QueryBuilder().
		Eq("client_id", clientID).
		Eq("token_value", tokenValue).
		Eq("target_type", targetType).
		Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query idempotency token")
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return &tokens[0], nil
}

// claimIdempotencyToken 在事务内登记幂等令牌，与目标记录的创建保持原子性
func claimIdempotencyToken(txCtx context.Context, repo repository.Repository[models.IdempotencyToken], clientID uint64, tokenValue, targetType string, targetID uint64) error {
	token := &models.IdempotencyToken{
		ClientID:   clientID,
		TokenValue: tokenValue,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if err := repo.Create(txCtx, token); err != nil {
		logger.Warn(txCtx, "Failed to claim idempotency token",
			zap.Error(err), zap.Uint64("client_id", clientID), zap.String("token", tokenValue))
		return errors.Wrap(err, "failed to claim idempotency token")
	}
	return nil
}
