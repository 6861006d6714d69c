package cron

import (
	"context"

	"github.com/ayxworxfr/go_blog/internal/search"
	"github.com/ayxworxfr/go_blog/internal/service"
	"github.com/ayxworxfr/go_blog/pkg/logger"
)

// 全量重建文章索引任务，兜底修复漏同步的文档
func rebuildArticleIndex() {
	ctx := context.Background()
	if !search.Enabled() {
		logger.Debug(ctx, "[TASK] Search disabled, skip index rebuild")
		return
	}

	logger.Info(ctx, "[TASK] Rebuilding article search index...")
	if err := service.ArticleServiceInstance.RebuildSearchIndex(ctx); err != nil {
		logger.Errorf(ctx, "[TASK] Rebuild article index failed: %v", err)
		return
	}
	logger.Info(ctx, "[TASK] Rebuild article index successful")
}
