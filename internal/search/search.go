package search

import (
	"context"

	"github.com/ayxworxfr/go_blog/internal/config"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"
)

var Instance *ArticleRepository

// Init 初始化Elasticsearch客户端，未启用时全文检索不可用
func Init(cfg config.ElasticsearchConfig) error {
	if !cfg.Enabled {
		logger.Warn(context.Background(), "Elasticsearch disabled, article search is unavailable")
		return nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return errors.Wrap(err, "create elasticsearch client")
	}

	Instance = NewArticleRepository(client, cfg.Index)
	return nil
}

// Enabled 返回全文检索是否可用
func Enabled() bool {
	return Instance != nil
}
