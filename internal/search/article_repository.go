package search

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ayxworxfr/go_blog/internal/domain/types"
	"github.com/ayxworxfr/go_blog/pkg/logger"
	"github.com/ayxworxfr/go_blog/pkg/paging"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/ettle/strcase"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ArticleDocument 文章的索引文档
type ArticleDocument struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AuthorID      uint64     `json:"author_id"`
	DatePublished types.Date `json:"date_published"`
}

// ArticleRepository 基于Elasticsearch的文章检索仓储
type ArticleRepository struct {
	client *elasticsearch.Client
	index  string
}

func NewArticleRepository(client *elasticsearch.Client, index string) *ArticleRepository {
	return &ArticleRepository{client: client, index: index}
}

// Index 写入或覆盖一篇文章的索引文档
func (r *ArticleRepository) Index(ctx context.Context, doc *ArticleDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal article document")
	}

	res, err := r.client.Index(r.index, bytes.NewReader(body),
		r.client.Index.WithDocumentID(strconv.FormatUint(doc.ID, 10)),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrapf(err, "index article %d", doc.ID)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Errorf("index article %d: %s", doc.ID, res.String())
	}

	logger.Debug(ctx, "article indexed", zap.Uint64("article_id", doc.ID))
	return nil
}

// Delete 删除一篇文章的索引文档，文档不存在时视为成功
func (r *ArticleRepository) Delete(ctx context.Context, articleID uint64) error {
	res, err := r.client.Delete(r.index, strconv.FormatUint(articleID, 10),
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrapf(err, "delete article document %d", articleID)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return errors.Errorf("delete article document %d: %s", articleID, res.String())
	}
	return nil
}

// Search 按词条检索文章，所有词条都必须命中标题或内容
func (r *ArticleRepository) Search(ctx context.Context, terms []string, page paging.Pageable) ([]ArticleDocument, int64, error) {
	body, err := buildSearchBody(terms, page)
	if err != nil {
		return nil, 0, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "search articles")
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, errors.Errorf("search articles: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ArticleDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, errors.Wrap(err, "decode search response")
	}

	docs := make([]ArticleDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, parsed.Hits.Total.Value, nil
}

// buildSearchBody 构建检索请求体，先按相关度排序，再按调用方的排序条件
// 属性名与SQL侧一致，转为下划线字段名
func buildSearchBody(terms []string, page paging.Pageable) ([]byte, error) {
	must := make([]map[string]any, 0, len(terms))
	for _, term := range terms {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  term,
				"fields": []string{"title", "content"},
			},
		})
	}

	sort := make([]any, 0, len(page.Sort)+1)
	sort = append(sort, "_score")
	for _, order := range page.Sort {
		sort = append(sort, map[string]any{
			strcase.ToSnake(order.Property): map[string]any{"order": strings.ToLower(order.Direction.Value())},
		})
	}

	return json.Marshal(map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"from": page.Offset(),
		"size": page.Limit(),
		"sort": sort,
	})
}
