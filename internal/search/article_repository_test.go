package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ayxworxfr/go_blog/pkg/paging"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchBody(t *testing.T) {
	page := paging.Of(2, 10).WithSort(paging.Sort{paging.Desc("datePublished")})

	body, err := buildSearchBody([]string{"golang", "hertz"}, page)
	assert.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(body, &parsed)
	assert.NoError(t, err)

	// 分页换算为from/size
	assert.Equal(t, float64(20), parsed["from"])
	assert.Equal(t, float64(10), parsed["size"])

	// 每个词条一个must子句
	boolQuery := parsed["query"].(map[string]any)["bool"].(map[string]any)
	must := boolQuery["must"].([]any)
	assert.Len(t, must, 2)
	first := must[0].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "golang", first["query"])

	// 相关度在前，调用方排序在后，属性名转为下划线
	sort := parsed["sort"].([]any)
	assert.Len(t, sort, 2)
	assert.Equal(t, "_score", sort[0])
	dateSort := sort[1].(map[string]any)["date_published"].(map[string]any)
	assert.Equal(t, "desc", dateSort["order"])
}

// recordingTransport 记录请求并返回固定响应
type recordingTransport struct {
	lastBody []byte
	response string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		rt.lastBody, _ = io.ReadAll(req.Body)
	}
	header := http.Header{}
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(rt.response)),
	}, nil
}

func TestArticleRepositorySearch(t *testing.T) {
	transport := &recordingTransport{
		response: `{"hits":{"total":{"value":2},"hits":[{"_source":{"id":7,"title":"golang"}},{"_source":{"id":3,"title":"hertz"}}]}}`,
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Transport: transport})
	require.NoError(t, err)
	repo := NewArticleRepository(client, "articles")

	page := paging.Of(0, 20).WithSort(paging.Sort{paging.Desc("datePublished")})
	docs, total, err := repo.Search(context.Background(), []string{"golang"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, docs, 2)
	// 命中顺序与响应一致
	assert.Equal(t, uint64(7), docs[0].ID)
	assert.Equal(t, uint64(3), docs[1].ID)

	// 实际发出的请求体先按相关度、再按发布日期排序
	var sent map[string]any
	require.NoError(t, json.Unmarshal(transport.lastBody, &sent))
	sort := sent["sort"].([]any)
	require.Len(t, sort, 2)
	assert.Equal(t, "_score", sort[0])
	_, hasDate := sort[1].(map[string]any)["date_published"]
	assert.True(t, hasDate)
}

func TestBuildSearchBody_NoTerms(t *testing.T) {
	body, err := buildSearchBody(nil, paging.Of(0, 25))
	assert.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(body, &parsed)
	assert.NoError(t, err)

	boolQuery := parsed["query"].(map[string]any)["bool"].(map[string]any)
	assert.Empty(t, boolQuery["must"])
	assert.Equal(t, float64(0), parsed["from"])
	assert.Equal(t, float64(25), parsed["size"])

	// 无排序条件时只按相关度
	sort := parsed["sort"].([]any)
	assert.Len(t, sort, 1)
	assert.Equal(t, "_score", sort[0])
}
