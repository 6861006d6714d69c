package service

import (
	"context"
	"os"
	"testing"

	"github.com/ayxworxfr/go_blog/internal/dao"
	"github.com/ayxworxfr/go_blog/internal/domain/params"
	_ "github.com/ayxworxfr/go_blog/pkg/tests"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := dao.InitRepo(); err != nil {
		os.Exit(1)
	}
	Init()
	os.Exit(m.Run())
}

func clearBlogTables(ctx context.Context) {
	dao.ArticleRepo.Exec(ctx, "DELETE FROM article")
	dao.ArticleRepo.Exec(ctx, "DELETE FROM article_topic")
	dao.ArticleRepo.Exec(ctx, "DELETE FROM comment")
	dao.ArticleRepo.Exec(ctx, "DELETE FROM idempotency_token")
}

// 相同幂等令牌重复创建只落库一次，重放返回首次创建的ID
func TestCreateArticleIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	clearBlogTables(ctx)

	req := &params.CreateArticleRequest{
		IdempotencyTokenValue: NewIdempotencyTokenValue(),
		Payload: &params.ArticlePayload{
			Title:   "idempotent create",
			Content: "same token twice",
		},
	}

	first, err := ArticleServiceInstance.CreateArticle(ctx, 1, req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)
	assert.NotZero(t, first.ID)

	second, err := ArticleServiceInstance.CreateArticle(ctx, 1, req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.ID, second.ID)

	count, err := dao.ArticleRepo.QueryBuilder().
		Eq("title", "idempotent create").
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// 携带过期版本的更新被拒绝，当前版本的更新正常推进
func TestUpdateArticleVersionConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	clearBlogTables(ctx)

	created, err := ArticleServiceInstance.CreateArticle(ctx, 1, &params.CreateArticleRequest{
		IdempotencyTokenValue: NewIdempotencyTokenValue(),
		Payload:               &params.ArticlePayload{Title: "versioned", Content: "v1"},
	})
	require.NoError(t, err)

	current, err := dao.ArticleRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	_, err = ArticleServiceInstance.UpdateArticle(ctx, &params.UpdateArticleRequest{
		ID:      created.ID,
		Version: current.Version,
		Payload: &params.ArticlePayload{Title: "versioned", Content: "v2"},
	})
	require.NoError(t, err)

	latest, err := dao.ArticleRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Greater(t, latest.Version, current.Version)
	assert.Equal(t, "v2", latest.Content)

	// 旧版本再次提交
	_, err = ArticleServiceInstance.UpdateArticle(ctx, &params.UpdateArticleRequest{
		ID:      created.ID,
		Version: current.Version,
		Payload: &params.ArticlePayload{Title: "versioned", Content: "v3"},
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// 内容未被过期请求覆盖
	unchanged, err := dao.ArticleRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", unchanged.Content)
}
