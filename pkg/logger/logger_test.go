package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	old := Instance
	Instance = zap.New(core)
	defer func() { Instance = old }()

	t.Run("携带上下文字段", func(t *testing.T) {
		ctx := WithContext(context.Background(), zap.String("trace_id", "abc123"))
		FromContext(ctx).Info("hello")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Len(t, entries[0].Context, 1)
		assert.Equal(t, "trace_id", entries[0].Context[0].Key)
		assert.Equal(t, "abc123", entries[0].Context[0].String)
	})

	t.Run("空上下文不报错", func(t *testing.T) {
		FromContext(context.Background()).Info("plain")

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Context)
	})
}

func TestWithContextMerge(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	old := Instance
	Instance = zap.New(core)
	defer func() { Instance = old }()

	ctx := WithContext(context.Background(), zap.String("a", "1"))
	ctx = WithContext(ctx, zap.String("b", "2"))
	Info(ctx, "merged")

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Context, 2)
	assert.Equal(t, "a", entries[0].Context[0].Key)
	assert.Equal(t, "b", entries[0].Context[1].Key)
}
