package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGet(t *testing.T) {
	logger1 := Get()
	require.NotNil(t, logger1)

	logger2 := Get()
	assert.Same(t, logger1, logger2)
}

func TestFromCtx(t *testing.T) {
	ctx := WithCtx(context.Background(), Get())
	assert.Same(t, Get(), FromCtx(ctx))

	customLogger := Get().With("custom", "value")
	ctxWithCustomLogger := WithCtx(ctx, customLogger)
	assert.Same(t, customLogger, FromCtx(ctxWithCustomLogger))
}

func TestFromCtxWithoutLogger(t *testing.T) {
	assert.Same(t, Get(), FromCtx(context.Background()))
	assert.NotSame(t, Get(), FromCtx(context.Background(), "key", "value"))
}

func TestWithSameLogger(t *testing.T) {
	ctx := context.Background()
	logger := Get()

	newCtx := WithCtx(ctx, logger)
	assert.Same(t, newCtx, WithCtx(newCtx, logger))
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, Options{Level: zap.InfoLevel, JSON: true})
		l.Infow("hello", "movie_id", 7)
		require.NoError(t, l.Sync())

		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"movie_id":7`)
		assert.Contains(t, buf.String(), `"timestamp"`)
	})

	t.Run("level filters entries", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, Options{Level: zap.WarnLevel})
		l.Info("dropped")
		require.NoError(t, l.Sync())

		assert.Empty(t, buf.String())
	})
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JSON_LOG", "1")
	opts := OptionsFromEnv()
	assert.Equal(t, zap.DebugLevel, opts.Level)
	assert.True(t, opts.JSON)

	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("JSON_LOG", "")
	opts = OptionsFromEnv()
	assert.Equal(t, zap.InfoLevel, opts.Level)
	assert.False(t, opts.JSON)
}
