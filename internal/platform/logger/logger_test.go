package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			log, err := Setup(level)
			require.NoError(t, err, "level %q", level)
			assert.NotNil(t, log)
		}
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log, err := Setup("shout")
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestContextRoundTrip(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
}

func TestFromContextFallbacks(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()), "empty context yields the default logger")

	var nilCtx context.Context
	assert.NotNil(t, FromContext(nilCtx), "nil context yields the default logger")
}
