package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{name: "debug level", level: "debug"},
		{name: "info level", level: "info"},
		{name: "warn level", level: "warn"},
		{name: "error level", level: "error"},
		{name: "case insensitive", level: "DEBUG"},
		{name: "invalid level falls back to info", level: "verbose"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Setup(tc.level)
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.Same(t, log, slog.Default())
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil)).With("trace_id", "abc123")

	ctx := WithLogger(context.Background(), log)
	got := FromContext(ctx)
	require.Same(t, log, got)

	got.Info("hello")
	assert.Contains(t, buf.String(), "abc123")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	assert.Same(t, slog.Default(), got)
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	def := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	assert.Same(t, def, FromContextOrDefault(context.Background(), def))

	inCtx := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), inCtx)
	assert.Same(t, inCtx, FromContextOrDefault(ctx, def))

	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}
