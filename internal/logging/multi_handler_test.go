package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	minLevel slog.Level
	messages []string
	err      error
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.messages = append(h.messages, record.Message)
	return h.err
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandlerRoutesByLevel(t *testing.T) {
	stdout := &recordingHandler{minLevel: slog.LevelInfo}
	audit := &recordingHandler{minLevel: slog.LevelError}
	m := NewMultiHandler(stdout, audit)

	ctx := context.Background()
	require.NoError(t, m.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "routine", 0)))
	require.NoError(t, m.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "broken", 0)))

	assert.Equal(t, []string{"routine", "broken"}, stdout.messages)
	assert.Equal(t, []string{"broken"}, audit.messages, "the audit sink only sees ERROR and above")
}

func TestMultiHandlerDeliversPastFailingSink(t *testing.T) {
	failing := &recordingHandler{minLevel: slog.LevelInfo, err: errors.New("sink down")}
	healthy := &recordingHandler{minLevel: slog.LevelInfo}
	m := NewMultiHandler(failing, healthy)

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "broken", 0))

	assert.Error(t, err)
	assert.Equal(t, []string{"broken"}, healthy.messages, "one failing sink does not stop the others")
}
