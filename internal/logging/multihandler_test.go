package logging

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test errors
var (
	errHandler1 = errors.New("handler1 error")
	errHandler2 = errors.New("handler2 error")
)

// recordingHandler counts records and remembers the attrs and groups it was
// derived with.
type recordingHandler struct {
	mu          sync.Mutex
	enabled     bool
	count       int
	attrs       []slog.Attr
	groups      []string
	handleError error
}

func newRecordingHandler(enabled bool) *recordingHandler {
	return &recordingHandler{enabled: enabled}
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool {
	return h.enabled
}

func (h *recordingHandler) Handle(context.Context, slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handleError != nil {
		return h.handleError
	}
	h.count++
	return nil
}

func (h *recordingHandler) derive(attrs []slog.Attr, group string) *recordingHandler {
	d := &recordingHandler{
		enabled:     h.enabled,
		attrs:       append(slices.Clone(h.attrs), attrs...),
		groups:      slices.Clone(h.groups),
		handleError: h.handleError,
	}
	if group != "" {
		d.groups = append(d.groups, group)
	}
	return d
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(attrs, "")
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return h.derive(nil, name)
}

func (h *recordingHandler) getRecordCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func newMulti(t *testing.T, handlers ...slog.Handler) *MultiHandler {
	t.Helper()
	multi, err := NewMultiHandler(handlers...)
	require.NoError(t, err)
	return multi
}

func TestNewMultiHandler(t *testing.T) {
	t.Run("skips nil handlers", func(t *testing.T) {
		multi := newMulti(t, newRecordingHandler(true), nil, newRecordingHandler(false))
		assert.Len(t, multi.Handlers(), 2)
	})

	t.Run("requires a handler", func(t *testing.T) {
		_, err := NewMultiHandler()
		assert.ErrorIs(t, err, ErrNoHandlers)

		_, err = NewMultiHandler(nil, nil)
		assert.ErrorIs(t, err, ErrNoHandlers)
	})
}

func TestMultiHandler_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		handlers []slog.Handler
		expected bool
	}{
		{
			name:     "at least one handler enabled",
			handlers: []slog.Handler{newRecordingHandler(false), newRecordingHandler(true)},
			expected: true,
		},
		{
			name:     "no handlers enabled",
			handlers: []slog.Handler{newRecordingHandler(false), newRecordingHandler(false)},
			expected: false,
		},
		{
			name:     "all handlers enabled",
			handlers: []slog.Handler{newRecordingHandler(true), newRecordingHandler(true)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multi := newMulti(t, tt.handlers...)
			assert.Equal(t, tt.expected, multi.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}

func TestMultiHandler_Handle(t *testing.T) {
	handler1 := newRecordingHandler(true)
	handler2 := newRecordingHandler(true)
	handler3 := newRecordingHandler(false)

	multi := newMulti(t, handler1, handler2, handler3)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "Executing suite", 0)
	require.NoError(t, multi.Handle(context.Background(), record))

	assert.Equal(t, 1, handler1.getRecordCount())
	assert.Equal(t, 1, handler2.getRecordCount())
	assert.Equal(t, 0, handler3.getRecordCount(), "disabled handler must not receive records")
}

func TestMultiHandler_HandleWithErrors(t *testing.T) {
	handler1 := newRecordingHandler(true)
	handler1.handleError = errHandler1
	handler2 := newRecordingHandler(true)
	handler2.handleError = errHandler2
	healthy := newRecordingHandler(true)

	multi := newMulti(t, handler1, handler2, healthy)

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "Case timed out", 0)
	err := multi.Handle(context.Background(), record)

	require.Error(t, err)
	assert.ErrorIs(t, err, errHandler1)
	assert.ErrorIs(t, err, errHandler2)
	assert.Equal(t, 1, healthy.getRecordCount())
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	multi := newMulti(t, newRecordingHandler(true), newRecordingHandler(true))

	withAttrs := multi.WithAttrs([]slog.Attr{slog.String("run_id", "01ABC")})
	assert.NotSame(t, multi, withAttrs)
	require.IsType(t, &MultiHandler{}, withAttrs)
	for _, h := range withAttrs.(*MultiHandler).Handlers() {
		assert.Equal(t, []slog.Attr{slog.String("run_id", "01ABC")}, h.(*recordingHandler).attrs)
	}

	withGroup := multi.WithGroup("suite")
	require.IsType(t, &MultiHandler{}, withGroup)
	for _, h := range withGroup.(*MultiHandler).Handlers() {
		assert.Equal(t, []string{"suite"}, h.(*recordingHandler).groups)
	}
}

func TestMultiHandler_ConcurrentHandle(t *testing.T) {
	handler := newRecordingHandler(true)
	multi := newMulti(t, handler)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
			_ = multi.Handle(context.Background(), record)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, handler.getRecordCount())
}
