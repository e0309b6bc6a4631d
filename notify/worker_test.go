package notify

import (
	"bytes"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	shown []Notification
}

func (s *recordingSink) Show(title, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, Notification{Title: title, Message: message})
	return true
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shown)
}

func granted(v bool) PermissionFunc {
	return func() bool { return v }
}

func TestWorker_DeliversQueuedNotifications(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, granted(true), 10, nil)
	w.Start()

	assert.True(t, w.Notify("a", "first"))
	assert.True(t, w.Notify("b", "second"))
	w.Stop()

	require.Equal(t, 2, sink.count())
	assert.Equal(t, Notification{Title: "a", Message: "first"}, sink.shown[0])
	assert.Equal(t, Notification{Title: "b", Message: "second"}, sink.shown[1])
}

func TestWorker_DeniedWithoutPermission(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, granted(false), 10, nil)
	w.Start()
	defer w.Stop()

	assert.False(t, w.CanNotify())
	assert.False(t, w.Notify("a", "nope"))
	assert.Zero(t, sink.count())
}

func TestWorker_PermissionRevokedWhileQueued(t *testing.T) {
	var allowed atomic.Bool
	allowed.Store(true)

	sink := &recordingSink{}
	w := NewWorker(sink, PermissionFunc(allowed.Load), 10, nil)

	// Not started yet, so nothing is delivered until Start
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	assert.True(t, w.Notify("a", "queued"))

	allowed.Store(false)
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	w.Start()
	w.Stop()

	assert.Zero(t, sink.count())
}

func TestWorker_NotifyAfterStopIsDropped(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, nil, 10, nil)
	w.Start()
	w.Stop()

	assert.True(t, w.CanNotify())
	assert.False(t, w.Notify("late", "too late"))
	assert.Zero(t, sink.count())
}

func TestWorker_FullQueueDrops(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	blocking := SinkFunc(func(title, message string) bool {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return true
	})

	w := NewWorker(blocking, nil, 1, nil)
	w.Start()

	require.True(t, w.Notify("1", "held by sink"))
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received the first notification")
	}

	require.True(t, w.Notify("2", "fills the queue"))
	assert.False(t, w.Notify("3", "dropped"))

	close(release)
	w.Stop()
}

func TestWorker_SinkPanicIsContained(t *testing.T) {
	var calls atomic.Int32
	sink := SinkFunc(func(title, message string) bool {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return true
	})

	w := NewWorker(sink, nil, 10, nil)
	w.Start()
	assert.True(t, w.Notify("a", "panics"))
	assert.True(t, w.Notify("b", "fine"))
	w.Stop()

	assert.Equal(t, int32(2), calls.Load())
}

func TestWorker_StartStopIdempotent(t *testing.T) {
	w := NewWorker(&recordingSink{}, nil, 1, nil)
	w.Start()
	w.Start()
	w.Stop()
	w.Stop()
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	assert.True(t, sink.Show("📝 Note Added", "saved"))
	assert.Contains(t, buf.String(), "notification")
	assert.Contains(t, buf.String(), "saved")
}
