package notify

import (
	"everywrite/metrics"
	"log/slog"
	"sync"
)

// Sink actually presents a notification and reports whether it was shown.
type Sink interface {
	Show(title, message string) bool
}

// Permission reports whether notifications may be shown right now.
// The worker only queries it; granting is someone else's job.
type Permission interface {
	Granted() bool
}

// PermissionFunc adapts a plain function to Permission.
type PermissionFunc func() bool

func (f PermissionFunc) Granted() bool { return f() }

// Notification is one queued message.
type Notification struct {
	Title   string
	Message string
}

// Worker delivers notifications in the background. Notify never blocks:
// when the queue is full the notification is dropped.
type Worker struct {
	sink       Sink
	permission Permission
	logger     *slog.Logger
	queue      chan Notification
	running    bool
	mu         sync.Mutex
	stopChan   chan struct{}
	done       chan struct{}
}

// NewWorker creates a new notification worker with room for queueSize
// pending notifications.
func NewWorker(sink Sink, permission Permission, queueSize int, logger *slog.Logger) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		sink:       sink,
		permission: permission,
		logger:     logger,
		queue:      make(chan Notification, queueSize),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins delivering queued notifications
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("notification worker started")
	go w.run()
}

// Stop delivers whatever is already queued and then stops the worker
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mu.Unlock()

	<-w.done
	w.logger.Info("notification worker stopped")
}

// CanNotify reports whether the permission currently allows notifications.
func (w *Worker) CanNotify() bool {
	return w.permission == nil || w.permission.Granted()
}

// Notify queues a notification. It returns false when notifications are
// not permitted, the worker is stopped, or the queue is full.
func (w *Worker) Notify(title, message string) bool {
	if !w.CanNotify() {
		metrics.TrackNotification("denied")
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		metrics.TrackNotification("dropped")
		return false
	}

	select {
	case w.queue <- Notification{Title: title, Message: message}:
		return true
	default:
		metrics.TrackNotification("dropped")
		w.logger.Debug("notification queue full, dropping", "title", title)
		return false
	}
}

func (w *Worker) run() {
	defer close(w.done)

	for {
		select {
		case n := <-w.queue:
			w.deliver(n)
		case <-w.stopChan:
			for {
				select {
				case n := <-w.queue:
					w.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (w *Worker) deliver(n Notification) {
	defer func() {
		if r := recover(); r != nil {
			metrics.TrackNotification("failed")
			w.logger.Debug("notification sink panicked", "title", n.Title, "panic", r)
		}
	}()

	// Permission may have been revoked while the notification was queued
	if !w.CanNotify() {
		metrics.TrackNotification("denied")
		return
	}

	if w.sink.Show(n.Title, n.Message) {
		metrics.TrackNotification("shown")
		return
	}
	metrics.TrackNotification("failed")
	w.logger.Debug("notification not shown", "title", n.Title)
}
