package notify

import "log/slog"

// LogSink presents notifications as structured log records.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Show(title, message string) bool {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "title", title, "message", message)
	return true
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(title, message string) bool

func (f SinkFunc) Show(title, message string) bool { return f(title, message) }
