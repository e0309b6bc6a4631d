package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "everywrite_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "everywrite_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	// NotesOperationsTotal counts committed note writes
	NotesOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "everywrite_notes_operations_total",
			Help: "Total number of note operations",
		},
		[]string{"operation"}, // insert, delete, pin, archive, purge
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "everywrite_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"type", "status"}, // login/register, success/failure
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "everywrite_notifications_total",
			Help: "Notifications by outcome",
		},
		[]string{"outcome"}, // shown, failed, denied, dropped
	)

	LiveSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "everywrite_live_subscriptions",
			Help: "Live note queries currently held by state holders",
		},
	)
)

// TrackNoteOperation increments the notes operation counter
func TrackNoteOperation(operation string) {
	NotesOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackAuthAttempt records authentication attempts
func TrackAuthAttempt(authType string, ok bool) {
	status := "failure"
	if ok {
		status = "success"
	}
	AuthAttempts.WithLabelValues(authType, status).Inc()
}

func TrackNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}
