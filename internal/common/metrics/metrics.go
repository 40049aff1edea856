// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SMSSendsAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_sends_attempted_total",
			Help: "Total number of SMS dispatch attempts",
		},
		[]string{"backend"},
	)

	SMSSendsSucceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_sends_succeeded_total",
			Help: "Total number of SMS dispatches accepted by the backend",
		},
		[]string{"backend"},
	)

	SMSSendsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_sends_failed_total",
			Help: "Total number of failed SMS dispatches",
		},
		[]string{"backend", "error_code"},
	)

	SMSSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "sms_send_duration_seconds",
			Help: "Duration of one dispatch round trip in seconds",
		},
		[]string{"backend"},
	)
)
