package proxmox

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records pipeline outcomes. A nil *Metrics is valid and records
// nothing, so wiring metrics stays optional.
type Metrics struct {
	requests     *prometheus.CounterVec
	requestTime  *prometheus.HistogramVec
	taskWaits    *prometheus.CounterVec
	taskWaitTime *prometheus.HistogramVec
}

// NewMetrics registers the pipeline metrics with reg and returns the sink.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "proxmox_api_requests_total",
			Help: "Proxmox API calls by method and outcome.",
		}, []string{"method", "outcome"}),
		requestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proxmox_api_request_duration_seconds",
			Help:    "End-to-end Proxmox API call duration, including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		taskWaits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "proxmox_task_waits_total",
			Help: "Async task waits by outcome.",
		}, []string{"outcome"}),
		taskWaitTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proxmox_task_wait_duration_seconds",
			Help:    "Time spent waiting for async tasks to finish.",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"outcome"}),
	}
}

// RecordRequest records one completed logical API call.
func (m *Metrics) RecordRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.requestTime.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordTaskWait records one completed task wait.
func (m *Metrics) RecordTaskWait(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.taskWaits.WithLabelValues(outcome).Inc()
	m.taskWaitTime.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
