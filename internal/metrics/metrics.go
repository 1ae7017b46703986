// Package metrics exposes Prometheus collectors for store operations and the
// chat pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

var (
	// Operations counts façade calls. Labels: variant, op, result (ok or the error kind).
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetdesk_operations_total",
			Help: "Total number of record operations",
		},
		[]string{"variant", "op", "result"},
	)

	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetdesk_operation_duration_seconds",
			Help:    "Record operation latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"variant", "op"},
	)

	StoredRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetdesk_stored_records",
			Help: "Number of records after the last successful write",
		},
		[]string{"variant"},
	)

	// DownstreamCalls counts chat downstream attempts. Labels: downstream (embed/generate), result.
	DownstreamCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetdesk_downstream_calls_total",
			Help: "Total number of calls to embedding and generation services",
		},
		[]string{"downstream", "result"},
	)

	IndexRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetdesk_chat_index_rebuilds_total",
			Help: "Number of times the chat index was rebuilt",
		},
	)
)

// ObserveOperation records one façade call.
func ObserveOperation(variant models.Variant, op string, start time.Time, err error) {
	OperationLatency.WithLabelValues(string(variant), op).Observe(time.Since(start).Seconds())
	Operations.WithLabelValues(string(variant), op, Result(err)).Inc()
}

// Result labels err: "ok", its *models.Error kind, or "error".
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := models.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
