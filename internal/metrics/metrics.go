// Package metrics defines the prometheus collectors for the API server and
// the ingestion job.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// IngestJob is the pushgateway job name for ingestion runs
const IngestJob = "nps_ingest"

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nps_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nps_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nps_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nps_query_errors_total",
			Help: "Total number of failed store queries",
		},
		[]string{"operation"},
	)

	IngestRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nps_ingest_records_total",
			Help: "Records processed by ingestion, by table and outcome",
		},
		[]string{"table", "outcome"}, // outcome: inserted, skipped
	)
)

// RecordAPIRequest records one served request
func RecordAPIRequest(method, route, status string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records the duration of a store query started at start
func ObserveQuery(operation string, start time.Time, err error) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		QueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordIngest counts n ingestion records for table with the given outcome
func RecordIngest(table, outcome string, n int) {
	if n > 0 {
		IngestRecords.WithLabelValues(table, outcome).Add(float64(n))
	}
}

// PushIngest sends the ingestion counters to the pushgateway at url,
// replacing the metrics previously pushed for IngestJob
func PushIngest(url string) error {
	return push.New(url, IngestJob).Collector(IngestRecords).Push()
}
