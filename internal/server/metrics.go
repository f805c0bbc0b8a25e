package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// syncRequests counts pull and push requests by outcome.
	syncRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lingopro_sync_requests_total",
			Help: "Total number of sync requests",
		},
		[]string{"op", "outcome"},
	)

	// syncDuration observes time spent serving sync requests.
	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lingopro_sync_duration_seconds",
			Help:    "Time spent processing sync requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// syncRecords observes how many lesson records a pushed snapshot holds.
	syncRecords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lingopro_sync_push_records",
			Help:    "Number of lesson records per pushed snapshot",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

const (
	opPull = "pull"
	opPush = "push"

	outcomeOK           = "ok"
	outcomeUnauthorized = "unauthorized"
	outcomeBadRequest   = "bad_request"
	outcomeError        = "error"
)
