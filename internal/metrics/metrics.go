// Package metrics holds the Prometheus collectors shared by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimo_analysis_requests_total",
			Help: "Analysis calls by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentimo_analysis_duration_seconds",
			Help:    "Time spent waiting for the model on analysis calls",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"outcome"},
	)

	AnalysisInputTruncated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentimo_analysis_input_truncated_total",
			Help: "Analysis inputs cut at the character bound",
		},
	)

	ContractRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimo_contract_repairs_total",
			Help: "Model values repaired during validation, by field kind",
		},
		[]string{"kind"},
	)

	ChatSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimo_chat_sends_total",
			Help: "Chat sends by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimo_http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentimo_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentimo_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)
)
