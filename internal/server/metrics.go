package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	compilationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qcypher_compilations_total",
		Help: "Compile requests by mode and result (ok or error kind)",
	}, []string{"mode", "result"})

	compileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qcypher_compile_duration_seconds",
		Help:    "Time spent decoding and compiling one query graph",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}, []string{"mode"})

	queryGraphEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qcypher_query_graph_edges",
		Help:    "Number of edges in compiled query graphs",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qcypher_http_requests_total",
		Help: "HTTP requests by route pattern and status code",
	}, []string{"route", "code"})
)
