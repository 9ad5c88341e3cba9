// Package server exposes the compiler over HTTP.
//
// Routes:
//
//	POST /compile       compile a query graph, JSON in and out
//	GET  /compilations  recent recorded compilations (when a store is set)
//	GET  /healthz       liveness
//	GET  /metrics       Prometheus metrics
//
// A compile request names the query graph and, optionally, the mode and
// options:
//
//	{"query_graph": {"nodes": {...}, "edges": {...}},
//	 "mode": "match", "max_connectivity": 50, "skip": 0, "limit": 100}
//
// Malformed requests and query graphs answer 400. Query graphs that decode
// but cannot be compiled answer 422. Error bodies carry the error kind.
package server
