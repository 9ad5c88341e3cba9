package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/qcypher/internal/cypher"
	"github.com/roach88/qcypher/internal/qgraph"
	"github.com/roach88/qcypher/internal/store"
)

// MaxBodyBytes bounds the size of a compile request body.
const MaxBodyBytes = 1 << 20

// Server serves compile requests. It is safe for concurrent use.
type Server struct {
	router   chi.Router
	compiler *cypher.Compiler
	store    *store.Store
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCompiler sets the compiler. The default uses the built-in vocabulary.
func WithCompiler(c *cypher.Compiler) Option {
	return func(s *Server) {
		if c != nil {
			s.compiler = c
		}
	}
}

// WithStore records every compile request.
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server with its routes configured.
func New(opts ...Option) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		compiler: cypher.NewDefault(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.observe)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Post("/compile", s.handleCompile)
	s.router.Get("/compilations", s.handleCompilations)
}

// observe logs each request and counts it by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "invalid_request"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}

	mode, err := cypher.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: cypher.ErrorKind(err)})
		return
	}
	opts := req.Options()

	start := time.Now()
	q, err := qgraph.DecodeJSON(req.QueryGraph)
	if err != nil {
		compilationsTotal.WithLabelValues(string(mode), cypher.ErrorKind(err)).Inc()
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: cypher.ErrorKind(err)})
		return
	}
	stmt, cerr := s.compiler.Compile(q, mode, opts)
	compileDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	queryGraphEdges.Observe(float64(len(q.Edges)))

	result := "ok"
	if cerr != nil {
		result = cypher.ErrorKind(cerr)
	}
	compilationsTotal.WithLabelValues(string(mode), result).Inc()

	id, err := s.record(r.Context(), mode, opts, q, stmt, cerr)
	if err != nil {
		s.logger.Error("record compilation failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "record compilation: " + err.Error(), Kind: "store"})
		return
	}

	if cerr != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponse{Error: cerr.Error(), Kind: result, ID: id})
		return
	}

	fingerprint, err := qgraph.Fingerprint(q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: "error"})
		return
	}
	writeJSON(w, http.StatusOK, CompileResponse{
		Cypher:      stmt,
		Mode:        string(mode),
		Fingerprint: fingerprint,
		ID:          id,
	})
}

func (s *Server) record(ctx context.Context, mode cypher.Mode, opts cypher.Options, q *qgraph.QGraph, stmt string, cerr error) (string, error) {
	if s.store == nil {
		return "", nil
	}
	c, err := s.store.Record(ctx, store.Entry{
		Source:  "http",
		Mode:    mode,
		Options: opts,
		QGraph:  q,
		Cypher:  stmt,
		Err:     cerr,
	})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *Server) handleCompilations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: "compilation log disabled", Kind: "not_found"})
		return
	}

	filter := store.ListFilter{
		Fingerprint: r.URL.Query().Get("fingerprint"),
		Source:      r.URL.Query().Get("source"),
		FailedOnly:  r.URL.Query().Get("failed") == "true",
		ErrorKind:   r.URL.Query().Get("kind"),
		Limit:       50,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid limit %q", raw), Kind: "invalid_request"})
			return
		}
		filter.Limit = n
	}

	rows, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list compilations failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: "store"})
		return
	}

	out := make([]CompilationSummary, 0, len(rows))
	for _, c := range rows {
		out = append(out, CompilationSummary{
			ID:          c.ID,
			Fingerprint: c.Fingerprint,
			Source:      c.Source,
			Mode:        string(c.Mode),
			Cypher:      c.Cypher,
			Error:       c.Error,
			Kind:        c.ErrorKind,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, payload ErrorResponse) {
	writeJSON(w, status, payload)
}
