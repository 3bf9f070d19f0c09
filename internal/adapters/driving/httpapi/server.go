package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
	"github.com/custodia-labs/pagesearch/internal/logger"
)

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// RequestIDHeader carries the request id on responses.
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP search endpoint.
type Server struct {
	search  driving.SearchService
	metrics *Metrics
	handler http.Handler
}

// Option configures a Server.
type Option func(*options)

type options struct {
	mounts []mount
}

type mount struct {
	pattern string
	handler http.Handler
}

// WithMount serves handler under pattern next to the search endpoints,
// for example the MCP streamable transport on "/mcp".
func WithMount(pattern string, handler http.Handler) Option {
	return func(o *options) {
		o.mounts = append(o.mounts, mount{pattern: pattern, handler: handler})
	}
}

// NewServer creates a server answering with search.
func NewServer(search driving.SearchService, opts ...Option) (*Server, error) {
	if search == nil {
		return nil, errors.New("search service is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		search:  search,
		metrics: NewMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	for _, m := range o.mounts {
		mux.Handle(m.pattern, m.handler)
		logger.Debug("Mounted %s", m.pattern)
	}

	s.handler = requestID(s.metrics.Middleware(mux))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("HTTP server listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		s.metrics.SearchesTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	envelope, err := s.search.Search(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		s.metrics.SearchesTotal.WithLabelValues("no_index").Inc()
		writeError(w, http.StatusServiceUnavailable, "index not built")
		return
	case errors.Is(err, domain.ErrInvalidInput):
		s.metrics.SearchesTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Error("Search %q failed: %v", req.Query, err)
		s.metrics.SearchesTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	outcome := "hit"
	if envelope.NumberOfHits == 0 {
		outcome = "zero_result"
	}
	s.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	s.metrics.SearchHits.Observe(float64(envelope.NumberOfHits))

	indent := ""
	if req.JSON {
		indent = "    "
	}
	writeJSON(w, http.StatusOK, envelope, indent)
}

// parseRequest overlays the query parameters on the configured defaults.
func (s *Server) parseRequest(r *http.Request) (domain.QueryRequest, error) {
	q := r.URL.Query()
	req := s.search.Defaults().WithOverrides(q.Get("langs"), domain.SearchType(q.Get("search_type")))
	req.Query = q.Get("q")

	if !req.SearchType.IsValid() {
		return req, fmt.Errorf("unknown search_type %q", req.SearchType)
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return req, errors.New("limit must be a positive integer")
		}
		req.Limit = limit
	}
	if v := q.Get("fuzzy"); v != "" {
		fuzzy, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.New("fuzzy must be a boolean")
		}
		req.Fuzzy = fuzzy
	}
	req.JSON = q.Get("json") == "1"
	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}

// requestID tags every response with a request id, reusing the caller's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any, indent string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(data); err != nil {
		logger.Warn("Write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message}, "")
}
