// Package server exposes graphs, graph extraction and relayout over HTTP.
//
// The API is JSON over chi. Errors are returned as
//
//	{"code": "GRAPH_NOT_FOUND", "message": "graph not found"}
//
// with the HTTP status derived from the error code via [errors.HTTPStatus].
// Layout endpoints accept a format parameter; json returns a [graph.Layout],
// dot and svg return the rendered node-link diagram.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kgraph/pkg/graph"
	"github.com/matzehuels/kgraph/pkg/graphgen"
	"github.com/matzehuels/kgraph/pkg/pipeline"
	"github.com/matzehuels/kgraph/pkg/store"
)

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	ShutdownTimeout     = 10 * time.Second
)

// Generator extracts a graph from documents. [graphgen.Generator]
// implements it.
type Generator interface {
	Generate(ctx context.Context, docs []graphgen.Document) (graph.Graph, error)
}

// Config holds the server's dependencies and settings.
type Config struct {
	Store  store.Store
	Runner *pipeline.Runner

	// Generator backs POST /api/graphgen. If nil the endpoint returns
	// UNSUPPORTED.
	Generator Generator

	// Gatherer backs GET /metrics. If nil the endpoint is not mounted.
	Gatherer prometheus.Gatherer

	// Registerer, if set, receives request duration metrics.
	Registerer prometheus.Registerer

	Logger       *log.Logger
	Version      string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	cfg     Config
	logger  *log.Logger
	handler http.Handler
}

// New creates a server. Store and Runner are required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleSample)
		r.Post("/graphgen", s.handleGraphgen)
		r.Post("/layout", s.handleLayout)
		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Post("/", s.handleCreateGraph)
			r.Get("/{id}", s.handleGetGraph)
			r.Delete("/{id}", s.handleDeleteGraph)
			r.Get("/{id}/layout", s.handleStoredLayout)
		})
	})

	if s.cfg.Registerer != nil {
		duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kgraph",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"})
		s.cfg.Registerer.MustRegister(duration)
		return promhttp.InstrumentHandlerDuration(duration, r)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String(), "version", s.cfg.Version)
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestID tags each request with the caller's X-Request-Id or a fresh
// UUID and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
