// Package http serves the command registry over HTTP: the RPC endpoint networked
// clients call, plus health, readiness, metrics and an SSE event stream.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/observability"
	"github.com/aretw0/hostbridge/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxRequestBytes bounds an RPC request body (10 MB).
const maxRequestBytes = 10 << 20

// Server handles the API routes.
type Server struct {
	dispatcher  ports.Dispatcher
	store       ports.SettingsStore
	bus         ports.EventBus
	metrics     *observability.Metrics
	logger      *slog.Logger
	version     string
	corsEnabled bool
	corsOrigins []string
	started     time.Time
}

// Option configures the server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore sets the store probed by /api/ready.
func WithStore(store ports.SettingsStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithEventBus enables GET /api/events.
func WithEventBus(bus ports.EventBus) Option {
	return func(s *Server) {
		s.bus = bus
	}
}

// WithMetrics records RPC and HTTP metrics and mounts /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVersion sets the version reported by /api/health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithCORS configures cross-origin access. An empty or all-invalid origin list falls
// back to "*".
func WithCORS(enabled bool, origins []string) Option {
	return func(s *Server) {
		s.corsEnabled = enabled
		s.corsOrigins = origins
	}
}

// NewServer creates a server dispatching to d.
func NewServer(d ports.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher:  d,
		logger:      slog.Default(),
		version:     "dev",
		corsEnabled: true,
		corsOrigins: []string{"*"},
		started:     time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for d.
func NewHandler(d ports.Dispatcher, opts ...Option) http.Handler {
	return NewServer(d, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogging)
	r.Use(middleware.Recoverer)
	if s.corsEnabled {
		r.Use(newCORS(s.corsOrigins, s.logger))
	}

	r.Get("/", s.Index)
	r.Route("/api", func(r chi.Router) {
		r.Post("/rpc", s.RPC)
		r.Get("/health", s.Health)
		r.Get("/ready", s.Ready)
		if s.bus != nil {
			r.Get("/events", s.SubscribeEvents)
		}
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// RPC handles POST /api/rpc. Command outcomes are always 200 with the envelope; only an
// unreadable body is a 400.
func (s *Server) RPC(w http.ResponseWriter, r *http.Request) {
	var req domain.Request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.logger.Warn("RPC: Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, domain.Fail(fmt.Sprintf("invalid request body: %v", err)))
		return
	}
	if req.Cmd == "" {
		writeJSON(w, http.StatusBadRequest, domain.Fail("missing cmd"))
		return
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	s.logger.Debug("Processing RPC command", "cmd", req.Cmd)
	start := time.Now()
	result, err := s.dispatcher.Dispatch(r.Context(), req)
	if s.metrics != nil {
		s.metrics.ObserveDispatch(req.Cmd, time.Since(start), err)
	}

	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, domain.ErrUnknownCommand) {
			level = slog.LevelInfo
		}
		s.logger.Log(r.Context(), level, "RPC command failed", "cmd", req.Cmd, "error", err)
		writeJSON(w, http.StatusOK, domain.Fail(err.Error()))
		return
	}
	s.logger.Debug("RPC command succeeded", "cmd", req.Cmd)
	writeJSON(w, http.StatusOK, domain.OK(result))
}

// Health handles GET /api/health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        s.version,
		"uptime_seconds": s.uptime(),
	})
}

// Ready handles GET /api/ready: 503 while the settings store is unreachable.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("Readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"store":  "disconnected",
				"error":  fmt.Sprintf("settings store unreachable: %v", err),
			})
			return
		}
	}
	store := "connected"
	if s.store == nil {
		store = "none"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"store":          store,
		"uptime_seconds": s.uptime(),
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>hostbridge {{.Version}}</title></head>
<body>
<h1>hostbridge API</h1>
<p><code>POST /api/rpc</code> with <code>{"cmd": "...", "args": {...}}</code></p>
<p><code>GET /api/health</code> &middot; <code>GET /api/ready</code>{{if .Events}} &middot; <code>GET /api/events?name=...</code>{{end}}</p>
<h2>Commands</h2>
<ul>
{{range .Commands}}<li><code>{{.Name}}</code>{{if .Description}} - {{.Description}}{{end}}</li>
{{end}}</ul>
</body>
</html>
`))

// Index handles GET / with a page listing the registered commands.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]any{
		"Version":  s.version,
		"Commands": s.dispatcher.Commands(),
		"Events":   s.bus != nil,
	})
	if err != nil {
		s.logger.Error("Index render failed", "error", err)
	}
}

func (s *Server) uptime() int64 {
	return int64(time.Since(s.started).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
