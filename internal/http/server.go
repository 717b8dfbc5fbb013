package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"salestats/internal/core"
	"salestats/internal/log"
	"salestats/internal/middleware/ratelimit"
	"salestats/internal/middleware/security"
	"salestats/internal/middleware/trace"
)

// Reporter computes the sales reports served by the API.
type Reporter interface {
	Statistics(ctx context.Context, year, month int) (core.Statistics, error)
	BarChart(ctx context.Context, period core.Period) (map[string]int, error)
	PieChart(ctx context.Context, period core.Period) (map[string]int, error)
}

type Server struct {
	http.Server
	reports     Reporter
	detector    *security.Detector
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit enables per-client rate limiting. Zero or less disables it.
func WithRateLimit(requestsPerMinute int) Option {
	return func(s *Server) {
		if requestsPerMinute <= 0 {
			return
		}
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: requestsPerMinute,
			CleanupInterval:   5 * time.Minute,
		})
	}
}

// WithDetector replaces the suspicious request detector and client IP resolver.
func WithDetector(d *security.Detector) Option {
	return func(s *Server) {
		if d != nil {
			s.detector = d
		}
	}
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, reports Reporter, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		reports:  reports,
		detector: security.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /statistics/{year}/{month}", s.handleStatistics)
	mux.HandleFunc("GET /barchart/{month}", s.handleBarChart)
	mux.HandleFunc("GET /piechart/{month}", s.handlePieChart)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Same paths without a method answer every other verb
	for _, p := range []string{"/statistics/{year}/{month}", "/barchart/{month}", "/piechart/{month}", "/healthz", "/readyz"} {
		mux.HandleFunc(p, handleMethodNotAllowed)
	}
	mux.HandleFunc("/", handleNotFound)

	var handler http.Handler = mux
	if s.rateLimiter != nil {
		handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(handler)
	}
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.recoverPanics(handler)
	handler = trace.NewMiddleware(logger, s.detector.ExtractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// recoverPanics turns a handler panic into a generic 500 response
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panic recovered",
					"panic", rec,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				writeError(w, http.StatusInternalServerError, msgFetchFailed)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, msgRateLimited)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports whether a report source is wired in
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.reports == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}
