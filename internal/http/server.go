// Package http exposes the JSON API consumed by the app frontend.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"budgetbook/internal/cache"
	"budgetbook/internal/log"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/middleware/security"
	"budgetbook/internal/middleware/trace"
	"budgetbook/internal/reconcile"
	"budgetbook/internal/session"
	"budgetbook/internal/store"
)

// Options configures the server.
type Options struct {
	Addr           string
	ReportCacheTTL time.Duration
	ReportCacheMax int
	RateLimit      ratelimit.Config
}

// Server wires the HTTP surface: routing, middleware, report caching and
// graceful shutdown.
type Server struct {
	http.Server

	logger   *log.Logger
	rec      *reconcile.Reconciler
	sess     *session.Session
	st       store.Store
	validate *validator.Validate

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// reportCache holds marshaled report payloads; every write path purges it.
	reportCache *cache.LRU[json.RawMessage]
	janitor     *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, rec *reconcile.Reconciler, sess *session.Session, st store.Store, logger *log.Logger) *Server {
	if opts.ReportCacheMax <= 0 {
		opts.ReportCacheMax = 128
	}
	if opts.ReportCacheTTL <= 0 {
		opts.ReportCacheTTL = 5 * time.Minute
	}

	s := &Server{
		logger:      logger.WithComponent(log.ComponentHTTP),
		rec:         rec,
		sess:        sess,
		st:          st,
		validate:    validator.New(),
		limiter:     ratelimit.NewLimiter(opts.RateLimit),
		reportCache: cache.NewLRU[json.RawMessage](opts.ReportCacheMax, opts.ReportCacheTTL),
		janitor:     cache.NewJanitor(),
	}
	s.tracer = trace.NewMiddleware(logger, clientIP)
	s.janitor.Register(s.reportCache)
	s.janitor.Start(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /statusz", s.handleStatus)

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/logout", s.authed(s.handleLogout))
	mux.HandleFunc("GET /api/auth/me", s.authed(s.handleMe))
	mux.HandleFunc("POST /api/sheets/connect", s.authed(s.handleConnectSheets))

	mux.HandleFunc("GET /api/dashboard", s.authed(s.handleDashboard))
	mux.HandleFunc("GET /api/transactions", s.authed(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.authed(s.handleAddTransaction))
	mux.HandleFunc("GET /api/budget", s.authed(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budget", s.authed(s.handleSetBudget))
	mux.HandleFunc("GET /api/reports/breakdown", s.authed(s.handleBreakdown))
	mux.HandleFunc("GET /api/reports/trend", s.authed(s.handleTrend))
	mux.HandleFunc("GET /api/preferences", s.authed(s.handleGetPreferences))
	mux.HandleFunc("PUT /api/preferences", s.authed(s.handleSetPreferences))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(clientIP, s.handleRateLimited)
	handler := headers.Middleware(s.tracer.Middleware(limited(mux)))

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown stops the background loops and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// authed requires a valid bearer token issued by the session.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "missing_token", "authorization required")
			return
		}
		if _, err := s.sess.VerifyToken(token); err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "invalid_token", "session token rejected")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	s.writeError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Readiness only needs the local store; the remote sheet is optional.
	if _, _, err := s.st.Get(r.Context(), store.KeyLastSync); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "store_unavailable", "local storage unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleStatus reports process-level counters for operators.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	s.writeJSON(w, http.StatusOK, struct {
		TotalRequests    int64 `json:"total_requests"`
		LastRequestMS    int64 `json:"last_request_ms"`
		RateLimitClients int   `json:"rate_limit_clients"`
		ReportCacheSize  int   `json:"report_cache_size"`
	}{m.TotalRequests, m.LastMillis, s.limiter.ActiveClients(), s.reportCache.Size()})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			return strings.TrimSpace(ip[:i])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
