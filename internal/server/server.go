// Package server provides the HTTP API for jobfiltr: batch analysis and scoring,
// filter settings, the reported-company registry and community reports.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/config"
	"github.com/jonathan/jobfiltr/internal/db"
	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/scoring"
	"github.com/jonathan/jobfiltr/internal/server/middleware"
	"github.com/jonathan/jobfiltr/internal/server/ratelimit"
)

// maxBodyBytes bounds request bodies; posting batches are the largest.
const maxBodyBytes = 5 << 20

// Reporter stores community reports. *db.DB implements it.
type Reporter interface {
	ReportCompany(ctx context.Context, report db.Report) (*db.ReportRecord, error)
}

// Invalidator drops a cached blocklist so the next read sees new reports.
type Invalidator interface {
	Invalidate()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	engine      *engine.FilterEngine
	scorer      *scoring.Scorer
	matcher     *companies.Matcher
	reports     Reporter
	blocklist   Invalidator
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	workers     int
}

// Config holds server configuration
type Config struct {
	Port    int
	Engine  *engine.FilterEngine
	Scorer  *scoring.Scorer
	Matcher *companies.Matcher // nil uses the built-in registry
	Reports Reporter           // nil disables POST /reports
	// Blocklist is invalidated after each accepted report.
	Blocklist Invalidator
	// JWT guards the settings routes; nil leaves them open.
	JWT       *config.JWTConfig
	RateLimit *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
	Workers   int
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server requires a filter engine")
	}
	if cfg.Scorer == nil {
		return nil, fmt.Errorf("server requires a scorer")
	}

	s := &Server{
		engine:    cfg.Engine,
		scorer:    cfg.Scorer,
		matcher:   cfg.Matcher,
		reports:   cfg.Reports,
		blocklist: cfg.Blocklist,
		workers:   cfg.Workers,
	}
	if s.matcher == nil {
		s.matcher = companies.NewDefaultMatcher()
	}
	if s.workers < 1 {
		s.workers = 1
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	} else {
		log.Printf("[server] JWT_SECRET not set; settings routes are unauthenticated")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Batch analysis
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("GET /scores/{id}", s.handleGetScore)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /refresh", s.handleRefresh)

	// Settings
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("GET /settings/{list}", s.handleGetList)
	mux.Handle("POST /settings/{list}", s.protect(s.handleAddToList))
	mux.Handle("DELETE /settings/{list}", s.protect(s.handleRemoveFromList))
	mux.Handle("PUT /settings/match-mode", s.protect(s.handleSetMatchMode))

	// Reported companies
	mux.HandleFunc("GET /reported", s.handleReported)
	mux.HandleFunc("GET /reported/stats", s.handleReportedStats)
	mux.HandleFunc("POST /reports", s.handleCreateReport)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled or the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// protect requires a bearer token when JWT is configured and applies the token's
// pro claim to the engine before the handler runs.
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	withTier := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := middleware.GetPrincipal(r)
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if err := s.engine.SetPro(r.Context(), principal.IsPro()); err != nil {
			log.Printf("[server] failed to apply pro claim for %s: %v", principal.GetUserID(), err)
			s.errorResponse(w, http.StatusInternalServerError, "failed to apply subscription tier")
			return
		}
		h(w, r)
	})
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(withTier)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFor writes err with the status HTTPStatus picks. Server errors are logged
// and their detail withheld.
func (s *Server) errorFor(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID uses the IP from RemoteAddr. X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
