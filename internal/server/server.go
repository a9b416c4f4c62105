// Package server serves the student portal: gated pages, their container
// streams, candidacy submission and sign-in.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonathan/futurotec/internal/config"
	"github.com/jonathan/futurotec/internal/gate"
	"github.com/jonathan/futurotec/internal/logging"
	"github.com/jonathan/futurotec/internal/portal"
	"github.com/jonathan/futurotec/internal/server/middleware"
	"github.com/jonathan/futurotec/internal/server/ratelimit"
)

// Store is everything the server reads and writes. *db.DB implements it.
type Store interface {
	portal.Store
	DBClient
}

// Config holds server configuration
type Config struct {
	Port        int
	LandingPage string
	DateLayout  string
	RateLimit   *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	log         logging.Logger
	rateLimiter *ratelimit.Limiter
	pages       *pageSet

	gate        *gate.Gate
	listings    *portal.ListingLoader
	candidacies *portal.CandidacyLoader
	submitter   *portal.Submitter

	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance. Routes are registered once here; the
// sign-out handler in particular exists exactly once per server.
func New(cfg Config, store Store, session *config.SessionConfig, passwords *config.PasswordConfig, log logging.Logger) (*Server, error) {
	pages, err := loadPages(cfg.DateLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	resolver := portal.NewResolver(store, log)
	s := &Server{
		log:         log,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		pages:       pages,
		gate:        gate.New(cfg.LandingPage),
		listings:    portal.NewListingLoader(store, resolver, log),
		candidacies: portal.NewCandidacyLoader(store, resolver, log, cfg.DateLayout),
		submitter:   portal.NewSubmitter(store, log),
		jwtService:  NewJWTService(session),
		userService: NewUserService(store, passwords),
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, session.CookieSecure, cfg.LandingPage, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /logout", s.authHandler.Logout)

	validator := s.jwtService.AsTokenValidator()
	requireSession := middleware.AuthMiddleware(validator, config.SessionCookieName)

	mux.Handle("GET /events/jobs", requireSession(http.HandlerFunc(s.handleJobsEvents)))
	mux.HandleFunc("GET /events/my-candidacies", s.handleCandidaciesEvents)
	mux.HandleFunc("POST /jobs/{id}/candidacy", s.handleSubmitCandidacy)

	// Every other GET is a page and goes through the gate
	mux.HandleFunc("GET /", s.handlePage)

	sessions := middleware.Session(validator, config.SessionCookieName)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(sessions(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(context.Background(), "server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info(context.Background(), "shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.log.Info(context.Background(), "server stopped")
	return nil
}

// candidate returns the signed-in candidate of r, or nil.
func candidate(r *http.Request) *portal.Candidate {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return nil
	}
	return &portal.Candidate{ID: id}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logf := s.log.Info
		if r.URL.Path == "/health" {
			logf = s.log.Debug
		}
		logf(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn(context.Background(), "failed to encode JSON response", "err", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(math.Ceil(info.RetryAfter.Seconds()))
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn(r.Context(), "rate limit exceeded",
		"client", s.extractClientID(r), "path", r.URL.Path, "limit", info.Limit)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
