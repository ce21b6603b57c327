package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wallet-bridge/wallet-bridge/internal/config"
	"github.com/wallet-bridge/wallet-bridge/internal/logger"
	"github.com/wallet-bridge/wallet-bridge/internal/metrics"
	"github.com/wallet-bridge/wallet-bridge/internal/middleware"
	apperrors "github.com/wallet-bridge/wallet-bridge/pkg/errors"
)

// Server represents the HTTP server
type Server struct {
	config        *config.Config
	bridgeService BridgeService
	sessionAuth   *middleware.SessionAuth
	rateLimiter   *middleware.RateLimiter
	httpServer    *http.Server
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	bridgeService BridgeService,
	sessionAuth *middleware.SessionAuth,
	rateLimiter *middleware.RateLimiter,
) *Server {
	return &Server{
		config:        cfg,
		bridgeService: bridgeService,
		sessionAuth:   sessionAuth,
		rateLimiter:   rateLimiter,
	}
}

// Handler builds the full middleware and routing chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Unauthenticated endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	// CreateUser takes the subject in the request body; the session
	// endpoints resolve it from the credential instead.
	mux.Handle("/v1/users", http.HandlerFunc(s.handleUsers))

	mux.Handle("/v1/wallet/sign-message",
		s.sessionAuth.Authenticate(http.HandlerFunc(s.handleSignMessage)))

	mux.Handle("/v1/wallet/send-transaction",
		s.sessionAuth.Authenticate(http.HandlerFunc(s.handleSendTransaction)))

	// Chain: RequestID -> Logging/metrics -> RateLimit -> BodyLimit -> Routes
	return middleware.RequestID(
		s.loggingMiddleware(
			s.rateLimiter.Limit(
				middleware.LimitBody(mux))))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info(context.Background(), "starting server", "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware logs each request and records its metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := middleware.NewStatusRecorder(w)

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, r.URL.Path, recorder.StatusCode, duration)
		logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(err)
}

// writeServiceError maps a service error to a response, falling back to a
// generic internal error for anything that is not an AppError.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.IsAppError(err); ok {
		s.writeError(w, appErr)
		return
	}
	s.writeError(w, apperrors.ErrInternalError)
}
