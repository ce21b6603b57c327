package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/wallet-bridge/wallet-bridge/internal/logger"
)

// RequestID generates a unique request ID for each incoming request.
// The request ID is:
//   - Stored in context for use by other middleware and handlers
//   - Added to the response as X-Request-ID header for client correlation
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Honor an existing request ID from an upstream proxy
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateRequestID creates a random 32-character hex string (16 bytes of entropy).
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "fallback-request-id"
	}
	return hex.EncodeToString(b)
}
