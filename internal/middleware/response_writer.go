package middleware

import (
	"net/http"
)

// StatusRecorder wraps http.ResponseWriter to capture the response status code.
// It is safe to call WriteHeader multiple times - only the first call takes effect.
type StatusRecorder struct {
	http.ResponseWriter
	StatusCode int
	written    bool
}

// NewStatusRecorder creates a new StatusRecorder with a default status of 200 OK.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{
		ResponseWriter: w,
		StatusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code and writes it to the underlying
// ResponseWriter. Only the first call takes effect.
func (r *StatusRecorder) WriteHeader(code int) {
	if !r.written {
		r.StatusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write writes data to the underlying ResponseWriter.
// If WriteHeader has not been called, it calls WriteHeader with StatusOK.
func (r *StatusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
