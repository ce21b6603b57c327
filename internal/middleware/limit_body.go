package middleware

import (
	"net/http"
)

// MaxBodySize is the maximum allowed request body size. The largest
// legitimate body this service accepts is a two-field JSON object.
const MaxBodySize = 64 << 10 // 64KB

// LimitBody caps request body sizes
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		next.ServeHTTP(w, r)
	})
}
