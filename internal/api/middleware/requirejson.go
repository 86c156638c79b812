// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"mime"
	"net/http"

	"github.com/ndewijer/finance-dashboard/internal/api/response"
)

// MaxBodyBytes bounds request bodies accepted by RequireJSON.
const MaxBodyBytes = 1 << 20

// RequireJSON rejects requests with a body that is not declared as JSON and caps the
// body size. Requests without a body pass through.
//
// Example usage in router:
//
//	r.With(middleware.RequireJSON).Put("/settings", handler.Update)
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			response.RespondError(w, http.StatusUnsupportedMediaType, "content type must be application/json", nil)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
