package middleware

import (
	"context"
	"net/http"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const RequestIDContextKey = contextKey("request_id")

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with a ULID, reusing the caller's id when it sent one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
