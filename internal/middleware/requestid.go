// Package middleware provides the HTTP middleware chain: request ids,
// authentication, role guards and rate limiting.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/logger"
)

const headerRequestID = "X-Request-ID"

// RequestID tags every request with an id for log correlation. A caller-
// supplied X-Request-ID is kept so ids stay stable across proxies; otherwise
// a fresh uuid is issued. The id lands in the context and on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
