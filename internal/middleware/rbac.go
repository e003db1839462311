package middleware

import (
	"net/http"

	"github.com/croftlabs/verdant/internal/domain/user"
)

// RequireRole gates a route to the named roles. It is the coarse guard for
// admin-only routes; row-level scoping still happens in the services, so a
// role passing this check can only ever reach its own organization's data.
// Unknown roles are denied.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			if _, ok := allowed[id.Role]; !ok {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
