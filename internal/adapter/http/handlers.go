package http

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/croftlabs/verdant/internal/adapter/ws"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/middleware"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
	"github.com/croftlabs/verdant/internal/service"
)

// Handlers bundles the services behind the REST API.
type Handlers struct {
	Auth    *service.AuthService
	Tenants *service.TenantService
	Plots   *service.PlotService
	Plants  *service.PlantService
	Catalog *service.CatalogService
	Users   *service.UserService

	Hub   *ws.Hub
	Pool  *pgxpool.Pool
	Queue messagequeue.Queue
}

// identity pulls the authenticated caller from the request context,
// answering 401 when it is absent.
func identity(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
	}
	return id, ok
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready; it reports degraded when the database or
// the message queue is unreachable.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"queue":    "ok",
	}
	healthy := true

	if h.Pool == nil {
		checks["database"] = "not configured"
		healthy = false
	} else if err := h.Pool.Ping(r.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if h.Queue == nil {
		checks["queue"] = "not configured"
	} else if !h.Queue.IsConnected() {
		checks["queue"] = "disconnected"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, checks)
}
