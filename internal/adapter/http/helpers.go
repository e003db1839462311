package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

// urlParam is a short alias for chi.URLParam.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// listQuery extracts the common list-filter and pagination parameters.
func listQuery(r *http.Request) (access.ListFilter, access.Page) {
	q := r.URL.Query()

	f := access.ListFilter{
		OrganizationID:  q.Get("organization_id"),
		DomainID:        q.Get("domain_id"),
		PlotID:          q.Get("plot_id"),
		PlantTypeID:     q.Get("plant_type_id"),
		Type:            q.Get("type"),
		Variety:         q.Get("variety"),
		Category:        q.Get("category"),
		Health:          q.Get("health"),
		GrowthStage:     q.Get("growth_stage"),
		Role:            q.Get("role"),
		Search:          q.Get("search"),
		IncludeInactive: q.Get("include_inactive") == "true",
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return f, access.Page{Page: page, Limit: limit}.Normalize()
}

// floatQuery parses an optional float query parameter.
func floatQuery(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

// listResponse is the envelope for all paginated list endpoints.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeList[T any](w http.ResponseWriter, items []T, total int, page access.Page) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse[T]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// writeServiceError maps service-layer errors onto HTTP statuses. Scope
// rejections on creation map to 403, ambiguous placements to 400; a record
// outside the caller's scope is indistinguishable from a missing one.
func writeServiceError(w http.ResponseWriter, err error, fallbackMsg string) {
	var rej *access.Rejection
	switch {
	case errors.As(err, &rej):
		status := http.StatusForbidden
		if rej.Kind == access.AmbiguousTarget {
			status = http.StatusBadRequest
		}
		writeError(w, status, rej.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, fallbackMsg)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "operation not permitted")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, domain.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
		writeError(w, http.StatusBadRequest, msg)
	case strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "SQLSTATE 23505"):
		writeError(w, http.StatusConflict, "resource already exists")
	default:
		slog.Error("unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
