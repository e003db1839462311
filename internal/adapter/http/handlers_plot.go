package http

import (
	"net/http"

	"github.com/croftlabs/verdant/internal/domain/plot"
)

// ListPlots handles GET /api/v1/plots
func (h *Handlers) ListPlots(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	plots, total, err := h.Plots.List(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "plots not found")
		return
	}
	writeList(w, plots, total, page)
}

// GetPlot handles GET /api/v1/plots/{id}
func (h *Handlers) GetPlot(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.Plots.Get(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "plot not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePlot handles POST /api/v1/plots
func (h *Handlers) CreatePlot(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[plot.CreateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Plots.Create(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "parent domain not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePlot handles PUT /api/v1/plots/{id}
func (h *Handlers) UpdatePlot(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[plot.UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Plots.Update(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "plot not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeactivatePlot handles DELETE /api/v1/plots/{id}
func (h *Handlers) DeactivatePlot(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Plots.Deactivate(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "plot not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
