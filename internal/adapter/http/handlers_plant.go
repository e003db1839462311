package http

import (
	"net/http"
	"time"

	"github.com/croftlabs/verdant/internal/domain/plant"
	"github.com/croftlabs/verdant/internal/service"
)

// ListPlants handles GET /api/v1/plants
func (h *Handlers) ListPlants(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	plants, total, err := h.Plants.List(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "plants not found")
		return
	}
	writeList(w, plants, total, page)
}

// GetPlant handles GET /api/v1/plants/{id}
func (h *Handlers) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.Plants.Get(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePlant handles POST /api/v1/plants
func (h *Handlers) CreatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[plant.CreateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Plants.Create(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePlant handles PUT /api/v1/plants/{id}
func (h *Handlers) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[plant.UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Plants.Update(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeactivatePlant handles DELETE /api/v1/plants/{id}
func (h *Handlers) DeactivatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Plants.Deactivate(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendPlantStatus handles POST /api/v1/plants/{id}/status
func (h *Handlers) AppendPlantStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[plant.StatusRequest](w, r)
	if !ok {
		return
	}

	entry, err := h.Plants.AppendStatus(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// PlantStatusHistory handles GET /api/v1/plants/{id}/status
func (h *Handlers) PlantStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	entries, err := h.Plants.StatusHistory(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "plant not found")
		return
	}
	if entries == nil {
		entries = []plant.StatusEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Dashboard handles GET /api/v1/plants/dashboard
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	stats, err := h.Plants.Dashboard(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "dashboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MapView handles GET /api/v1/plants/map
func (h *Handlers) MapView(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	bounds := service.MapBounds{
		MinLat: floatQuery(r, "min_lat"),
		MaxLat: floatQuery(r, "max_lat"),
		MinLng: floatQuery(r, "min_lng"),
		MaxLng: floatQuery(r, "max_lng"),
	}

	points, err := h.Plants.MapView(r.Context(), id, bounds)
	if err != nil {
		writeServiceError(w, err, "map view unavailable")
		return
	}
	if points == nil {
		points = []service.MapPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// ExportPlants handles GET /api/v1/plants/export
func (h *Handlers) ExportPlants(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, _ := listQuery(r)
	data, err := h.Plants.ExportCSV(r.Context(), id, f)
	if err != nil {
		writeServiceError(w, err, "export unavailable")
		return
	}

	filename := "plants-" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
