package http

import (
	"net/http"

	"github.com/croftlabs/verdant/internal/domain/catalog"
)

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	cats, total, err := h.Catalog.ListCategories(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "categories not found")
		return
	}
	writeList(w, cats, total, page)
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	c, err := h.Catalog.GetCategory(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory handles POST /api/v1/categories
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreateCategoryRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Catalog.CreateCategory(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "category not found")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdateCategoryRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Catalog.UpdateCategory(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeactivateCategory handles DELETE /api/v1/categories/{id}
func (h *Handlers) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeactivateCategory(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlantTypes handles GET /api/v1/plant-types
func (h *Handlers) ListPlantTypes(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	types, total, err := h.Catalog.ListPlantTypes(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "plant types not found")
		return
	}
	writeList(w, types, total, page)
}

// GetPlantType handles GET /api/v1/plant-types/{id}
func (h *Handlers) GetPlantType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	t, err := h.Catalog.GetPlantType(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "plant type not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreatePlantType handles POST /api/v1/plant-types
func (h *Handlers) CreatePlantType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreatePlantTypeRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Catalog.CreatePlantType(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "plant type not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdatePlantType handles PUT /api/v1/plant-types/{id}
func (h *Handlers) UpdatePlantType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdatePlantTypeRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Catalog.UpdatePlantType(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "plant type not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeactivatePlantType handles DELETE /api/v1/plant-types/{id}
func (h *Handlers) DeactivatePlantType(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeactivatePlantType(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "plant type not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlantVarieties handles GET /api/v1/plant-varieties
func (h *Handlers) ListPlantVarieties(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	varieties, total, err := h.Catalog.ListPlantVarieties(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "plant varieties not found")
		return
	}
	writeList(w, varieties, total, page)
}

// GetPlantVariety handles GET /api/v1/plant-varieties/{id}
func (h *Handlers) GetPlantVariety(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	v, err := h.Catalog.GetPlantVariety(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "plant variety not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// CreatePlantVariety handles POST /api/v1/plant-varieties
func (h *Handlers) CreatePlantVariety(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreatePlantVarietyRequest](w, r)
	if !ok {
		return
	}

	v, err := h.Catalog.CreatePlantVariety(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "parent plant type not found")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// UpdatePlantVariety handles PUT /api/v1/plant-varieties/{id}
func (h *Handlers) UpdatePlantVariety(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdatePlantVarietyRequest](w, r)
	if !ok {
		return
	}

	v, err := h.Catalog.UpdatePlantVariety(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "plant variety not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeactivatePlantVariety handles DELETE /api/v1/plant-varieties/{id}
func (h *Handlers) DeactivatePlantVariety(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeactivatePlantVariety(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "plant variety not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
