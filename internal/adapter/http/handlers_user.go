package http

import (
	"net/http"

	"github.com/croftlabs/verdant/internal/domain/user"
)

// ListUsers handles GET /api/v1/users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	users, total, err := h.Users.List(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "users not found")
		return
	}
	writeList(w, users, total, page)
}

// GetUser handles GET /api/v1/users/{id}
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	u, err := h.Users.Get(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /api/v1/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Users.Create(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[user.UpdateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Users.Update(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeactivateUser handles DELETE /api/v1/users/{id}
func (h *Handlers) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Users.Deactivate(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
