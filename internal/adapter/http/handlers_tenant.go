package http

import (
	"net/http"

	"github.com/croftlabs/verdant/internal/domain/tenant"
)

// ListOrganizations handles GET /api/v1/organizations
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	orgs, total, err := h.Tenants.ListOrganizations(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "organizations not found")
		return
	}
	writeList(w, orgs, total, page)
}

// GetOrganization handles GET /api/v1/organizations/{id}
func (h *Handlers) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	org, err := h.Tenants.GetOrganization(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// CreateOrganization handles POST /api/v1/organizations
func (h *Handlers) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[tenant.CreateOrganizationRequest](w, r)
	if !ok {
		return
	}

	org, err := h.Tenants.CreateOrganization(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "organization not found")
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// UpdateOrganization handles PUT /api/v1/organizations/{id}
func (h *Handlers) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[tenant.UpdateOrganizationRequest](w, r)
	if !ok {
		return
	}

	org, err := h.Tenants.UpdateOrganization(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// DeactivateOrganization handles DELETE /api/v1/organizations/{id}
func (h *Handlers) DeactivateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Tenants.DeactivateOrganization(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "organization not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDomains handles GET /api/v1/domains
func (h *Handlers) ListDomains(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	f, page := listQuery(r)
	domains, total, err := h.Tenants.ListDomains(r.Context(), id, f, page)
	if err != nil {
		writeServiceError(w, err, "domains not found")
		return
	}
	writeList(w, domains, total, page)
}

// GetDomain handles GET /api/v1/domains/{id}
func (h *Handlers) GetDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	d, err := h.Tenants.GetDomain(r.Context(), id, urlParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "domain not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDomain handles POST /api/v1/domains
func (h *Handlers) CreateDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[tenant.CreateDomainRequest](w, r)
	if !ok {
		return
	}

	d, err := h.Tenants.CreateDomain(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err, "domain not found")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDomain handles PUT /api/v1/domains/{id}
func (h *Handlers) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[tenant.UpdateDomainRequest](w, r)
	if !ok {
		return
	}

	d, err := h.Tenants.UpdateDomain(r.Context(), id, urlParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "domain not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeactivateDomain handles DELETE /api/v1/domains/{id}
func (h *Handlers) DeactivateDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.Tenants.DeactivateDomain(r.Context(), id, urlParam(r, "id")); err != nil {
		writeServiceError(w, err, "domain not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
