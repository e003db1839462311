// Package tenant defines the top two levels of the containment hierarchy:
// the Organization (the isolation boundary) and its Domains.
package tenant

import (
	"errors"
	"time"
)

// Organization is the top-level tenant. Every other entity in the system
// belongs to exactly one organization.
type Organization struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Domain is a named subdivision of an organization; it owns zero or more plots.
type Domain struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Active         bool      `json:"active"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateOrganizationRequest holds the fields required to create an organization.
type CreateOrganizationRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Address      string `json:"address,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// Validate checks that the request names the organization.
func (r *CreateOrganizationRequest) Validate() error {
	if r.Name == "" {
		return errors.New("organization name is required")
	}
	return nil
}

// UpdateOrganizationRequest holds the fields that can change on an organization.
type UpdateOrganizationRequest struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Address      string `json:"address,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// CreateDomainRequest holds the fields required to create a domain.
// OrganizationID may be omitted by org-scoped callers; the creation guard
// fills it from the caller's identity.
type CreateDomainRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
}

// Validate checks that the request names the domain.
func (r *CreateDomainRequest) Validate() error {
	if r.Name == "" {
		return errors.New("domain name is required")
	}
	return nil
}

// UpdateDomainRequest holds the fields that can change on a domain.
type UpdateDomainRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}
