package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/tenant"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/database"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// TenantService manages organizations and their domains.
type TenantService struct {
	store database.Store
	queue messagequeue.Queue
}

// NewTenantService creates a new TenantService.
func NewTenantService(store database.Store, queue messagequeue.Queue) *TenantService {
	return &TenantService{store: store, queue: queue}
}

func organizationRecord(o *tenant.Organization) map[string]any {
	return map[string]any{
		access.FieldID:     o.ID,
		access.FieldActive: o.Active,
	}
}

func domainRecord(d *tenant.Domain) map[string]any {
	return map[string]any{
		access.FieldID:             d.ID,
		access.FieldOrganizationID: d.OrganizationID,
		access.FieldDomainID:       d.ID,
		access.FieldActive:         d.Active,
	}
}

// ListOrganizations returns the organizations visible to the caller.
func (s *TenantService) ListOrganizations(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]tenant.Organization, int, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityOrganization, f)
	if pred.IsNone() {
		return []tenant.Organization{}, 0, nil
	}
	return s.store.ListOrganizations(ctx, pred, page.Normalize())
}

// GetOrganization returns one organization if the caller can see it.
func (s *TenantService) GetOrganization(ctx context.Context, id user.Identity, orgID string) (*tenant.Organization, error) {
	o, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	pred := access.BuildFilter(access.Resolve(id), access.EntityOrganization, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(organizationRecord(o)) {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// CreateOrganization creates a new top-level tenant. Only super admins can
// create organizations.
func (s *TenantService) CreateOrganization(ctx context.Context, id user.Identity, req tenant.CreateOrganizationRequest) (*tenant.Organization, error) {
	if id.Role != user.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	now := time.Now()
	o := &tenant.Organization{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Active:       true,
		CreatedBy:    id.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateOrganization(ctx, o); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantCreated, "organization", "created", o.ID, o.ID)
	return o, nil
}

// UpdateOrganization applies partial updates to an organization.
func (s *TenantService) UpdateOrganization(ctx context.Context, id user.Identity, orgID string, req tenant.UpdateOrganizationRequest) (*tenant.Organization, error) {
	o, err := s.GetOrganization(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	if !access.CanMutate(id, access.EntityOrganization, access.Ref{OrganizationID: o.ID}) {
		return nil, domain.ErrForbidden
	}

	if req.Name != "" {
		o.Name = req.Name
	}
	if req.Description != "" {
		o.Description = req.Description
	}
	if req.Address != "" {
		o.Address = req.Address
	}
	if req.ContactEmail != "" {
		o.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		o.ContactPhone = req.ContactPhone
	}
	o.UpdatedAt = time.Now()

	if err := s.store.UpdateOrganization(ctx, o); err != nil {
		return nil, err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantUpdated, "organization", "updated", o.ID, o.ID)
	return o, nil
}

// DeactivateOrganization soft-deletes an organization. Only super admins
// can retire a whole tenant.
func (s *TenantService) DeactivateOrganization(ctx context.Context, id user.Identity, orgID string) error {
	if id.Role != user.RoleSuperAdmin {
		return domain.ErrForbidden
	}

	if _, err := s.store.GetOrganization(ctx, orgID); err != nil {
		return err
	}

	if err := s.store.DeactivateOrganization(ctx, orgID); err != nil {
		return err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantRemoved, "organization", "removed", orgID, orgID)
	return nil
}

// ListDomains returns the domains visible to the caller.
func (s *TenantService) ListDomains(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]tenant.Domain, int, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityDomain, f)
	if pred.IsNone() {
		return []tenant.Domain{}, 0, nil
	}
	return s.store.ListDomains(ctx, pred, page.Normalize())
}

// GetDomain returns one domain if the caller can see it.
func (s *TenantService) GetDomain(ctx context.Context, id user.Identity, domainID string) (*tenant.Domain, error) {
	d, err := s.store.GetDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}

	pred := access.BuildFilter(access.Resolve(id), access.EntityDomain, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(domainRecord(d)) {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// CreateDomain creates a new domain under an organization. Domain admins
// cannot carve out new domains; that is an org-level decision.
func (s *TenantService) CreateDomain(ctx context.Context, id user.Identity, req tenant.CreateDomainRequest) (*tenant.Domain, error) {
	if id.Role != user.RoleSuperAdmin && id.Role != user.RoleOrgAdmin {
		return nil, domain.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	pl := access.Placement{OrganizationID: req.OrganizationID}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityDomain, &pl); rej != nil {
		return nil, rej
	}

	now := time.Now()
	d := &tenant.Domain{
		ID:             uuid.NewString(),
		OrganizationID: pl.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		Active:         true,
		CreatedBy:      pl.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateDomain(ctx, d); err != nil {
		return nil, fmt.Errorf("create domain: %w", err)
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantCreated, "domain", "created", d.ID, d.OrganizationID)
	return d, nil
}

// UpdateDomain applies partial updates to a domain.
func (s *TenantService) UpdateDomain(ctx context.Context, id user.Identity, domainID string, req tenant.UpdateDomainRequest) (*tenant.Domain, error) {
	d, err := s.GetDomain(ctx, id, domainID)
	if err != nil {
		return nil, err
	}

	if !access.CanMutate(id, access.EntityDomain, access.Ref{OrganizationID: d.OrganizationID, DomainID: d.ID}) {
		return nil, domain.ErrForbidden
	}

	if req.Name != "" {
		d.Name = req.Name
	}
	if req.Description != "" {
		d.Description = req.Description
	}
	d.UpdatedAt = time.Now()

	if err := s.store.UpdateDomain(ctx, d); err != nil {
		return nil, err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantUpdated, "domain", "updated", d.ID, d.OrganizationID)
	return d, nil
}

// DeactivateDomain soft-deletes a domain.
func (s *TenantService) DeactivateDomain(ctx context.Context, id user.Identity, domainID string) error {
	d, err := s.GetDomain(ctx, id, domainID)
	if err != nil {
		return err
	}

	if !access.CanMutate(id, access.EntityDomain, access.Ref{OrganizationID: d.OrganizationID, DomainID: d.ID}) {
		return domain.ErrForbidden
	}

	if err := s.store.DeactivateDomain(ctx, domainID); err != nil {
		return err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectTenantRemoved, "domain", "removed", d.ID, d.OrganizationID)
	return nil
}
