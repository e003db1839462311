package postgres

import (
	"context"
	"fmt"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/tenant"
)

const organizationCols = `id, name, description, address, contact_email, contact_phone, is_active, created_by, created_at, updated_at`

func scanOrganization(row scannable) (tenant.Organization, error) {
	var o tenant.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Address, &o.ContactEmail, &o.ContactPhone,
		&o.Active, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (s *Store) ListOrganizations(ctx context.Context, pred access.Predicate, page access.Page) ([]tenant.Organization, int, error) {
	where, args, err := whereClause(pred, organizationColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+organizationCols+` FROM organizations WHERE `+where+orderCreatedRecent+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []tenant.Organization{}
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, total, rows.Err()
}

func (s *Store) GetOrganization(ctx context.Context, id string) (*tenant.Organization, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+organizationCols+` FROM organizations WHERE id = $1`, id)
	o, err := scanOrganization(row)
	if err != nil {
		return nil, notFoundWrap(err, "get organization %s", id)
	}
	return &o, nil
}

func (s *Store) CreateOrganization(ctx context.Context, o *tenant.Organization) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, description, address, contact_email, contact_phone, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.Name, o.Description, o.Address, o.ContactEmail, o.ContactPhone, o.Active, o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *Store) UpdateOrganization(ctx context.Context, o *tenant.Organization) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE organizations SET name = $2, description = $3, address = $4, contact_email = $5, contact_phone = $6, is_active = $7, updated_at = $8
		 WHERE id = $1`,
		o.ID, o.Name, o.Description, o.Address, o.ContactEmail, o.ContactPhone, o.Active, o.UpdatedAt)
	return execExpectOne(tag, err, "update organization %s", o.ID)
}

func (s *Store) DeactivateOrganization(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE organizations SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate organization %s", id)
}

const domainCols = `id, organization_id, name, description, is_active, created_by, created_at, updated_at`

func scanDomain(row scannable) (tenant.Domain, error) {
	var d tenant.Domain
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.Description,
		&d.Active, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) ListDomains(ctx context.Context, pred access.Predicate, page access.Page) ([]tenant.Domain, int, error) {
	where, args, err := whereClause(pred, domainColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list domains: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM domains WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count domains: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+domainCols+` FROM domains WHERE `+where+orderCreatedRecent+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	domains := []tenant.Domain{}
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	return domains, total, rows.Err()
}

func (s *Store) GetDomain(ctx context.Context, id string) (*tenant.Domain, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+domainCols+` FROM domains WHERE id = $1`, id)
	d, err := scanDomain(row)
	if err != nil {
		return nil, notFoundWrap(err, "get domain %s", id)
	}
	return &d, nil
}

func (s *Store) CreateDomain(ctx context.Context, d *tenant.Domain) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO domains (id, organization_id, name, description, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.OrganizationID, d.Name, d.Description, d.Active, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create domain: %w", err)
	}
	return nil
}

func (s *Store) UpdateDomain(ctx context.Context, d *tenant.Domain) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE domains SET name = $2, description = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		d.ID, d.Name, d.Description, d.Active, d.UpdatedAt)
	return execExpectOne(tag, err, "update domain %s", d.ID)
}

func (s *Store) DeactivateDomain(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE domains SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate domain %s", id)
}
