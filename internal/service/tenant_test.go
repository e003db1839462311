package service

import (
	"context"
	"errors"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/tenant"
	"github.com/croftlabs/verdant/internal/domain/user"
)

func TestListOrganizations(t *testing.T) {
	svc := NewTenantService(seedStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      user.Identity
		wantIDs []string
	}{
		{"super admin sees all", superID, []string{"org-1", "org-2"}},
		{"org admin sees own org only", orgAdmin1, []string{"org-1"}},
		{"domain admin sees own org only", domAdmin1, []string{"org-1"}},
		{"application user sees none", appUser1, nil},
		{"identity without affiliations sees none", user.Identity{ID: "u-x", Role: user.RoleOrgAdmin}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orgs, total, err := svc.ListOrganizations(ctx, tt.id, access.ListFilter{}, access.Page{})
			if err != nil {
				t.Fatalf("ListOrganizations() error = %v", err)
			}
			if total != len(tt.wantIDs) {
				t.Errorf("total = %d, want %d", total, len(tt.wantIDs))
			}
			got := make([]string, 0, len(orgs))
			for _, o := range orgs {
				got = append(got, o.ID)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got orgs %v, want %v", got, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if got[i] != id {
					t.Errorf("orgs[%d] = %s, want %s", i, got[i], id)
				}
			}
		})
	}
}

func TestGetOrganizationHidesForeignTenant(t *testing.T) {
	svc := NewTenantService(seedStore(), nil)
	ctx := context.Background()

	if _, err := svc.GetOrganization(ctx, orgAdmin1, "org-1"); err != nil {
		t.Fatalf("own organization: %v", err)
	}

	// A foreign tenant reads as absent, not forbidden.
	if _, err := svc.GetOrganization(ctx, orgAdmin1, "org-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign organization error = %v, want ErrNotFound", err)
	}
}

func TestCreateOrganization(t *testing.T) {
	store := seedStore()
	queue := &mockQueue{}
	svc := NewTenantService(store, queue)
	ctx := context.Background()

	if _, err := svc.CreateOrganization(ctx, orgAdmin1, tenant.CreateOrganizationRequest{Name: "Rogue Org"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("org admin create error = %v, want ErrForbidden", err)
	}

	o, err := svc.CreateOrganization(ctx, superID, tenant.CreateOrganizationRequest{Name: "Hilltop Gardens"})
	if err != nil {
		t.Fatalf("CreateOrganization() error = %v", err)
	}
	if o.ID == "" || !o.Active {
		t.Errorf("created org = %+v, want active with generated id", o)
	}
	if o.CreatedBy != superID.ID {
		t.Errorf("CreatedBy = %s, want %s", o.CreatedBy, superID.ID)
	}

	subjects := queue.subjects()
	if len(subjects) != 1 || subjects[0] != "tenants.created" {
		t.Errorf("published subjects = %v, want [tenants.created]", subjects)
	}
}

func TestDeactivateOrganization(t *testing.T) {
	store := seedStore()
	svc := NewTenantService(store, nil)
	ctx := context.Background()

	if err := svc.DeactivateOrganization(ctx, orgAdmin1, "org-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("org admin deactivate error = %v, want ErrForbidden", err)
	}

	if err := svc.DeactivateOrganization(ctx, superID, "org-2"); err != nil {
		t.Fatalf("DeactivateOrganization() error = %v", err)
	}
	o, _ := store.GetOrganization(ctx, "org-2")
	if o.Active {
		t.Error("organization still active after deactivation")
	}
}

func TestListDomains(t *testing.T) {
	svc := NewTenantService(seedStore(), nil)
	ctx := context.Background()

	// Domain admins list all sibling domains of their organization.
	domains, _, err := svc.ListDomains(ctx, domAdmin1, access.ListFilter{}, access.Page{})
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("got %d domains, want 2", len(domains))
	}
	for _, d := range domains {
		if d.OrganizationID != "org-1" {
			t.Errorf("domain %s belongs to %s, want org-1", d.ID, d.OrganizationID)
		}
	}

	// An application user sees the domains of its organization too.
	domains, _, err = svc.ListDomains(ctx, appUser1, access.ListFilter{}, access.Page{})
	if err != nil {
		t.Fatalf("ListDomains() error = %v", err)
	}
	if len(domains) != 2 {
		t.Errorf("got %d domains for application user, want 2", len(domains))
	}
}

func TestCreateDomain(t *testing.T) {
	store := seedStore()
	queue := &mockQueue{}
	svc := NewTenantService(store, queue)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      user.Identity
		req     tenant.CreateDomainRequest
		wantOrg string
		wantErr bool
	}{
		{
			name:    "org admin creates in own org without naming it",
			id:      orgAdmin1,
			req:     tenant.CreateDomainRequest{Name: "East Fields"},
			wantOrg: "org-1",
		},
		{
			name:    "super admin must name the organization",
			id:      superID,
			req:     tenant.CreateDomainRequest{Name: "Orphan Fields"},
			wantErr: true,
		},
		{
			name:    "super admin creates with explicit org",
			id:      superID,
			req:     tenant.CreateDomainRequest{OrganizationID: "org-2", Name: "Delta Fields"},
			wantOrg: "org-2",
		},
		{
			name:    "org admin cannot create in a foreign org",
			id:      orgAdmin1,
			req:     tenant.CreateDomainRequest{OrganizationID: "org-2", Name: "Sneaky Fields"},
			wantErr: true,
		},
		{
			name:    "domain admin cannot create domains",
			id:      domAdmin1,
			req:     tenant.CreateDomainRequest{Name: "Splinter Fields"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := svc.CreateDomain(ctx, tt.id, tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateDomain() error = %v", err)
			}
			if d.OrganizationID != tt.wantOrg {
				t.Errorf("OrganizationID = %s, want %s", d.OrganizationID, tt.wantOrg)
			}
			if d.CreatedBy != tt.id.ID {
				t.Errorf("CreatedBy = %s, want %s", d.CreatedBy, tt.id.ID)
			}
		})
	}
}

func TestUpdateDomainScope(t *testing.T) {
	svc := NewTenantService(seedStore(), nil)
	ctx := context.Background()
	req := tenant.UpdateDomainRequest{Description: "irrigated"}

	// A domain admin edits only its own domain, despite seeing siblings.
	if _, err := svc.UpdateDomain(ctx, domAdmin1, "dom-1", req); err != nil {
		t.Fatalf("own domain: %v", err)
	}
	if _, err := svc.UpdateDomain(ctx, domAdmin1, "dom-2", req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("sibling domain error = %v, want ErrForbidden", err)
	}

	// Cross-tenant edits fail as not-found before any permission check.
	if _, err := svc.UpdateDomain(ctx, orgAdmin1, "dom-3", req); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign domain error = %v, want ErrNotFound", err)
	}
}

func TestDeactivateDomainPublishes(t *testing.T) {
	store := seedStore()
	queue := &mockQueue{}
	svc := NewTenantService(store, queue)
	ctx := context.Background()

	if err := svc.DeactivateDomain(ctx, orgAdmin1, "dom-2"); err != nil {
		t.Fatalf("DeactivateDomain() error = %v", err)
	}
	d, _ := store.GetDomain(ctx, "dom-2")
	if d.Active {
		t.Error("domain still active after deactivation")
	}

	subjects := queue.subjects()
	if len(subjects) != 1 || subjects[0] != "tenants.removed" {
		t.Errorf("published subjects = %v, want [tenants.removed]", subjects)
	}
}
