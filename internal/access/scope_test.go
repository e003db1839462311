package access_test

import (
	"reflect"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/user"
)

func TestResolveSuperAdmin(t *testing.T) {
	s := access.Resolve(user.Identity{ID: "u1", Role: user.RoleSuperAdmin})
	if s.Kind != access.ScopeUnrestricted {
		t.Fatalf("kind = %v, want unrestricted", s.Kind)
	}
}

func TestResolveOrgAdmin(t *testing.T) {
	s := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	if s.Kind != access.ScopeOrganization || s.OrganizationID != "O1" {
		t.Fatalf("scope = %+v, want organization O1", s)
	}
}

func TestResolveDomainAdminListsOrganizationWide(t *testing.T) {
	// Domain admins see their whole organization in lists; the domain
	// restriction applies to mutations only.
	s := access.Resolve(user.Identity{ID: "u1", Role: user.RoleDomainAdmin, OrganizationID: "O1", DomainID: "D1"})
	if s.Kind != access.ScopeOrganization || s.OrganizationID != "O1" {
		t.Fatalf("scope = %+v, want organization O1", s)
	}
}

func TestResolveApplicationUser(t *testing.T) {
	s := access.Resolve(user.Identity{
		ID:             "u1",
		Role:           user.RoleApplicationUser,
		OrganizationID: "O1",
		PlotIDs:        []string{"P1", "P2"},
	})
	if s.Kind != access.ScopePlotSet || s.OrganizationID != "O1" {
		t.Fatalf("scope = %+v, want plot set in O1", s)
	}
	if !reflect.DeepEqual(s.PlotIDs, []string{"P1", "P2"}) {
		t.Fatalf("plot ids = %v", s.PlotIDs)
	}
}

func TestResolveMissingAffiliationYieldsEmptyScope(t *testing.T) {
	cases := []struct {
		name string
		id   user.Identity
	}{
		{"org_admin without org", user.Identity{ID: "u1", Role: user.RoleOrgAdmin}},
		{"domain_admin without org", user.Identity{ID: "u1", Role: user.RoleDomainAdmin, DomainID: "D1"}},
		{"domain_admin without domain", user.Identity{ID: "u1", Role: user.RoleDomainAdmin, OrganizationID: "O1"}},
		{"application_user without org", user.Identity{ID: "u1", Role: user.RoleApplicationUser, PlotIDs: []string{"P1"}}},
		{"application_user without plots", user.Identity{ID: "u1", Role: user.RoleApplicationUser, OrganizationID: "O1"}},
		{"unknown role", user.Identity{ID: "u1", Role: "owner", OrganizationID: "O1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if s := access.Resolve(tc.id); s.Kind != access.ScopeEmpty {
				t.Errorf("scope = %+v, want empty", s)
			}
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	ids := []user.Identity{
		{ID: "u1", Role: user.RoleSuperAdmin},
		{ID: "u2", Role: user.RoleOrgAdmin, OrganizationID: "O1"},
		{ID: "u3", Role: user.RoleDomainAdmin, OrganizationID: "O1", DomainID: "D1"},
		{ID: "u4", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1"}},
		{ID: "u5", Role: "mystery"},
	}
	for _, id := range ids {
		first := access.Resolve(id)
		second := access.Resolve(id)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("resolve not idempotent for %s: %+v vs %+v", id.ID, first, second)
		}
	}
}

func TestResolveCopiesPlotIDs(t *testing.T) {
	id := user.Identity{ID: "u1", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1"}}
	s := access.Resolve(id)
	id.PlotIDs[0] = "P9"
	if s.PlotIDs[0] != "P1" {
		t.Fatal("scope aliases the identity's plot slice")
	}
}
