package access_test

import (
	"fmt"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/user"
)

// plantRecord builds the flattened view of a plant the way a store would.
func plantRecord(id, org, dom, plot string, active bool) map[string]any {
	return map[string]any{
		access.FieldID:             id,
		access.FieldOrganizationID: org,
		access.FieldDomainID:       dom,
		access.FieldPlotID:         plot,
		access.FieldPlantedBy:      "creator-" + id,
		access.FieldActive:         active,
		access.FieldName:           "plant " + id,
		access.FieldType:           "tomato",
		access.FieldHealth:         "good",
	}
}

// twoOrgPlants is a fixture spanning two organizations, two domains and
// three plots.
func twoOrgPlants() []map[string]any {
	return []map[string]any{
		plantRecord("a", "O1", "D1", "P1", true),
		plantRecord("b", "O1", "D1", "P2", true),
		plantRecord("c", "O1", "D2", "P3", true),
		plantRecord("d", "O1", "D1", "P1", false),
		plantRecord("e", "O2", "D9", "P9", true),
		plantRecord("f", "O2", "D9", "P9", false),
	}
}

func matchingIDs(p access.Predicate, records []map[string]any) map[string]bool {
	got := map[string]bool{}
	for _, r := range records {
		if p.Matches(r) {
			got[fmt.Sprint(r[access.FieldID])] = true
		}
	}
	return got
}

func TestOrgAdminListingPlants(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{})

	got := matchingIDs(p, twoOrgPlants())
	want := map[string]bool{"a": true, "b": true, "c": true}
	if len(got) != len(want) {
		t.Fatalf("matched %v, want %v", got, want)
	}
	for id := range want {
		if !got[id] {
			t.Errorf("plant %s not matched", id)
		}
	}
}

func TestCrossTenantIsolation(t *testing.T) {
	identities := []user.Identity{
		{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"},
		{ID: "u2", Role: user.RoleDomainAdmin, OrganizationID: "O1", DomainID: "D1"},
		{ID: "u3", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1"}},
	}
	types := []access.EntityType{
		access.EntityOrganization,
		access.EntityDomain,
		access.EntityPlot,
		access.EntityPlant,
		access.EntityCategory,
		access.EntityPlantVariety,
	}
	for _, id := range identities {
		scope := access.Resolve(id)
		for _, typ := range types {
			p := access.BuildFilter(scope, typ, access.ListFilter{IncludeInactive: true})
			foreign := map[string]any{
				access.FieldID:             "x",
				access.FieldOrganizationID: "O2",
				access.FieldDomainID:       "D9",
				access.FieldPlotID:         "P9",
				access.FieldActive:         true,
			}
			if p.Matches(foreign) {
				t.Errorf("%s scope for %s leaked an O2 entity", id.Role, typ)
			}
		}
	}
}

func TestApplicationUserPlantsConstrainedByPlotSet(t *testing.T) {
	scope := access.Resolve(user.Identity{
		ID: "u1", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1"},
	})
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{})

	got := matchingIDs(p, twoOrgPlants())
	if len(got) != 1 || !got["a"] {
		// Plants b and c share the organization but not the plot.
		t.Fatalf("matched %v, want only plant a", got)
	}
}

func TestApplicationUserCannotListOrganizations(t *testing.T) {
	scope := access.Resolve(user.Identity{
		ID: "u1", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1"},
	})
	p := access.BuildFilter(scope, access.EntityOrganization, access.ListFilter{})
	own := map[string]any{access.FieldID: "O1", access.FieldActive: true}
	if p.Matches(own) {
		t.Fatal("plot-scoped caller matched an organization row")
	}
}

func TestOrgScopedCallerSeesOwnOrganizationOnly(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	p := access.BuildFilter(scope, access.EntityOrganization, access.ListFilter{})

	if !p.Matches(map[string]any{access.FieldID: "O1", access.FieldActive: true}) {
		t.Error("own organization not visible")
	}
	if p.Matches(map[string]any{access.FieldID: "O2", access.FieldActive: true}) {
		t.Error("foreign organization visible")
	}
}

func TestUserOrganizationFilterNeverWidensScope(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{OrganizationID: "O2"})

	got := matchingIDs(p, twoOrgPlants())
	if got["e"] || got["f"] {
		t.Fatalf("user-supplied organization filter widened scope: %v", got)
	}
}

func TestUnrestrictedCallerMayNarrowByOrganization(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "root", Role: user.RoleSuperAdmin})
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{OrganizationID: "O2"})

	got := matchingIDs(p, twoOrgPlants())
	if len(got) != 1 || !got["e"] {
		t.Fatalf("matched %v, want only plant e", got)
	}
}

func TestDomainFilterIsAdditionalCondition(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	p := access.BuildFilter(scope, access.EntityPlot, access.ListFilter{DomainID: "D1"})

	inScope := map[string]any{
		access.FieldID: "P1", access.FieldOrganizationID: "O1",
		access.FieldDomainID: "D1", access.FieldActive: true,
	}
	wrongDomain := map[string]any{
		access.FieldID: "P3", access.FieldOrganizationID: "O1",
		access.FieldDomainID: "D2", access.FieldActive: true,
	}
	foreign := map[string]any{
		access.FieldID: "P9", access.FieldOrganizationID: "O2",
		access.FieldDomainID: "D1", access.FieldActive: true,
	}
	if !p.Matches(inScope) {
		t.Error("in-scope plot not matched")
	}
	if p.Matches(wrongDomain) {
		t.Error("domain filter not applied")
	}
	if p.Matches(foreign) {
		t.Error("domain filter replaced the scope constraint")
	}
}

func TestInactiveRecordsHiddenByDefault(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})

	def := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{})
	if got := matchingIDs(def, twoOrgPlants()); got["d"] {
		t.Error("inactive plant visible by default")
	}

	withInactive := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{IncludeInactive: true})
	got := matchingIDs(withInactive, twoOrgPlants())
	if !got["d"] {
		t.Error("inactive plant hidden when explicitly requested")
	}
	if got["f"] {
		t.Error("inactive visibility escaped the tenant scope")
	}
}

func TestSearchMergesAsAndCondition(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"})
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{Search: "PLANT A"})

	got := matchingIDs(p, twoOrgPlants())
	if len(got) != 1 || !got["a"] {
		t.Fatalf("matched %v, want only plant a", got)
	}
}

func TestEmptyScopeMatchesNothing(t *testing.T) {
	scope := access.Resolve(user.Identity{ID: "u1", Role: user.RoleOrgAdmin}) // missing org
	p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{})
	if !p.IsNone() {
		for _, r := range twoOrgPlants() {
			if p.Matches(r) {
				t.Fatal("empty scope matched a record")
			}
		}
	}
}

// TestListVisibilityCoversMutationVisibility checks scope monotonicity:
// anything an identity may mutate it can also list.
func TestListVisibilityCoversMutationVisibility(t *testing.T) {
	identities := []user.Identity{
		{ID: "root", Role: user.RoleSuperAdmin},
		{ID: "u1", Role: user.RoleOrgAdmin, OrganizationID: "O1"},
		{ID: "u2", Role: user.RoleDomainAdmin, OrganizationID: "O1", DomainID: "D1"},
		{ID: "u3", Role: user.RoleApplicationUser, OrganizationID: "O1", PlotIDs: []string{"P1", "P2"}},
	}
	for _, id := range identities {
		scope := access.Resolve(id)
		p := access.BuildFilter(scope, access.EntityPlant, access.ListFilter{})
		for _, r := range twoOrgPlants() {
			if !r[access.FieldActive].(bool) {
				continue
			}
			ref := access.Ref{
				OrganizationID: r[access.FieldOrganizationID].(string),
				DomainID:       r[access.FieldDomainID].(string),
				PlotID:         r[access.FieldPlotID].(string),
			}
			if access.CanMutate(id, access.EntityPlant, ref) && !p.Matches(r) {
				t.Errorf("%s can mutate plant %v but cannot list it", id.Role, r[access.FieldID])
			}
		}
	}
}

func TestPageNormalize(t *testing.T) {
	cases := []struct {
		in, want access.Page
	}{
		{access.Page{}, access.Page{Page: 1, Limit: 10}},
		{access.Page{Page: 2, Limit: 25}, access.Page{Page: 2, Limit: 25}},
		{access.Page{Page: -3, Limit: 5000}, access.Page{Page: 1, Limit: 100}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	if off := (access.Page{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Errorf("Offset = %d, want 20", off)
	}
	if off := (access.Page{}).Offset(); off != 0 {
		t.Errorf("unpaginated Offset = %d, want 0", off)
	}
}
