package access

import "github.com/croftlabs/verdant/internal/domain/user"

// Ref is the normalized relational view of one concrete entity instance:
// just the identifiers that place it in the hierarchy. Callers build it
// from the stored record; fields that do not apply to the entity type stay
// empty.
type Ref struct {
	OrganizationID string
	DomainID       string
	PlotID         string
	CreatedBy      string
}

// CanMutate decides whether the identity may edit or delete the given
// entity instance. It is a pure, total predicate: missing relational fields
// deny, unknown roles deny, and it never returns an error. Turning false
// into a permission failure is the caller's job.
func CanMutate(id user.Identity, typ EntityType, ref Ref) bool {
	d, ok := descriptors[typ]
	if !ok {
		return false
	}

	switch id.Role {
	case user.RoleSuperAdmin:
		return true

	case user.RoleOrgAdmin:
		return sameOrg(id, ref)

	case user.RoleDomainAdmin:
		if !sameOrg(id, ref) {
			return false
		}
		// The domain condition applies only to types that carry a domain
		// affiliation; org-wide reference data (categories, varieties) is
		// mutable by any domain admin of the organization.
		if d.domainField == "" {
			return true
		}
		return id.DomainID != "" && ref.DomainID != "" && ref.DomainID == id.DomainID

	case user.RoleApplicationUser:
		if !sameOrg(id, ref) {
			return false
		}
		if d.plotField != "" {
			return ref.PlotID != "" && id.HasPlot(ref.PlotID)
		}
		// Plotless types: only records the user personally created.
		return d.creatorField != "" && ref.CreatedBy != "" && ref.CreatedBy == id.ID
	}

	// Unrecognized roles fail closed.
	return false
}

func sameOrg(id user.Identity, ref Ref) bool {
	return id.OrganizationID != "" && ref.OrganizationID != "" &&
		id.OrganizationID == ref.OrganizationID
}
