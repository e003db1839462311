// Package access implements the hierarchical role-scoped authorization core:
// scope resolution, list-filter construction, per-entity editability and
// creation placement checks. Every function here is a pure function of the
// caller identity and entity data; authorization failures are values
// (empty predicates, false, typed rejections), never errors.
package access

import (
	"log/slog"

	"github.com/croftlabs/verdant/internal/domain/user"
)

// ScopeKind tags the Scope variant.
type ScopeKind int

const (
	// ScopeEmpty matches nothing. It is the fail-closed result for
	// identities whose role-required affiliations are missing.
	ScopeEmpty ScopeKind = iota
	// ScopeUnrestricted is the super_admin scope.
	ScopeUnrestricted
	// ScopeOrganization covers one whole organization.
	ScopeOrganization
	// ScopeDomain covers one domain within an organization. It is used for
	// domain_admin mutation checks; domain_admin list visibility is
	// organization-wide (see Resolve).
	ScopeDomain
	// ScopePlotSet covers a set of plots within an organization.
	ScopePlotSet
)

// Scope is the effective set of entities an identity may see, expressed as
// a tagged variant over organization/domain/plot identifiers.
type Scope struct {
	Kind           ScopeKind
	OrganizationID string
	DomainID       string
	PlotIDs        []string
}

// Resolve computes the caller's list-visibility scope from its identity.
// It never fails: an identity missing the affiliation its role requires
// resolves to ScopeEmpty and the anomaly is logged for operators, so list
// endpoints return empty results instead of leaking cross-tenant data.
//
// domain_admin resolves to its whole organization here, matching observed
// behavior: domain admins see sibling domains in lists even though they may
// only mutate inside their own (see CanMutate).
func Resolve(id user.Identity) Scope {
	switch id.Role {
	case user.RoleSuperAdmin:
		return Scope{Kind: ScopeUnrestricted}

	case user.RoleOrgAdmin:
		if id.OrganizationID == "" {
			return anomaly(id, "org_admin without organization")
		}
		return Scope{Kind: ScopeOrganization, OrganizationID: id.OrganizationID}

	case user.RoleDomainAdmin:
		if id.OrganizationID == "" {
			return anomaly(id, "domain_admin without organization")
		}
		if id.DomainID == "" {
			return anomaly(id, "domain_admin without domain")
		}
		return Scope{Kind: ScopeOrganization, OrganizationID: id.OrganizationID}

	case user.RoleApplicationUser:
		if id.OrganizationID == "" {
			return anomaly(id, "application_user without organization")
		}
		if len(id.PlotIDs) == 0 {
			return anomaly(id, "application_user without assigned plots")
		}
		plots := make([]string, len(id.PlotIDs))
		copy(plots, id.PlotIDs)
		return Scope{Kind: ScopePlotSet, OrganizationID: id.OrganizationID, PlotIDs: plots}
	}

	// Unknown or future roles fail closed.
	return anomaly(id, "unrecognized role")
}

func anomaly(id user.Identity, reason string) Scope {
	slog.Warn("identity configuration anomaly, resolving to empty scope",
		"user_id", id.ID,
		"role", id.Role,
		"reason", reason,
	)
	return Scope{Kind: ScopeEmpty}
}
