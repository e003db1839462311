package access

import (
	"context"

	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/user"
)

// RejectionKind is the machine-readable reason a creation was refused.
type RejectionKind string

const (
	// ScopeViolation: the proposed placement is outside the caller's
	// authorized scope. Maps to a 403-equivalent at the HTTP layer.
	ScopeViolation RejectionKind = "scope_violation"
	// AmbiguousTarget: the caller omitted disambiguating information the
	// guard cannot safely infer. Maps to a 400-equivalent.
	AmbiguousTarget RejectionKind = "ambiguous_target"
)

// Rejection is the typed refusal returned by PrepareCreate. It satisfies
// error so services can wrap it, but the guard itself never throws.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

func (r *Rejection) Error() string { return string(r.Kind) + ": " + r.Message }

func reject(kind RejectionKind, msg string) *Rejection {
	return &Rejection{Kind: kind, Message: msg}
}

// PlotReader is the single persistence read the guard needs: resolving a
// referenced plot to verify its parentage. A failed lookup is a rejection,
// not a transient error.
type PlotReader interface {
	GetPlot(ctx context.Context, id string) (*plot.Plot, error)
}

// Placement carries a proposed new entity's containment references. The
// guard validates them against the caller's scope, auto-fills what is
// unambiguous, and stamps the creator. It mutates the placement in place
// and returns nil on success.
type Placement struct {
	OrganizationID string
	DomainID       string
	PlotID         string
	CreatedBy      string
}

// PrepareCreate validates and normalizes the placement of a new typ entity
// proposed by the given identity.
//
// The creator is always taken from the caller's identity, never from the
// payload, so authorship cannot be spoofed.
func PrepareCreate(ctx context.Context, plots PlotReader, id user.Identity, typ EntityType, pl *Placement) *Rejection {
	pl.CreatedBy = id.ID

	if typ == EntityOrganization {
		// Organizations have no containment references to validate.
		return nil
	}

	// Organization placement: filled from the identity for everyone but
	// super_admin, who has no implicit organization and must say which one.
	switch id.Role {
	case user.RoleSuperAdmin:
		if pl.OrganizationID == "" && pl.PlotID == "" {
			return reject(AmbiguousTarget, "organization must be specified")
		}
	default:
		if pl.OrganizationID != "" && pl.OrganizationID != id.OrganizationID {
			return reject(ScopeViolation, "cannot create outside your organization")
		}
		pl.OrganizationID = id.OrganizationID
	}

	if typ == EntityPlant {
		return preparePlant(ctx, plots, id, pl)
	}

	// Types placed under a domain (not the domain itself): a domain admin
	// may only place them inside their own domain.
	if d := descriptors[typ]; d.domainField == FieldDomainID && id.Role == user.RoleDomainAdmin {
		if pl.DomainID != "" && pl.DomainID != id.DomainID {
			return reject(ScopeViolation, "cannot create outside your domain")
		}
		pl.DomainID = id.DomainID
	}

	return nil
}

// preparePlant handles the plot-level placement rules for new plants.
func preparePlant(ctx context.Context, plots PlotReader, id user.Identity, pl *Placement) *Rejection {
	switch id.Role {
	case user.RoleApplicationUser:
		if pl.PlotID == "" {
			// Auto-fill only when the caller's plot scope is unambiguous.
			if len(id.PlotIDs) == 1 {
				pl.PlotID = id.PlotIDs[0]
			} else {
				return reject(AmbiguousTarget, "plot selection is required when you have access to multiple plots")
			}
		} else if !id.HasPlot(pl.PlotID) {
			return reject(ScopeViolation, "you can only create plants in your assigned plots")
		}
		// Application users carry no domain affiliation; the denormalized
		// parentage comes from the plot so the stored references agree.
		p, err := plots.GetPlot(ctx, pl.PlotID)
		if err != nil {
			return reject(ScopeViolation, "selected plot not found")
		}
		pl.DomainID = p.DomainID
		pl.OrganizationID = p.OrganizationID
		return nil

	case user.RoleDomainAdmin:
		if pl.PlotID == "" {
			return reject(AmbiguousTarget, "plot selection is required")
		}
		// One read, no retry: the referenced plot's parentage decides.
		p, err := plots.GetPlot(ctx, pl.PlotID)
		if err != nil {
			return reject(ScopeViolation, "selected plot not found")
		}
		if p.DomainID != id.DomainID || p.OrganizationID != id.OrganizationID {
			return reject(ScopeViolation, "you can only create plants in plots within your domain")
		}
		pl.DomainID = p.DomainID
		pl.OrganizationID = p.OrganizationID
		return nil

	case user.RoleOrgAdmin, user.RoleSuperAdmin:
		if pl.PlotID == "" {
			return reject(AmbiguousTarget, "plot selection is required")
		}
		// No plot-scope restriction, but the denormalized parentage still
		// comes from the plot itself so the stored references agree.
		p, err := plots.GetPlot(ctx, pl.PlotID)
		if err != nil {
			return reject(ScopeViolation, "selected plot not found")
		}
		if id.Role == user.RoleOrgAdmin && p.OrganizationID != id.OrganizationID {
			return reject(ScopeViolation, "cannot create outside your organization")
		}
		pl.DomainID = p.DomainID
		pl.OrganizationID = p.OrganizationID
		return nil
	}

	return reject(ScopeViolation, "role is not permitted to create plants")
}
