package access

// EntityType names a kind of record the core can scope.
type EntityType string

const (
	EntityOrganization EntityType = "organization"
	EntityDomain       EntityType = "domain"
	EntityPlot         EntityType = "plot"
	EntityPlant        EntityType = "plant"
	EntityCategory     EntityType = "category"
	EntityPlantType    EntityType = "plant_type"
	EntityPlantVariety EntityType = "plant_variety"
	EntityUser         EntityType = "user"
)

// descriptor declares which fields place an entity type in the containment
// hierarchy. All scope and editability logic is driven from this table, so
// a new entity type needs one entry here instead of another hand-written
// boolean chain.
type descriptor struct {
	orgField     string // field holding the owning organization id
	domainField  string // empty when the type has no domain affiliation
	plotField    string // empty when the type has no plot affiliation
	creatorField string
	searchFields []string
}

var descriptors = map[EntityType]descriptor{
	EntityOrganization: {
		// An organization's own id is its organization reference.
		orgField:     FieldID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName, FieldDescription},
	},
	EntityDomain: {
		orgField:     FieldOrganizationID,
		domainField:  FieldID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName, FieldDescription},
	},
	EntityPlot: {
		orgField:     FieldOrganizationID,
		domainField:  FieldDomainID,
		plotField:    FieldID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName, FieldDescription},
	},
	EntityPlant: {
		orgField:     FieldOrganizationID,
		domainField:  FieldDomainID,
		plotField:    FieldPlotID,
		creatorField: FieldPlantedBy,
		searchFields: []string{FieldName, FieldType, FieldVariety, FieldDescription},
	},
	EntityCategory: {
		orgField:     FieldOrganizationID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName, FieldDisplayName},
	},
	EntityPlantType: {
		orgField:     FieldOrganizationID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName},
	},
	EntityPlantVariety: {
		orgField:     FieldOrganizationID,
		creatorField: FieldCreatedBy,
		searchFields: []string{FieldName},
	},
	EntityUser: {
		orgField:     FieldOrganizationID,
		domainField:  FieldDomainID,
		searchFields: []string{FieldName},
	},
}

// ListFilter carries caller-supplied list filters. Every field is merged as
// an additional AND-condition; none of them can widen the caller's scope.
type ListFilter struct {
	// OrganizationID is honored only for unrestricted callers; any other
	// caller's value is ignored.
	OrganizationID string
	DomainID       string
	PlotID         string
	PlantTypeID    string
	Type           string
	Variety        string
	Category       string
	Health         string
	GrowthStage    string
	Role           string
	Search         string
	// IncludeInactive lifts the default active-only constraint. Inactive
	// records stay subject to the same tenant scope.
	IncludeInactive bool
}

// Page is a page/limit pair applied after filtering. The zero value means
// no pagination (used by the dashboard and map-view read paths).
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps a caller-supplied page to sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Offset returns the row offset for the page, or 0 when unpaginated.
func (p Page) Offset() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// BuildFilter produces the predicate restricting a list of typ entities to
// the given scope, AND-merged with the caller's filters. The scope
// constraint is always present; user filters can only narrow it.
func BuildFilter(scope Scope, typ EntityType, f ListFilter) Predicate {
	d, ok := descriptors[typ]
	if !ok {
		return None()
	}

	parts := []Predicate{scopeConstraint(scope, typ, d)}

	// Soft-delete visibility is an orthogonal dimension composed with, not
	// embedded inside, the tenant constraint.
	if !f.IncludeInactive {
		parts = append(parts, Eq(FieldActive, true))
	}

	if scope.Kind == ScopeUnrestricted && f.OrganizationID != "" {
		// Optional narrowing for unrestricted callers only.
		parts = append(parts, Eq(d.orgField, f.OrganizationID))
	}
	if f.DomainID != "" && d.domainField != "" {
		parts = append(parts, Eq(d.domainField, f.DomainID))
	}
	if f.PlotID != "" && d.plotField != "" {
		parts = append(parts, Eq(d.plotField, f.PlotID))
	}
	if f.PlantTypeID != "" && typ == EntityPlantVariety {
		parts = append(parts, Eq(FieldPlantTypeID, f.PlantTypeID))
	}
	if f.Type != "" {
		parts = append(parts, Eq(FieldType, f.Type))
	}
	if f.Variety != "" {
		parts = append(parts, Eq(FieldVariety, f.Variety))
	}
	if f.Category != "" {
		parts = append(parts, Eq(FieldCategory, f.Category))
	}
	if f.Health != "" {
		parts = append(parts, Eq(FieldHealth, f.Health))
	}
	if f.GrowthStage != "" {
		parts = append(parts, Eq(FieldGrowthStage, f.GrowthStage))
	}
	if f.Role != "" && typ == EntityUser {
		parts = append(parts, Eq(FieldRole, f.Role))
	}
	if f.Search != "" {
		search := make([]Predicate, 0, len(d.searchFields))
		for _, field := range d.searchFields {
			search = append(search, Contains(field, f.Search))
		}
		parts = append(parts, Or(search...))
	}

	return And(parts...)
}

// scopeConstraint is the tenant-isolation term of the filter. It never
// depends on user input.
func scopeConstraint(scope Scope, typ EntityType, d descriptor) Predicate {
	switch scope.Kind {
	case ScopeUnrestricted:
		return All()

	case ScopeOrganization, ScopeDomain:
		if typ == EntityOrganization {
			// Org-level callers see exactly their own organization row.
			return Eq(FieldID, scope.OrganizationID)
		}
		p := Eq(d.orgField, scope.OrganizationID)
		if scope.Kind == ScopeDomain && d.domainField != "" {
			return And(p, Eq(d.domainField, scope.DomainID))
		}
		return p

	case ScopePlotSet:
		switch typ {
		case EntityOrganization:
			// Organization sits above a plot-scoped caller's ceiling.
			return None()
		case EntityPlant:
			// Plot isolation: never organization alone.
			return And(
				Eq(d.orgField, scope.OrganizationID),
				In(d.plotField, scope.PlotIDs...),
			)
		default:
			return Eq(d.orgField, scope.OrganizationID)
		}
	}

	return None()
}
