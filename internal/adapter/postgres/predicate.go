package postgres

import (
	"fmt"
	"strings"

	"github.com/croftlabs/verdant/internal/access"
)

// Column allowlists per table. Predicate fields translate to SQL only
// through these maps, so a field that has no column here can never reach
// the query text. Mapping also absorbs naming drift between the filter
// vocabulary and the schema (users.is_enabled below).
var (
	organizationColumns = map[string]string{
		access.FieldID:          "id",
		access.FieldActive:      "is_active",
		access.FieldName:        "name",
		access.FieldDescription: "description",
		access.FieldCreatedBy:   "created_by",
	}

	domainColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldDomainID:       "id",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldDescription:    "description",
		access.FieldCreatedBy:      "created_by",
	}

	plotColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldDomainID:       "domain_id",
		access.FieldPlotID:         "id",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldDescription:    "description",
		access.FieldCreatedBy:      "created_by",
	}

	plantColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldDomainID:       "domain_id",
		access.FieldPlotID:         "plot_id",
		access.FieldPlantedBy:      "planted_by",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldType:           "type",
		access.FieldVariety:        "variety",
		access.FieldCategory:       "category",
		access.FieldDescription:    "description",
		access.FieldHealth:         "health",
		access.FieldGrowthStage:    "growth_stage",
		access.FieldLatitude:       "latitude",
		access.FieldLongitude:      "longitude",
	}

	categoryColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldDisplayName:    "display_name",
		access.FieldCreatedBy:      "created_by",
	}

	plantTypeColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldCategory:       "category",
		access.FieldCreatedBy:      "created_by",
	}

	plantVarietyColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldPlantTypeID:    "plant_type_id",
		access.FieldActive:         "is_active",
		access.FieldName:           "name",
		access.FieldCreatedBy:      "created_by",
	}

	userColumns = map[string]string{
		access.FieldID:             "id",
		access.FieldOrganizationID: "organization_id",
		access.FieldDomainID:       "domain_id",
		access.FieldActive:         "is_enabled",
		access.FieldRole:           "role",
		access.FieldName:           "username",
	}
)

// whereClause translates a predicate tree into a SQL condition with
// positional placeholders starting at $1. The result always contains at
// least "TRUE" or "FALSE", so callers can append it after WHERE unconditionally.
func whereClause(p access.Predicate, cols map[string]string) (string, []any, error) {
	b := &clauseBuilder{cols: cols}
	sql, err := b.expr(p)
	if err != nil {
		return "", nil, err
	}
	return sql, b.args, nil
}

type clauseBuilder struct {
	cols map[string]string
	args []any
}

func (b *clauseBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *clauseBuilder) column(field string) (string, error) {
	col, ok := b.cols[field]
	if !ok {
		return "", fmt.Errorf("field %q has no column mapping", field)
	}
	return col, nil
}

func (b *clauseBuilder) expr(p access.Predicate) (string, error) {
	switch p.Op {
	case access.OpAll:
		return "TRUE", nil

	case access.OpNone:
		return "FALSE", nil

	case access.OpAnd, access.OpOr:
		sep := " AND "
		if p.Op == access.OpOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(p.Sub))
		for _, sub := range p.Sub {
			s, err := b.expr(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, sep) + ")", nil

	case access.OpEq:
		col, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		return col + " = " + b.arg(p.Value), nil

	case access.OpIn:
		col, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		return col + " = ANY(" + b.arg(p.Values) + ")", nil

	case access.OpContains:
		col, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		val, _ := p.Value.(string)
		return col + " ILIKE " + b.arg("%"+escapeLike(val)+"%"), nil

	case access.OpGte:
		col, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		return col + " >= " + b.arg(p.Value), nil

	case access.OpLte:
		col, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		return col + " <= " + b.arg(p.Value), nil
	}

	return "", fmt.Errorf("unsupported predicate op %q", p.Op)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
