package access

import (
	"fmt"
	"strings"
)

// Field names used in predicates. These are the canonical, backend-agnostic
// names; the persistence adapter maps them to its own columns.
const (
	FieldID             = "id"
	FieldOrganizationID = "organization_id"
	FieldDomainID       = "domain_id"
	FieldPlotID         = "plot_id"
	FieldPlantTypeID    = "plant_type_id"
	FieldCreatedBy      = "created_by"
	FieldPlantedBy      = "planted_by"
	FieldActive         = "is_active"
	FieldName           = "name"
	FieldDisplayName    = "display_name"
	FieldType           = "type"
	FieldVariety        = "variety"
	FieldCategory       = "category"
	FieldDescription    = "description"
	FieldHealth         = "health"
	FieldGrowthStage    = "growth_stage"
	FieldRole           = "role"
	FieldLatitude       = "latitude"
	FieldLongitude      = "longitude"
)

// Op identifies a predicate node kind.
type Op string

const (
	OpAnd      Op = "and"
	OpOr       Op = "or"
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpContains Op = "contains" // case-insensitive substring
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpNone     Op = "none" // matches nothing
	OpAll      Op = "all"  // matches everything
)

// Predicate is a declarative, backend-agnostic filter tree. The persistence
// collaborator translates it into its native query language; Matches gives a
// reference in-memory evaluation of the same semantics.
type Predicate struct {
	Op     Op
	Field  string
	Value  any
	Values []string
	Sub    []Predicate
}

// Eq matches records whose field equals value.
func Eq(field string, value any) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

// In matches records whose field is one of values. An empty value set
// matches nothing.
func In(field string, values ...string) Predicate {
	if len(values) == 0 {
		return None()
	}
	return Predicate{Op: OpIn, Field: field, Values: values}
}

// Contains matches records whose field contains value, case-insensitively.
func Contains(field, value string) Predicate {
	return Predicate{Op: OpContains, Field: field, Value: value}
}

// Gte matches records whose numeric field is >= value.
func Gte(field string, value float64) Predicate {
	return Predicate{Op: OpGte, Field: field, Value: value}
}

// Lte matches records whose numeric field is <= value.
func Lte(field string, value float64) Predicate {
	return Predicate{Op: OpLte, Field: field, Value: value}
}

// None matches nothing. It is the fail-closed result for empty scopes.
func None() Predicate { return Predicate{Op: OpNone} }

// All matches everything.
func All() Predicate { return Predicate{Op: OpAll} }

// And combines predicates conjunctively. All-nodes are dropped; a single
// None short-circuits the whole conjunction to None.
func And(preds ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case OpAll:
			continue
		case OpNone:
			return None()
		default:
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return All()
	case 1:
		return kept[0]
	}
	return Predicate{Op: OpAnd, Sub: kept}
}

// Or combines predicates disjunctively. None-nodes are dropped; a single
// All short-circuits to All.
func Or(preds ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case OpNone:
			continue
		case OpAll:
			return All()
		default:
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return None()
	case 1:
		return kept[0]
	}
	return Predicate{Op: OpOr, Sub: kept}
}

// IsNone reports whether the predicate can never match.
func (p Predicate) IsNone() bool { return p.Op == OpNone }

// Matches evaluates the predicate against a flattened record. It is the
// reference semantics for persistence translations and is what tests and
// in-memory stores run against.
func (p Predicate) Matches(record map[string]any) bool {
	switch p.Op {
	case OpAll:
		return true
	case OpNone:
		return false
	case OpAnd:
		for _, s := range p.Sub {
			if !s.Matches(record) {
				return false
			}
		}
		return true
	case OpOr:
		for _, s := range p.Sub {
			if s.Matches(record) {
				return true
			}
		}
		return false
	case OpEq:
		return fmt.Sprint(record[p.Field]) == fmt.Sprint(p.Value)
	case OpIn:
		got := fmt.Sprint(record[p.Field])
		for _, v := range p.Values {
			if got == v {
				return true
			}
		}
		return false
	case OpContains:
		got, _ := record[p.Field].(string)
		want, _ := p.Value.(string)
		return strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case OpGte:
		got, ok := toFloat(record[p.Field])
		want, _ := toFloat(p.Value)
		return ok && got >= want
	case OpLte:
		got, ok := toFloat(record[p.Field])
		want, _ := toFloat(p.Value)
		return ok && got <= want
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	}
	return 0, false
}
