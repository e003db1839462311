package postgres

import (
	"reflect"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		pred     access.Predicate
		cols     map[string]string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all",
			pred:    access.All(),
			cols:    plantColumns,
			wantSQL: "TRUE",
		},
		{
			name:    "none",
			pred:    access.None(),
			cols:    plantColumns,
			wantSQL: "FALSE",
		},
		{
			name:     "eq",
			pred:     access.Eq(access.FieldOrganizationID, "org-1"),
			cols:     plantColumns,
			wantSQL:  "organization_id = $1",
			wantArgs: []any{"org-1"},
		},
		{
			name:     "in",
			pred:     access.In(access.FieldPlotID, "plot-1", "plot-2"),
			cols:     plantColumns,
			wantSQL:  "plot_id = ANY($1)",
			wantArgs: []any{[]string{"plot-1", "plot-2"}},
		},
		{
			name: "plot-set scope with active filter",
			pred: access.And(
				access.Eq(access.FieldOrganizationID, "org-1"),
				access.In(access.FieldPlotID, "plot-1"),
				access.Eq(access.FieldActive, true),
			),
			cols:     plantColumns,
			wantSQL:  "(organization_id = $1 AND plot_id = ANY($2) AND is_active = $3)",
			wantArgs: []any{"org-1", []string{"plot-1"}, true},
		},
		{
			name: "search expands to ilike disjunction",
			pred: access.Or(
				access.Contains(access.FieldName, "rose"),
				access.Contains(access.FieldType, "rose"),
			),
			cols:     plantColumns,
			wantSQL:  "(name ILIKE $1 OR type ILIKE $2)",
			wantArgs: []any{"%rose%", "%rose%"},
		},
		{
			name:     "like wildcards are escaped",
			pred:     access.Contains(access.FieldName, "50%_done"),
			cols:     plantColumns,
			wantSQL:  "name ILIKE $1",
			wantArgs: []any{`%50\%\_done%`},
		},
		{
			name: "bounding box",
			pred: access.And(
				access.Gte(access.FieldLatitude, 12.9),
				access.Lte(access.FieldLatitude, 13.1),
			),
			cols:     plantColumns,
			wantSQL:  "(latitude >= $1 AND latitude <= $2)",
			wantArgs: []any{12.9, 13.1},
		},
		{
			name:     "enabled flag maps to the users schema",
			pred:     access.Eq(access.FieldActive, true),
			cols:     userColumns,
			wantSQL:  "is_enabled = $1",
			wantArgs: []any{true},
		},
		{
			name:     "organization self reference maps to id",
			pred:     access.Eq(access.FieldID, "org-1"),
			cols:     organizationColumns,
			wantSQL:  "id = $1",
			wantArgs: []any{"org-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := whereClause(tt.pred, tt.cols)
			if err != nil {
				t.Fatalf("whereClause() error = %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if !reflect.DeepEqual(args[i], tt.wantArgs[i]) {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestWhereClauseRejectsUnmappedField(t *testing.T) {
	// plant-only fields must not leak into other tables' queries.
	if _, _, err := whereClause(access.Eq(access.FieldHealth, "good"), userColumns); err == nil {
		t.Error("expected error for field without a column mapping")
	}
}

func TestWhereClauseMatchesReferenceSemantics(t *testing.T) {
	// The SQL translation and Matches share a vocabulary; every field the
	// filter builder can emit for an entity must be mapped for its table.
	entities := []struct {
		typ  access.EntityType
		cols map[string]string
	}{
		{access.EntityOrganization, organizationColumns},
		{access.EntityDomain, domainColumns},
		{access.EntityPlot, plotColumns},
		{access.EntityPlant, plantColumns},
		{access.EntityCategory, categoryColumns},
		{access.EntityPlantType, plantTypeColumns},
		{access.EntityPlantVariety, plantVarietyColumns},
		{access.EntityUser, userColumns},
	}

	scope := access.Scope{Kind: access.ScopeOrganization, OrganizationID: "org-1"}
	filter := access.ListFilter{Search: "x", DomainID: "dom-1", PlotID: "plot-1"}

	for _, e := range entities {
		pred := access.BuildFilter(scope, e.typ, filter)
		if _, _, err := whereClause(pred, e.cols); err != nil {
			t.Errorf("%s: %v", e.typ, err)
		}
	}
}
