package postgres

import (
	"strings"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
)

// List ordering is part of the API contract: plants by last update,
// containment entities by creation time, newest first, id as tiebreak.
func TestListOrdering(t *testing.T) {
	if got, want := orderPlantsRecent, " ORDER BY updated_at DESC, id"; got != want {
		t.Errorf("plant ordering = %q, want %q", got, want)
	}
	if got, want := orderCreatedRecent, " ORDER BY created_at DESC, id"; got != want {
		t.Errorf("containment ordering = %q, want %q", got, want)
	}
}

func TestOrderClausesCompose(t *testing.T) {
	q := "SELECT * FROM plants WHERE active" + orderPlantsRecent + pageSuffix(access.Page{Page: 1, Limit: 10})
	if !strings.Contains(q, "active ORDER BY updated_at DESC, id LIMIT 10 OFFSET 0") {
		t.Errorf("composed query = %q", q)
	}
}
