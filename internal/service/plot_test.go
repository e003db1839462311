package service

import (
	"context"
	"errors"
	"testing"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/user"
)

func TestListPlots(t *testing.T) {
	svc := NewPlotService(seedStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		id   user.Identity
		f    access.ListFilter
		want int
	}{
		{"super admin sees all", superID, access.ListFilter{}, 4},
		{"org admin sees own org", orgAdmin1, access.ListFilter{}, 3},
		{"domain admin lists org-wide", domAdmin1, access.ListFilter{}, 3},
		{"application user sees org plots", appUser1, access.ListFilter{}, 3},
		{"domain filter narrows", orgAdmin1, access.ListFilter{DomainID: "dom-1"}, 2},
		{"search by name", orgAdmin1, access.ListFilter{Search: "plot c"}, 1},
		{"foreign org filter ignored for scoped caller", orgAdmin1, access.ListFilter{OrganizationID: "org-2"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plots, total, err := svc.List(ctx, tt.id, tt.f, access.Page{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.want || len(plots) != tt.want {
				t.Errorf("got %d plots (total %d), want %d", len(plots), total, tt.want)
			}
		})
	}
}

func TestGetPlotVisibility(t *testing.T) {
	svc := NewPlotService(seedStore(), nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, appUser1, "plot-3"); err != nil {
		t.Fatalf("plot in own org: %v", err)
	}
	if _, err := svc.Get(ctx, orgAdmin1, "plot-4"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign plot error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, superID, "no-such-plot"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing plot error = %v, want ErrNotFound", err)
	}
}

func TestCreatePlot(t *testing.T) {
	store := seedStore()
	queue := &mockQueue{}
	svc := NewPlotService(store, queue)
	ctx := context.Background()

	p, err := svc.Create(ctx, orgAdmin1, plot.CreateRequest{DomainID: "dom-2", Name: "Plot E"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %s, want org-1 (filled from parent domain)", p.OrganizationID)
	}
	if p.CreatedBy != orgAdmin1.ID {
		t.Errorf("CreatedBy = %s, want %s", p.CreatedBy, orgAdmin1.ID)
	}
	if got := queue.subjects(); len(got) != 1 || got[0] != "plots.created" {
		t.Errorf("published subjects = %v, want [plots.created]", got)
	}
}

func TestCreatePlotRejections(t *testing.T) {
	svc := NewPlotService(seedStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		id       user.Identity
		req      plot.CreateRequest
		wantKind access.RejectionKind
	}{
		{
			name:     "org admin cannot place under a foreign domain",
			id:       orgAdmin1,
			req:      plot.CreateRequest{DomainID: "dom-3", Name: "Intruder"},
			wantKind: access.ScopeViolation,
		},
		{
			name:     "explicit org must agree with the parent domain",
			id:       superID,
			req:      plot.CreateRequest{DomainID: "dom-3", OrganizationID: "org-1", Name: "Mismatched"},
			wantKind: access.ScopeViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.id, tt.req)
			var rej *access.Rejection
			if !errors.As(err, &rej) {
				t.Fatalf("error = %v, want *access.Rejection", err)
			}
			if rej.Kind != tt.wantKind {
				t.Errorf("rejection kind = %s, want %s", rej.Kind, tt.wantKind)
			}
		})
	}

	// A missing parent domain is a plain not-found, not a rejection.
	if _, err := svc.Create(ctx, superID, plot.CreateRequest{DomainID: "no-such-dom", Name: "Orphan"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing parent error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePlotPreservesCreator(t *testing.T) {
	store := seedStore()
	svc := NewPlotService(store, nil)
	ctx := context.Background()

	p, err := svc.Update(ctx, orgAdmin1, "plot-1", plot.UpdateRequest{Name: "Plot A (renamed)"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if p.Name != "Plot A (renamed)" {
		t.Errorf("Name = %s after update", p.Name)
	}
	if p.CreatedBy != "u-domadmin-1" {
		t.Errorf("CreatedBy = %s, want u-domadmin-1 (immutable across edits)", p.CreatedBy)
	}
}

func TestPlotMutationScope(t *testing.T) {
	svc := NewPlotService(seedStore(), nil)
	ctx := context.Background()
	req := plot.UpdateRequest{Description: "terraced"}

	// Domain admins mutate only inside their own domain.
	if _, err := svc.Update(ctx, domAdmin1, "plot-2", req); err != nil {
		t.Fatalf("plot in own domain: %v", err)
	}
	if _, err := svc.Update(ctx, domAdmin1, "plot-3", req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("plot in sibling domain error = %v, want ErrForbidden", err)
	}

	// Application users mutate only their assigned plots.
	if _, err := svc.Update(ctx, appUser1, "plot-1", req); err != nil {
		t.Fatalf("assigned plot: %v", err)
	}
	if _, err := svc.Update(ctx, appUser1, "plot-2", req); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unassigned plot error = %v, want ErrForbidden", err)
	}
}

func TestDeactivatePlot(t *testing.T) {
	store := seedStore()
	queue := &mockQueue{}
	svc := NewPlotService(store, queue)
	ctx := context.Background()

	if err := svc.Deactivate(ctx, appUser1, "plot-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unassigned plot error = %v, want ErrForbidden", err)
	}

	if err := svc.Deactivate(ctx, domAdmin1, "plot-1"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	p, _ := store.GetPlot(ctx, "plot-1")
	if p.Active {
		t.Error("plot still active after deactivation")
	}
	if got := queue.subjects(); len(got) != 1 || got[0] != "plots.removed" {
		t.Errorf("published subjects = %v, want [plots.removed]", got)
	}
}
