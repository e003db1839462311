package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/database"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// PlotService manages plots, the third level of the containment hierarchy.
type PlotService struct {
	store database.Store
	queue messagequeue.Queue
}

// NewPlotService creates a new PlotService.
func NewPlotService(store database.Store, queue messagequeue.Queue) *PlotService {
	return &PlotService{store: store, queue: queue}
}

func plotRecord(p *plot.Plot) map[string]any {
	return map[string]any{
		access.FieldID:             p.ID,
		access.FieldOrganizationID: p.OrganizationID,
		access.FieldDomainID:       p.DomainID,
		access.FieldPlotID:         p.ID,
		access.FieldActive:         p.Active,
	}
}

// List returns the plots visible to the caller.
func (s *PlotService) List(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]plot.Plot, int, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlot, f)
	if pred.IsNone() {
		return []plot.Plot{}, 0, nil
	}
	return s.store.ListPlots(ctx, pred, page.Normalize())
}

// Get returns one plot if the caller can see it.
func (s *PlotService) Get(ctx context.Context, id user.Identity, plotID string) (*plot.Plot, error) {
	p, err := s.store.GetPlot(ctx, plotID)
	if err != nil {
		return nil, err
	}

	pred := access.BuildFilter(access.Resolve(id), access.EntityPlot, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(plotRecord(p)) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create registers a new plot under a domain. The parent domain must exist
// and the caller's scope must contain it.
func (s *PlotService) Create(ctx context.Context, id user.Identity, req plot.CreateRequest) (*plot.Plot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	d, err := s.store.GetDomain(ctx, req.DomainID)
	if err != nil {
		return nil, fmt.Errorf("parent domain: %w", err)
	}

	pl := access.Placement{OrganizationID: req.OrganizationID, DomainID: req.DomainID}
	if pl.OrganizationID == "" {
		pl.OrganizationID = d.OrganizationID
	}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityPlot, &pl); rej != nil {
		return nil, rej
	}

	// The denormalized organization must agree with the actual parent.
	if pl.OrganizationID != d.OrganizationID {
		return nil, &access.Rejection{Kind: access.ScopeViolation, Message: "domain belongs to a different organization"}
	}

	now := time.Now()
	p := &plot.Plot{
		ID:             uuid.NewString(),
		DomainID:       pl.DomainID,
		OrganizationID: pl.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		Size:           req.Size,
		SoilType:       req.SoilType,
		IrrigationType: req.IrrigationType,
		SunExposure:    req.SunExposure,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OwnerName:      req.OwnerName,
		OwnerMobile:    req.OwnerMobile,
		RegisteredAt:   now,
		Active:         true,
		CreatedBy:      pl.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreatePlot(ctx, p); err != nil {
		return nil, fmt.Errorf("create plot: %w", err)
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlotCreated, "plot", "created", p.ID, p.OrganizationID)
	return p, nil
}

// Update applies partial updates to a plot. The creating user is preserved
// no matter who edits.
func (s *PlotService) Update(ctx context.Context, id user.Identity, plotID string, req plot.UpdateRequest) (*plot.Plot, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.Get(ctx, id, plotID)
	if err != nil {
		return nil, err
	}

	ref := access.Ref{OrganizationID: p.OrganizationID, DomainID: p.DomainID, PlotID: p.ID, CreatedBy: p.CreatedBy}
	if !access.CanMutate(id, access.EntityPlot, ref) {
		return nil, domain.ErrForbidden
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Size != nil {
		p.Size = *req.Size
	}
	if req.SoilType != "" {
		p.SoilType = req.SoilType
	}
	if req.IrrigationType != "" {
		p.IrrigationType = req.IrrigationType
	}
	if req.SunExposure != "" {
		p.SunExposure = req.SunExposure
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.OwnerName != "" {
		p.OwnerName = req.OwnerName
	}
	if req.OwnerMobile != "" {
		p.OwnerMobile = req.OwnerMobile
	}
	p.UpdatedAt = time.Now()

	if err := s.store.UpdatePlot(ctx, p); err != nil {
		return nil, err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlotUpdated, "plot", "updated", p.ID, p.OrganizationID)
	return p, nil
}

// Deactivate soft-deletes a plot.
func (s *PlotService) Deactivate(ctx context.Context, id user.Identity, plotID string) error {
	p, err := s.Get(ctx, id, plotID)
	if err != nil {
		return err
	}

	ref := access.Ref{OrganizationID: p.OrganizationID, DomainID: p.DomainID, PlotID: p.ID, CreatedBy: p.CreatedBy}
	if !access.CanMutate(id, access.EntityPlot, ref) {
		return domain.ErrForbidden
	}

	if err := s.store.DeactivatePlot(ctx, plotID); err != nil {
		return err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlotRemoved, "plot", "removed", p.ID, p.OrganizationID)
	return nil
}
