package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/plant"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/database"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// PlantService manages plants and their status history.
type PlantService struct {
	store database.Store
	queue messagequeue.Queue
}

// NewPlantService creates a new PlantService.
func NewPlantService(store database.Store, queue messagequeue.Queue) *PlantService {
	return &PlantService{store: store, queue: queue}
}

func plantRecord(p *plant.Plant) map[string]any {
	return map[string]any{
		access.FieldID:             p.ID,
		access.FieldOrganizationID: p.OrganizationID,
		access.FieldDomainID:       p.DomainID,
		access.FieldPlotID:         p.PlotID,
		access.FieldPlantedBy:      p.PlantedBy,
		access.FieldActive:         p.Active,
	}
}

func plantRef(p *plant.Plant) access.Ref {
	return access.Ref{
		OrganizationID: p.OrganizationID,
		DomainID:       p.DomainID,
		PlotID:         p.PlotID,
		CreatedBy:      p.PlantedBy,
	}
}

// markEditable stamps the per-caller editable flag on each plant.
func markEditable(id user.Identity, plants []plant.Plant) {
	for i := range plants {
		plants[i].Editable = access.CanMutate(id, access.EntityPlant, plantRef(&plants[i]))
	}
}

// List returns the plants visible to the caller, each carrying the
// caller-specific editable flag.
func (s *PlantService) List(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]plant.Plant, int, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlant, f)
	if pred.IsNone() {
		return []plant.Plant{}, 0, nil
	}

	plants, total, err := s.store.ListPlants(ctx, pred, page.Normalize())
	if err != nil {
		return nil, 0, err
	}

	markEditable(id, plants)
	return plants, total, nil
}

// Get returns one plant if the caller can see it.
func (s *PlantService) Get(ctx context.Context, id user.Identity, plantID string) (*plant.Plant, error) {
	p, err := s.store.GetPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}

	pred := access.BuildFilter(access.Resolve(id), access.EntityPlant, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(plantRecord(p)) {
		return nil, domain.ErrNotFound
	}

	p.Editable = access.CanMutate(id, access.EntityPlant, plantRef(p))
	return p, nil
}

// Create registers a new plant. Placement is resolved by the creation
// guard: single-plot users get their plot auto-filled, everyone else must
// name a plot the guard can verify.
func (s *PlantService) Create(ctx context.Context, id user.Identity, req plant.CreateRequest) (*plant.Plant, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	pl := access.Placement{
		OrganizationID: req.OrganizationID,
		DomainID:       req.DomainID,
		PlotID:         req.PlotID,
	}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityPlant, &pl); rej != nil {
		return nil, rej
	}

	health := req.Health
	if health == "" {
		health = plant.HealthGood
	}
	stage := req.GrowthStage
	if stage == "" {
		stage = plant.StageSeed
	}

	planter := req.Planter
	if planter == "" {
		if u, err := s.store.GetUser(ctx, id.ID); err == nil {
			planter = u.DisplayName()
		}
	}

	now := time.Now()
	p := &plant.Plant{
		ID:                  uuid.NewString(),
		PlotID:              pl.PlotID,
		DomainID:            pl.DomainID,
		OrganizationID:      pl.OrganizationID,
		Name:                req.Name,
		Type:                req.Type,
		Variety:             req.Variety,
		Category:            req.Category,
		Description:         req.Description,
		PlantedDate:         req.PlantedDate,
		PlantedBy:           pl.CreatedBy,
		Planter:             planter,
		Health:              health,
		GrowthStage:         stage,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		ExpectedHarvestDate: req.ExpectedHarvestDate,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.CreatePlant(ctx, p); err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}

	p.Editable = true
	publishChange(ctx, s.queue, messagequeue.SubjectPlantCreated, "plant", "created", p.ID, p.OrganizationID)
	return p, nil
}

// Update applies partial updates to a plant.
func (s *PlantService) Update(ctx context.Context, id user.Identity, plantID string, req plant.UpdateRequest) (*plant.Plant, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.Get(ctx, id, plantID)
	if err != nil {
		return nil, err
	}

	if !p.Editable {
		return nil, domain.ErrForbidden
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Type != "" {
		p.Type = req.Type
	}
	if req.Variety != "" {
		p.Variety = req.Variety
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Health != "" {
		p.Health = req.Health
	}
	if req.GrowthStage != "" {
		p.GrowthStage = req.GrowthStage
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if !req.ExpectedHarvestDate.IsZero() {
		p.ExpectedHarvestDate = req.ExpectedHarvestDate
	}
	if req.HarvestYield != nil {
		p.HarvestYield = *req.HarvestYield
		p.ActualHarvestDate = time.Now()
	}
	p.UpdatedAt = time.Now()

	if err := s.store.UpdatePlant(ctx, p); err != nil {
		return nil, err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlantUpdated, "plant", "updated", p.ID, p.OrganizationID)
	return p, nil
}

// Deactivate soft-deletes a plant. The record and its history survive for
// reporting; it just stops appearing in default listings.
func (s *PlantService) Deactivate(ctx context.Context, id user.Identity, plantID string) error {
	p, err := s.Get(ctx, id, plantID)
	if err != nil {
		return err
	}

	if !p.Editable {
		return domain.ErrForbidden
	}

	if err := s.store.DeactivatePlant(ctx, plantID); err != nil {
		return err
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlantRemoved, "plant", "removed", p.ID, p.OrganizationID)
	return nil
}

// AppendStatus records a new status snapshot and rolls the plant's current
// health and growth stage forward to match it. History is append-only.
func (s *PlantService) AppendStatus(ctx context.Context, id user.Identity, plantID string, req plant.StatusRequest) (*plant.StatusEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.Get(ctx, id, plantID)
	if err != nil {
		return nil, err
	}

	if !p.Editable {
		return nil, domain.ErrForbidden
	}

	entry := &plant.StatusEntry{
		ID:                uuid.NewString(),
		PlantID:           p.ID,
		Date:              time.Now(),
		Status:            req.Status,
		Health:            req.Health,
		GrowthStage:       req.GrowthStage,
		Notes:             req.Notes,
		WateringAmount:    req.WateringAmount,
		FertilizerApplied: req.FertilizerApplied,
		PestsDetected:     req.PestsDetected,
		UpdatedBy:         id.ID,
	}

	if err := s.store.AppendPlantStatus(ctx, p.ID, entry); err != nil {
		return nil, fmt.Errorf("append status: %w", err)
	}

	p.Health = req.Health
	p.GrowthStage = req.GrowthStage
	p.UpdatedAt = entry.Date
	if err := s.store.UpdatePlant(ctx, p); err != nil {
		slog.Warn("roll plant state to latest snapshot", "plant_id", p.ID, "error", err)
	}

	publishChange(ctx, s.queue, messagequeue.SubjectPlantStatus, "plant", "status", p.ID, p.OrganizationID)
	return entry, nil
}

// StatusHistory returns a plant's snapshots, oldest first.
func (s *PlantService) StatusHistory(ctx context.Context, id user.Identity, plantID string) ([]plant.StatusEntry, error) {
	if _, err := s.Get(ctx, id, plantID); err != nil {
		return nil, err
	}
	return s.store.ListPlantStatus(ctx, plantID)
}

// DashboardStats summarizes the caller's visible plants. The read is
// scope-only and unpaginated: the dashboard always reflects everything the
// caller can see.
type DashboardStats struct {
	TotalPlants     int                       `json:"total_plants"`
	ByHealth        map[plant.Health]int      `json:"by_health"`
	ByGrowthStage   map[plant.GrowthStage]int `json:"by_growth_stage"`
	ByType          map[string]int            `json:"by_type"`
	RecentlyPlanted int                       `json:"recently_planted"` // last 30 days
}

// Dashboard aggregates stats over every plant in the caller's scope.
func (s *PlantService) Dashboard(ctx context.Context, id user.Identity) (*DashboardStats, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlant, access.ListFilter{})
	stats := &DashboardStats{
		ByHealth:      make(map[plant.Health]int),
		ByGrowthStage: make(map[plant.GrowthStage]int),
		ByType:        make(map[string]int),
	}
	if pred.IsNone() {
		return stats, nil
	}

	plants, _, err := s.store.ListPlants(ctx, pred, access.Page{})
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -30)
	for i := range plants {
		p := &plants[i]
		stats.TotalPlants++
		stats.ByHealth[p.Health]++
		stats.ByGrowthStage[p.GrowthStage]++
		stats.ByType[p.Type]++
		if p.PlantedDate.After(cutoff) {
			stats.RecentlyPlanted++
		}
	}
	return stats, nil
}

// MapBounds restricts the map view to a bounding box. Nil edges are open.
type MapBounds struct {
	MinLat *float64
	MaxLat *float64
	MinLng *float64
	MaxLng *float64
}

func (b MapBounds) predicate() access.Predicate {
	var preds []access.Predicate
	if b.MinLat != nil {
		preds = append(preds, access.Gte(access.FieldLatitude, *b.MinLat))
	}
	if b.MaxLat != nil {
		preds = append(preds, access.Lte(access.FieldLatitude, *b.MaxLat))
	}
	if b.MinLng != nil {
		preds = append(preds, access.Gte(access.FieldLongitude, *b.MinLng))
	}
	if b.MaxLng != nil {
		preds = append(preds, access.Lte(access.FieldLongitude, *b.MaxLng))
	}
	return access.And(preds...)
}

// MapPoint is one positioned plant on the map view.
type MapPoint struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Health    plant.Health `json:"health"`
	PlotID    string       `json:"plot_id"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
}

// MapView returns every positioned plant in the caller's scope, optionally
// clipped to a bounding box. Like the dashboard it is unpaginated.
func (s *PlantService) MapView(ctx context.Context, id user.Identity, bounds MapBounds) ([]MapPoint, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlant, access.ListFilter{})
	if pred.IsNone() {
		return []MapPoint{}, nil
	}
	pred = access.And(pred, bounds.predicate())

	plants, _, err := s.store.ListPlants(ctx, pred, access.Page{})
	if err != nil {
		return nil, err
	}

	points := make([]MapPoint, 0, len(plants))
	for i := range plants {
		p := &plants[i]
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		points = append(points, MapPoint{
			ID:        p.ID,
			Name:      p.Name,
			Type:      p.Type,
			Health:    p.Health,
			PlotID:    p.PlotID,
			Latitude:  *p.Latitude,
			Longitude: *p.Longitude,
		})
	}
	return points, nil
}

// ExportCSV renders every plant in the caller's scope (after optional
// filters) as a CSV document.
func (s *PlantService) ExportCSV(ctx context.Context, id user.Identity, f access.ListFilter) ([]byte, error) {
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlant, f)

	var plants []plant.Plant
	if !pred.IsNone() {
		var err error
		plants, _, err = s.store.ListPlants(ctx, pred, access.Page{})
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "type", "variety", "category", "health", "growth_stage", "planted_date", "planter", "plot_id", "domain_id", "organization_id", "latitude", "longitude"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range plants {
		p := &plants[i]
		row := []string{
			p.ID, p.Name, p.Type, p.Variety, p.Category,
			string(p.Health), string(p.GrowthStage),
			p.PlantedDate.Format("2006-01-02"), p.Planter,
			p.PlotID, p.DomainID, p.OrganizationID,
			formatCoord(p.Latitude), formatCoord(p.Longitude),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
