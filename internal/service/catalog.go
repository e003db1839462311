package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/catalog"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/cache"
	"github.com/croftlabs/verdant/internal/port/database"
)

// CatalogService manages the org-owned reference data: categories, plant
// types and varieties. Reads are cached per organization because the
// catalog changes rarely and is fetched on every plant form.
type CatalogService struct {
	store    database.Store
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewCatalogService creates a new CatalogService. cache may be nil to
// disable caching.
func NewCatalogService(store database.Store, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{store: store, cache: c, cacheTTL: ttl}
}

// cacheable reports whether this list read can be served from cache: only
// unfiltered reads of the default first page by org-scoped callers
// qualify. Pages compare after normalization because HTTP requests arrive
// already normalized while internal callers pass the zero page.
func cacheable(scope access.Scope, f access.ListFilter, page access.Page) bool {
	return scope.Kind == access.ScopeOrganization &&
		f == (access.ListFilter{}) &&
		page.Normalize() == (access.Page{}).Normalize()
}

// cachedList keeps the list total alongside the rows so a cached read
// reports the same total as the store.
type cachedList[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		slog.Debug("catalog cache set", "key", key, "error", err)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, kind, orgID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, "catalog:"+kind+":"+orgID)
}

func catalogRecord(id, orgID string, active bool) map[string]any {
	return map[string]any{
		access.FieldID:             id,
		access.FieldOrganizationID: orgID,
		access.FieldActive:         active,
	}
}

// checkCatalogMutate verifies the caller may edit the given catalog row.
func checkCatalogMutate(id user.Identity, typ access.EntityType, orgID, createdBy string) error {
	if !access.CanMutate(id, typ, access.Ref{OrganizationID: orgID, CreatedBy: createdBy}) {
		return domain.ErrForbidden
	}
	return nil
}

// ListCategories returns the categories visible to the caller.
func (s *CatalogService) ListCategories(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]catalog.Category, int, error) {
	scope := access.Resolve(id)
	pred := access.BuildFilter(scope, access.EntityCategory, f)
	if pred.IsNone() {
		return []catalog.Category{}, 0, nil
	}

	key := "catalog:categories:" + scope.OrganizationID
	if cacheable(scope, f, page) {
		var cached cachedList[catalog.Category]
		if s.cacheGet(ctx, key, &cached) {
			return cached.Items, cached.Total, nil
		}
	}

	items, total, err := s.store.ListCategories(ctx, pred, page.Normalize())
	if err != nil {
		return nil, 0, err
	}
	if cacheable(scope, f, page) {
		s.cacheSet(ctx, key, cachedList[catalog.Category]{Items: items, Total: total})
	}
	return items, total, nil
}

// GetCategory returns one category if the caller can see it.
func (s *CatalogService) GetCategory(ctx context.Context, id user.Identity, catID string) (*catalog.Category, error) {
	c, err := s.store.GetCategory(ctx, catID)
	if err != nil {
		return nil, err
	}
	pred := access.BuildFilter(access.Resolve(id), access.EntityCategory, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(catalogRecord(c.ID, c.OrganizationID, c.Active)) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// CreateCategory creates a category in the caller's organization.
func (s *CatalogService) CreateCategory(ctx context.Context, id user.Identity, req catalog.CreateCategoryRequest) (*catalog.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	pl := access.Placement{OrganizationID: req.OrganizationID}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityCategory, &pl); rej != nil {
		return nil, rej
	}

	now := time.Now()
	c := &catalog.Category{
		ID:             uuid.NewString(),
		OrganizationID: pl.OrganizationID,
		Name:           req.Name,
		DisplayName:    req.DisplayName,
		Emoji:          req.Emoji,
		Description:    req.Description,
		Active:         true,
		CreatedBy:      pl.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.invalidate(ctx, "categories", c.OrganizationID)
	return c, nil
}

// UpdateCategory applies partial updates to a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id user.Identity, catID string, req catalog.UpdateCategoryRequest) (*catalog.Category, error) {
	c, err := s.GetCategory(ctx, id, catID)
	if err != nil {
		return nil, err
	}
	if err := checkCatalogMutate(id, access.EntityCategory, c.OrganizationID, c.CreatedBy); err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		c.DisplayName = req.DisplayName
	}
	if req.Emoji != "" {
		c.Emoji = req.Emoji
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	c.UpdatedAt = time.Now()

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx, "categories", c.OrganizationID)
	return c, nil
}

// DeactivateCategory soft-deletes a category.
func (s *CatalogService) DeactivateCategory(ctx context.Context, id user.Identity, catID string) error {
	c, err := s.GetCategory(ctx, id, catID)
	if err != nil {
		return err
	}
	if err := checkCatalogMutate(id, access.EntityCategory, c.OrganizationID, c.CreatedBy); err != nil {
		return err
	}

	if err := s.store.DeactivateCategory(ctx, catID); err != nil {
		return err
	}
	s.invalidate(ctx, "categories", c.OrganizationID)
	return nil
}

// ListPlantTypes returns the plant types visible to the caller.
func (s *CatalogService) ListPlantTypes(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]catalog.PlantType, int, error) {
	scope := access.Resolve(id)
	pred := access.BuildFilter(scope, access.EntityPlantType, f)
	if pred.IsNone() {
		return []catalog.PlantType{}, 0, nil
	}

	key := "catalog:types:" + scope.OrganizationID
	if cacheable(scope, f, page) {
		var cached cachedList[catalog.PlantType]
		if s.cacheGet(ctx, key, &cached) {
			return cached.Items, cached.Total, nil
		}
	}

	items, total, err := s.store.ListPlantTypes(ctx, pred, page.Normalize())
	if err != nil {
		return nil, 0, err
	}
	if cacheable(scope, f, page) {
		s.cacheSet(ctx, key, cachedList[catalog.PlantType]{Items: items, Total: total})
	}
	return items, total, nil
}

// GetPlantType returns one plant type if the caller can see it.
func (s *CatalogService) GetPlantType(ctx context.Context, id user.Identity, typeID string) (*catalog.PlantType, error) {
	pt, err := s.store.GetPlantType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlantType, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(catalogRecord(pt.ID, pt.OrganizationID, pt.Active)) {
		return nil, domain.ErrNotFound
	}
	return pt, nil
}

// CreatePlantType creates a plant type in the caller's organization.
func (s *CatalogService) CreatePlantType(ctx context.Context, id user.Identity, req catalog.CreatePlantTypeRequest) (*catalog.PlantType, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	pl := access.Placement{OrganizationID: req.OrganizationID}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityPlantType, &pl); rej != nil {
		return nil, rej
	}

	now := time.Now()
	pt := &catalog.PlantType{
		ID:             uuid.NewString(),
		OrganizationID: pl.OrganizationID,
		Name:           req.Name,
		Category:       req.Category,
		Emoji:          req.Emoji,
		Description:    req.Description,
		Active:         true,
		CreatedBy:      pl.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreatePlantType(ctx, pt); err != nil {
		return nil, fmt.Errorf("create plant type: %w", err)
	}

	s.invalidate(ctx, "types", pt.OrganizationID)
	return pt, nil
}

// UpdatePlantType applies partial updates to a plant type.
func (s *CatalogService) UpdatePlantType(ctx context.Context, id user.Identity, typeID string, req catalog.UpdatePlantTypeRequest) (*catalog.PlantType, error) {
	pt, err := s.GetPlantType(ctx, id, typeID)
	if err != nil {
		return nil, err
	}
	if err := checkCatalogMutate(id, access.EntityPlantType, pt.OrganizationID, pt.CreatedBy); err != nil {
		return nil, err
	}

	if req.Category != "" {
		pt.Category = req.Category
	}
	if req.Emoji != "" {
		pt.Emoji = req.Emoji
	}
	if req.Description != "" {
		pt.Description = req.Description
	}
	pt.UpdatedAt = time.Now()

	if err := s.store.UpdatePlantType(ctx, pt); err != nil {
		return nil, err
	}

	s.invalidate(ctx, "types", pt.OrganizationID)
	return pt, nil
}

// DeactivatePlantType soft-deletes a plant type.
func (s *CatalogService) DeactivatePlantType(ctx context.Context, id user.Identity, typeID string) error {
	pt, err := s.GetPlantType(ctx, id, typeID)
	if err != nil {
		return err
	}
	if err := checkCatalogMutate(id, access.EntityPlantType, pt.OrganizationID, pt.CreatedBy); err != nil {
		return err
	}

	if err := s.store.DeactivatePlantType(ctx, typeID); err != nil {
		return err
	}
	s.invalidate(ctx, "types", pt.OrganizationID)
	return nil
}

// ListPlantVarieties returns the varieties visible to the caller.
func (s *CatalogService) ListPlantVarieties(ctx context.Context, id user.Identity, f access.ListFilter, page access.Page) ([]catalog.PlantVariety, int, error) {
	scope := access.Resolve(id)
	pred := access.BuildFilter(scope, access.EntityPlantVariety, f)
	if pred.IsNone() {
		return []catalog.PlantVariety{}, 0, nil
	}

	key := "catalog:varieties:" + scope.OrganizationID
	if cacheable(scope, f, page) {
		var cached cachedList[catalog.PlantVariety]
		if s.cacheGet(ctx, key, &cached) {
			return cached.Items, cached.Total, nil
		}
	}

	items, total, err := s.store.ListPlantVarieties(ctx, pred, page.Normalize())
	if err != nil {
		return nil, 0, err
	}
	if cacheable(scope, f, page) {
		s.cacheSet(ctx, key, cachedList[catalog.PlantVariety]{Items: items, Total: total})
	}
	return items, total, nil
}

// GetPlantVariety returns one variety if the caller can see it.
func (s *CatalogService) GetPlantVariety(ctx context.Context, id user.Identity, varietyID string) (*catalog.PlantVariety, error) {
	v, err := s.store.GetPlantVariety(ctx, varietyID)
	if err != nil {
		return nil, err
	}
	pred := access.BuildFilter(access.Resolve(id), access.EntityPlantVariety, access.ListFilter{IncludeInactive: true})
	if !pred.Matches(catalogRecord(v.ID, v.OrganizationID, v.Active)) {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// CreatePlantVariety creates a variety under a plant type. The parent type
// must be visible to the caller.
func (s *CatalogService) CreatePlantVariety(ctx context.Context, id user.Identity, req catalog.CreatePlantVarietyRequest) (*catalog.PlantVariety, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if _, err := s.GetPlantType(ctx, id, req.PlantTypeID); err != nil {
		return nil, fmt.Errorf("parent plant type: %w", err)
	}

	pl := access.Placement{OrganizationID: req.OrganizationID}
	if rej := access.PrepareCreate(ctx, s.store, id, access.EntityPlantVariety, &pl); rej != nil {
		return nil, rej
	}

	now := time.Now()
	v := &catalog.PlantVariety{
		ID:              uuid.NewString(),
		OrganizationID:  pl.OrganizationID,
		PlantTypeID:     req.PlantTypeID,
		Name:            req.Name,
		Characteristics: req.Characteristics,
		Active:          true,
		CreatedBy:       pl.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreatePlantVariety(ctx, v); err != nil {
		return nil, fmt.Errorf("create variety: %w", err)
	}

	s.invalidate(ctx, "varieties", v.OrganizationID)
	return v, nil
}

// UpdatePlantVariety applies partial updates to a variety.
func (s *CatalogService) UpdatePlantVariety(ctx context.Context, id user.Identity, varietyID string, req catalog.UpdatePlantVarietyRequest) (*catalog.PlantVariety, error) {
	v, err := s.GetPlantVariety(ctx, id, varietyID)
	if err != nil {
		return nil, err
	}
	if err := checkCatalogMutate(id, access.EntityPlantVariety, v.OrganizationID, v.CreatedBy); err != nil {
		return nil, err
	}

	if req.Name != "" {
		v.Name = req.Name
	}
	if req.Characteristics != "" {
		v.Characteristics = req.Characteristics
	}
	v.UpdatedAt = time.Now()

	if err := s.store.UpdatePlantVariety(ctx, v); err != nil {
		return nil, err
	}

	s.invalidate(ctx, "varieties", v.OrganizationID)
	return v, nil
}

// DeactivatePlantVariety soft-deletes a variety.
func (s *CatalogService) DeactivatePlantVariety(ctx context.Context, id user.Identity, varietyID string) error {
	v, err := s.GetPlantVariety(ctx, id, varietyID)
	if err != nil {
		return err
	}
	if err := checkCatalogMutate(id, access.EntityPlantVariety, v.OrganizationID, v.CreatedBy); err != nil {
		return err
	}

	if err := s.store.DeactivatePlantVariety(ctx, varietyID); err != nil {
		return err
	}
	s.invalidate(ctx, "varieties", v.OrganizationID)
	return nil
}
