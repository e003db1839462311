package service

import (
	"context"
	"strings"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain"
	"github.com/croftlabs/verdant/internal/domain/catalog"
	"github.com/croftlabs/verdant/internal/domain/plant"
	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/tenant"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is an in-memory implementation of database.Store. List methods
// evaluate the scope predicate with its reference semantics, so service
// tests cover the same filtering contract the SQL translation must honor.
type mockStore struct {
	orgs      []tenant.Organization
	domains   []tenant.Domain
	plots     []plot.Plot
	plants    []plant.Plant
	statuses  map[string][]plant.StatusEntry
	cats      []catalog.Category
	types     []catalog.PlantType
	varieties []catalog.PlantVariety
	users     []user.User

	// Error hooks
	getPlotErr     error
	createPlantErr error
	updatePlantErr error
}

func newMockStore() *mockStore {
	return &mockStore{statuses: make(map[string][]plant.StatusEntry)}
}

func paginate[T any](items []T, page access.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	off := page.Offset()
	if off >= len(items) {
		return []T{}
	}
	end := off + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

// Organizations

func (m *mockStore) ListOrganizations(_ context.Context, pred access.Predicate, page access.Page) ([]tenant.Organization, int, error) {
	var out []tenant.Organization
	for _, o := range m.orgs {
		rec := map[string]any{
			access.FieldID:          o.ID,
			access.FieldActive:      o.Active,
			access.FieldName:        o.Name,
			access.FieldDescription: o.Description,
			access.FieldCreatedBy:   o.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, o)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetOrganization(_ context.Context, id string) (*tenant.Organization, error) {
	for i := range m.orgs {
		if m.orgs[i].ID == id {
			return &m.orgs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateOrganization(_ context.Context, o *tenant.Organization) error {
	m.orgs = append(m.orgs, *o)
	return nil
}

func (m *mockStore) UpdateOrganization(_ context.Context, o *tenant.Organization) error {
	for i := range m.orgs {
		if m.orgs[i].ID == o.ID {
			m.orgs[i] = *o
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivateOrganization(_ context.Context, id string) error {
	for i := range m.orgs {
		if m.orgs[i].ID == id {
			m.orgs[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// Domains

func (m *mockStore) ListDomains(_ context.Context, pred access.Predicate, page access.Page) ([]tenant.Domain, int, error) {
	var out []tenant.Domain
	for _, d := range m.domains {
		rec := map[string]any{
			access.FieldID:             d.ID,
			access.FieldOrganizationID: d.OrganizationID,
			access.FieldDomainID:       d.ID,
			access.FieldActive:         d.Active,
			access.FieldName:           d.Name,
			access.FieldDescription:    d.Description,
			access.FieldCreatedBy:      d.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, d)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetDomain(_ context.Context, id string) (*tenant.Domain, error) {
	for i := range m.domains {
		if m.domains[i].ID == id {
			return &m.domains[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateDomain(_ context.Context, d *tenant.Domain) error {
	m.domains = append(m.domains, *d)
	return nil
}

func (m *mockStore) UpdateDomain(_ context.Context, d *tenant.Domain) error {
	for i := range m.domains {
		if m.domains[i].ID == d.ID {
			m.domains[i] = *d
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivateDomain(_ context.Context, id string) error {
	for i := range m.domains {
		if m.domains[i].ID == id {
			m.domains[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// Plots

func (m *mockStore) ListPlots(_ context.Context, pred access.Predicate, page access.Page) ([]plot.Plot, int, error) {
	var out []plot.Plot
	for _, p := range m.plots {
		rec := map[string]any{
			access.FieldID:             p.ID,
			access.FieldOrganizationID: p.OrganizationID,
			access.FieldDomainID:       p.DomainID,
			access.FieldPlotID:         p.ID,
			access.FieldActive:         p.Active,
			access.FieldName:           p.Name,
			access.FieldDescription:    p.Description,
			access.FieldCreatedBy:      p.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, p)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetPlot(_ context.Context, id string) (*plot.Plot, error) {
	if m.getPlotErr != nil {
		return nil, m.getPlotErr
	}
	for i := range m.plots {
		if m.plots[i].ID == id {
			return &m.plots[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePlot(_ context.Context, p *plot.Plot) error {
	m.plots = append(m.plots, *p)
	return nil
}

func (m *mockStore) UpdatePlot(_ context.Context, p *plot.Plot) error {
	for i := range m.plots {
		if m.plots[i].ID == p.ID {
			m.plots[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivatePlot(_ context.Context, id string) error {
	for i := range m.plots {
		if m.plots[i].ID == id {
			m.plots[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// Plants

func plantTestRecord(p *plant.Plant) map[string]any {
	rec := map[string]any{
		access.FieldID:             p.ID,
		access.FieldOrganizationID: p.OrganizationID,
		access.FieldDomainID:       p.DomainID,
		access.FieldPlotID:         p.PlotID,
		access.FieldPlantedBy:      p.PlantedBy,
		access.FieldActive:         p.Active,
		access.FieldName:           p.Name,
		access.FieldType:           p.Type,
		access.FieldVariety:        p.Variety,
		access.FieldCategory:       p.Category,
		access.FieldDescription:    p.Description,
		access.FieldHealth:         string(p.Health),
		access.FieldGrowthStage:    string(p.GrowthStage),
	}
	if p.Latitude != nil {
		rec[access.FieldLatitude] = *p.Latitude
	}
	if p.Longitude != nil {
		rec[access.FieldLongitude] = *p.Longitude
	}
	return rec
}

func (m *mockStore) ListPlants(_ context.Context, pred access.Predicate, page access.Page) ([]plant.Plant, int, error) {
	var out []plant.Plant
	for _, p := range m.plants {
		if pred.Matches(plantTestRecord(&p)) {
			out = append(out, p)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetPlant(_ context.Context, id string) (*plant.Plant, error) {
	for i := range m.plants {
		if m.plants[i].ID == id {
			p := m.plants[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePlant(_ context.Context, p *plant.Plant) error {
	if m.createPlantErr != nil {
		return m.createPlantErr
	}
	m.plants = append(m.plants, *p)
	return nil
}

func (m *mockStore) UpdatePlant(_ context.Context, p *plant.Plant) error {
	if m.updatePlantErr != nil {
		return m.updatePlantErr
	}
	for i := range m.plants {
		if m.plants[i].ID == p.ID {
			m.plants[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivatePlant(_ context.Context, id string) error {
	for i := range m.plants {
		if m.plants[i].ID == id {
			m.plants[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) AppendPlantStatus(_ context.Context, plantID string, entry *plant.StatusEntry) error {
	m.statuses[plantID] = append(m.statuses[plantID], *entry)
	return nil
}

func (m *mockStore) ListPlantStatus(_ context.Context, plantID string) ([]plant.StatusEntry, error) {
	return m.statuses[plantID], nil
}

// Catalog

func (m *mockStore) ListCategories(_ context.Context, pred access.Predicate, page access.Page) ([]catalog.Category, int, error) {
	var out []catalog.Category
	for _, c := range m.cats {
		rec := map[string]any{
			access.FieldID:             c.ID,
			access.FieldOrganizationID: c.OrganizationID,
			access.FieldActive:         c.Active,
			access.FieldName:           c.Name,
			access.FieldDisplayName:    c.DisplayName,
			access.FieldCreatedBy:      c.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, c)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetCategory(_ context.Context, id string) (*catalog.Category, error) {
	for i := range m.cats {
		if m.cats[i].ID == id {
			return &m.cats[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateCategory(_ context.Context, c *catalog.Category) error {
	m.cats = append(m.cats, *c)
	return nil
}

func (m *mockStore) UpdateCategory(_ context.Context, c *catalog.Category) error {
	for i := range m.cats {
		if m.cats[i].ID == c.ID {
			m.cats[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivateCategory(_ context.Context, id string) error {
	for i := range m.cats {
		if m.cats[i].ID == id {
			m.cats[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListPlantTypes(_ context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantType, int, error) {
	var out []catalog.PlantType
	for _, pt := range m.types {
		rec := map[string]any{
			access.FieldID:             pt.ID,
			access.FieldOrganizationID: pt.OrganizationID,
			access.FieldActive:         pt.Active,
			access.FieldName:           pt.Name,
			access.FieldCategory:       pt.Category,
			access.FieldCreatedBy:      pt.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, pt)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetPlantType(_ context.Context, id string) (*catalog.PlantType, error) {
	for i := range m.types {
		if m.types[i].ID == id {
			return &m.types[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePlantType(_ context.Context, pt *catalog.PlantType) error {
	m.types = append(m.types, *pt)
	return nil
}

func (m *mockStore) UpdatePlantType(_ context.Context, pt *catalog.PlantType) error {
	for i := range m.types {
		if m.types[i].ID == pt.ID {
			m.types[i] = *pt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivatePlantType(_ context.Context, id string) error {
	for i := range m.types {
		if m.types[i].ID == id {
			m.types[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListPlantVarieties(_ context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantVariety, int, error) {
	var out []catalog.PlantVariety
	for _, v := range m.varieties {
		rec := map[string]any{
			access.FieldID:             v.ID,
			access.FieldOrganizationID: v.OrganizationID,
			access.FieldPlantTypeID:    v.PlantTypeID,
			access.FieldActive:         v.Active,
			access.FieldName:           v.Name,
			access.FieldCreatedBy:      v.CreatedBy,
		}
		if pred.Matches(rec) {
			out = append(out, v)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetPlantVariety(_ context.Context, id string) (*catalog.PlantVariety, error) {
	for i := range m.varieties {
		if m.varieties[i].ID == id {
			return &m.varieties[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreatePlantVariety(_ context.Context, v *catalog.PlantVariety) error {
	m.varieties = append(m.varieties, *v)
	return nil
}

func (m *mockStore) UpdatePlantVariety(_ context.Context, v *catalog.PlantVariety) error {
	for i := range m.varieties {
		if m.varieties[i].ID == v.ID {
			m.varieties[i] = *v
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivatePlantVariety(_ context.Context, id string) error {
	for i := range m.varieties {
		if m.varieties[i].ID == id {
			m.varieties[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// Users

func (m *mockStore) ListUsers(_ context.Context, pred access.Predicate, page access.Page) ([]user.User, int, error) {
	var out []user.User
	for _, u := range m.users {
		rec := map[string]any{
			access.FieldID:             u.ID,
			access.FieldOrganizationID: u.OrganizationID,
			access.FieldDomainID:       u.DomainID,
			access.FieldActive:         u.Enabled,
			access.FieldRole:           string(u.Role),
			access.FieldName:           u.Username,
		}
		if pred.Matches(rec) {
			out = append(out, u)
		}
	}
	return paginate(out, page), len(out), nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, email) {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeactivateUser(_ context.Context, id string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Enabled = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) TouchLastLogin(_ context.Context, id string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].LastLogin = m.users[i].UpdatedAt
			return nil
		}
	}
	return domain.ErrNotFound
}
