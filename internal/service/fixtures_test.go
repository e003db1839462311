package service

import (
	"context"
	"sync"
	"time"

	"github.com/croftlabs/verdant/internal/config"
	"github.com/croftlabs/verdant/internal/domain/catalog"
	"github.com/croftlabs/verdant/internal/domain/plant"
	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/tenant"
	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/port/messagequeue"
)

// Test identities spanning every role across two organizations.
var (
	superID = user.Identity{ID: "u-super", Role: user.RoleSuperAdmin}

	orgAdmin1 = user.Identity{ID: "u-orgadmin-1", Role: user.RoleOrgAdmin, OrganizationID: "org-1"}
	orgAdmin2 = user.Identity{ID: "u-orgadmin-2", Role: user.RoleOrgAdmin, OrganizationID: "org-2"}

	domAdmin1 = user.Identity{ID: "u-domadmin-1", Role: user.RoleDomainAdmin, OrganizationID: "org-1", DomainID: "dom-1"}

	appUser1 = user.Identity{ID: "u-app-1", Role: user.RoleApplicationUser, OrganizationID: "org-1", PlotIDs: []string{"plot-1"}}
	appUser2 = user.Identity{ID: "u-app-2", Role: user.RoleApplicationUser, OrganizationID: "org-1", PlotIDs: []string{"plot-1", "plot-2"}}
)

func ptr(v float64) *float64 { return &v }

// seedStore builds the fixture world:
//
//	org-1: dom-1 (plot-1, plot-2), dom-2 (plot-3)
//	org-2: dom-3 (plot-4)
//
// with one active plant per plot and one deactivated plant in plot-1.
func seedStore() *mockStore {
	m := newMockStore()
	now := time.Now()

	m.orgs = []tenant.Organization{
		{ID: "org-1", Name: "Green Valley Collective", Active: true, CreatedBy: "u-super", CreatedAt: now},
		{ID: "org-2", Name: "Riverside Farms", Active: true, CreatedBy: "u-super", CreatedAt: now},
	}
	m.domains = []tenant.Domain{
		{ID: "dom-1", OrganizationID: "org-1", Name: "North Fields", Active: true, CreatedBy: "u-orgadmin-1", CreatedAt: now},
		{ID: "dom-2", OrganizationID: "org-1", Name: "South Fields", Active: true, CreatedBy: "u-orgadmin-1", CreatedAt: now},
		{ID: "dom-3", OrganizationID: "org-2", Name: "River Bank", Active: true, CreatedBy: "u-orgadmin-2", CreatedAt: now},
	}
	m.plots = []plot.Plot{
		{ID: "plot-1", DomainID: "dom-1", OrganizationID: "org-1", Name: "Plot A", Active: true, CreatedBy: "u-domadmin-1", CreatedAt: now},
		{ID: "plot-2", DomainID: "dom-1", OrganizationID: "org-1", Name: "Plot B", Active: true, CreatedBy: "u-domadmin-1", CreatedAt: now},
		{ID: "plot-3", DomainID: "dom-2", OrganizationID: "org-1", Name: "Plot C", Active: true, CreatedBy: "u-orgadmin-1", CreatedAt: now},
		{ID: "plot-4", DomainID: "dom-3", OrganizationID: "org-2", Name: "Plot D", Active: true, CreatedBy: "u-orgadmin-2", CreatedAt: now},
	}
	m.plants = []plant.Plant{
		{
			ID: "plant-1", PlotID: "plot-1", DomainID: "dom-1", OrganizationID: "org-1",
			Name: "Roma Tomato", Type: "tomato", Health: plant.HealthGood, GrowthStage: plant.StageVegetative,
			PlantedDate: now.AddDate(0, 0, -10), PlantedBy: "u-app-1",
			Latitude: ptr(12.95), Longitude: ptr(77.60), Active: true,
		},
		{
			ID: "plant-2", PlotID: "plot-2", DomainID: "dom-1", OrganizationID: "org-1",
			Name: "Basil", Type: "herb", Health: plant.HealthExcellent, GrowthStage: plant.StageMature,
			PlantedDate: now.AddDate(0, -3, 0), PlantedBy: "u-app-2",
			Latitude: ptr(12.96), Longitude: ptr(77.61), Active: true,
		},
		{
			ID: "plant-3", PlotID: "plot-3", DomainID: "dom-2", OrganizationID: "org-1",
			Name: "Mango Sapling", Type: "mango", Health: plant.HealthFair, GrowthStage: plant.StageSeedling,
			PlantedDate: now.AddDate(0, 0, -5), PlantedBy: "u-orgadmin-1", Active: true,
		},
		{
			ID: "plant-4", PlotID: "plot-4", DomainID: "dom-3", OrganizationID: "org-2",
			Name: "Rice Paddy", Type: "rice", Health: plant.HealthGood, GrowthStage: plant.StageVegetative,
			PlantedDate: now.AddDate(0, -1, 0), PlantedBy: "u-orgadmin-2", Active: true,
		},
		{
			ID: "plant-5", PlotID: "plot-1", DomainID: "dom-1", OrganizationID: "org-1",
			Name: "Dead Pepper", Type: "pepper", Health: plant.HealthDeceased, GrowthStage: plant.StageMature,
			PlantedDate: now.AddDate(-1, 0, 0), PlantedBy: "u-app-1", Active: false,
		},
	}
	m.cats = []catalog.Category{
		{ID: "cat-1", OrganizationID: "org-1", Name: "vegetables", DisplayName: "Vegetables", Active: true, CreatedBy: "u-orgadmin-1"},
		{ID: "cat-2", OrganizationID: "org-2", Name: "grains", DisplayName: "Grains", Active: true, CreatedBy: "u-orgadmin-2"},
	}
	m.types = []catalog.PlantType{
		{ID: "type-1", OrganizationID: "org-1", Name: "Tomato", Category: "vegetables", Active: true, CreatedBy: "u-orgadmin-1"},
		{ID: "type-2", OrganizationID: "org-2", Name: "Rice", Category: "grains", Active: true, CreatedBy: "u-orgadmin-2"},
	}
	m.varieties = []catalog.PlantVariety{
		{ID: "var-1", OrganizationID: "org-1", PlantTypeID: "type-1", Name: "Roma", Active: true, CreatedBy: "u-domadmin-1"},
	}
	m.users = []user.User{
		{ID: "u-super", Username: "root", Email: "root@verdant.dev", FirstName: "Root", LastName: "Admin", Role: user.RoleSuperAdmin, Enabled: true},
		{ID: "u-orgadmin-1", Username: "gv-admin", Email: "admin@greenvalley.example", FirstName: "Asha", LastName: "Rao", Role: user.RoleOrgAdmin, OrganizationID: "org-1", Enabled: true},
		{ID: "u-domadmin-1", Username: "north-lead", Email: "north@greenvalley.example", FirstName: "Noor", LastName: "Khan", Role: user.RoleDomainAdmin, OrganizationID: "org-1", DomainID: "dom-1", Enabled: true},
		{ID: "u-app-1", Username: "grower-one", Email: "grower1@greenvalley.example", FirstName: "Ravi", LastName: "Patel", Role: user.RoleApplicationUser, OrganizationID: "org-1", PlotIDs: []string{"plot-1"}, Enabled: true},
		{ID: "u-orgadmin-2", Username: "rf-admin", Email: "admin@riverside.example", FirstName: "Lena", LastName: "Fischer", Role: user.RoleOrgAdmin, OrganizationID: "org-2", Enabled: true},
	}
	return m
}

func testAuthConfig() *config.Auth {
	return &config.Auth{
		Enabled:    true,
		Secret:     "test-secret-key-do-not-use",
		TokenTTL:   15 * time.Minute,
		BcryptCost: 4, // min cost keeps the suite fast
	}
}

// mockQueue records published messages for assertion.
type mockQueue struct {
	mu        sync.Mutex
	published []string // subjects in publish order
}

var _ messagequeue.Queue = (*mockQueue)(nil)

func (q *mockQueue) Publish(_ context.Context, subject string, _ []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, subject)
	return nil
}

func (q *mockQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (q *mockQueue) Drain() error      { return nil }
func (q *mockQueue) Close() error      { return nil }
func (q *mockQueue) IsConnected() bool { return true }

func (q *mockQueue) subjects() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.published))
	copy(out, q.published)
	return out
}

// memCache is a map-backed cache.Cache for catalog tests. TTL is ignored.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
