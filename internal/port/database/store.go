// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/catalog"
	"github.com/croftlabs/verdant/internal/domain/plant"
	"github.com/croftlabs/verdant/internal/domain/plot"
	"github.com/croftlabs/verdant/internal/domain/tenant"
	"github.com/croftlabs/verdant/internal/domain/user"
)

// Store is the port interface for database operations. List methods take a
// scope predicate built by the access core and translate it into the native
// query language; they return the page of rows plus the total match count.
type Store interface {
	// Organizations
	ListOrganizations(ctx context.Context, pred access.Predicate, page access.Page) ([]tenant.Organization, int, error)
	GetOrganization(ctx context.Context, id string) (*tenant.Organization, error)
	CreateOrganization(ctx context.Context, o *tenant.Organization) error
	UpdateOrganization(ctx context.Context, o *tenant.Organization) error
	DeactivateOrganization(ctx context.Context, id string) error

	// Domains
	ListDomains(ctx context.Context, pred access.Predicate, page access.Page) ([]tenant.Domain, int, error)
	GetDomain(ctx context.Context, id string) (*tenant.Domain, error)
	CreateDomain(ctx context.Context, d *tenant.Domain) error
	UpdateDomain(ctx context.Context, d *tenant.Domain) error
	DeactivateDomain(ctx context.Context, id string) error

	// Plots
	ListPlots(ctx context.Context, pred access.Predicate, page access.Page) ([]plot.Plot, int, error)
	GetPlot(ctx context.Context, id string) (*plot.Plot, error)
	CreatePlot(ctx context.Context, p *plot.Plot) error
	UpdatePlot(ctx context.Context, p *plot.Plot) error
	DeactivatePlot(ctx context.Context, id string) error

	// Plants
	ListPlants(ctx context.Context, pred access.Predicate, page access.Page) ([]plant.Plant, int, error)
	GetPlant(ctx context.Context, id string) (*plant.Plant, error)
	CreatePlant(ctx context.Context, p *plant.Plant) error
	UpdatePlant(ctx context.Context, p *plant.Plant) error
	DeactivatePlant(ctx context.Context, id string) error
	AppendPlantStatus(ctx context.Context, plantID string, entry *plant.StatusEntry) error
	ListPlantStatus(ctx context.Context, plantID string) ([]plant.StatusEntry, error)

	// Catalog
	ListCategories(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.Category, int, error)
	GetCategory(ctx context.Context, id string) (*catalog.Category, error)
	CreateCategory(ctx context.Context, c *catalog.Category) error
	UpdateCategory(ctx context.Context, c *catalog.Category) error
	DeactivateCategory(ctx context.Context, id string) error

	ListPlantTypes(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantType, int, error)
	GetPlantType(ctx context.Context, id string) (*catalog.PlantType, error)
	CreatePlantType(ctx context.Context, pt *catalog.PlantType) error
	UpdatePlantType(ctx context.Context, pt *catalog.PlantType) error
	DeactivatePlantType(ctx context.Context, id string) error

	ListPlantVarieties(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantVariety, int, error)
	GetPlantVariety(ctx context.Context, id string) (*catalog.PlantVariety, error)
	CreatePlantVariety(ctx context.Context, v *catalog.PlantVariety) error
	UpdatePlantVariety(ctx context.Context, v *catalog.PlantVariety) error
	DeactivatePlantVariety(ctx context.Context, id string) error

	// Users
	ListUsers(ctx context.Context, pred access.Predicate, page access.Page) ([]user.User, int, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	CreateUser(ctx context.Context, u *user.User) error
	UpdateUser(ctx context.Context, u *user.User) error
	DeactivateUser(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
}
