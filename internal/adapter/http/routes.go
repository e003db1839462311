package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/croftlabs/verdant/internal/domain/user"
	"github.com/croftlabs/verdant/internal/middleware"
)

// admins can manage tenant structure and catalog entries.
var admins = []user.Role{user.RoleSuperAdmin, user.RoleOrgAdmin, user.RoleDomainAdmin}

// MountRoutes registers all API routes on the given chi router. Auth and
// rate-limit middleware are installed by the caller so tests can mount the
// routes bare.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Get("/health/ready", h.Ready)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.HandleWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Auth
		r.Post("/auth/login", h.Login)
		r.Get("/auth/me", h.Me)
		r.Post("/auth/change-password", h.ChangePassword)

		// Organizations (super admin manages the roster; scoped callers read)
		r.Get("/organizations", h.ListOrganizations)
		r.Get("/organizations/{id}", h.GetOrganization)
		r.With(middleware.RequireRole(user.RoleSuperAdmin)).Group(func(r chi.Router) {
			r.Post("/organizations", h.CreateOrganization)
			r.Put("/organizations/{id}", h.UpdateOrganization)
			r.Delete("/organizations/{id}", h.DeactivateOrganization)
		})

		// Domains
		r.Get("/domains", h.ListDomains)
		r.Get("/domains/{id}", h.GetDomain)
		r.With(middleware.RequireRole(user.RoleSuperAdmin, user.RoleOrgAdmin)).Group(func(r chi.Router) {
			r.Post("/domains", h.CreateDomain)
			r.Delete("/domains/{id}", h.DeactivateDomain)
		})
		r.With(middleware.RequireRole(admins...)).
			Put("/domains/{id}", h.UpdateDomain)

		// Plots
		r.Get("/plots", h.ListPlots)
		r.Get("/plots/{id}", h.GetPlot)
		r.With(middleware.RequireRole(admins...)).Group(func(r chi.Router) {
			r.Post("/plots", h.CreatePlot)
			r.Delete("/plots/{id}", h.DeactivatePlot)
		})
		r.Put("/plots/{id}", h.UpdatePlot)

		// Plants. The fixed-path reads register before the {id} routes.
		r.Get("/plants", h.ListPlants)
		r.Get("/plants/dashboard", h.Dashboard)
		r.Get("/plants/map", h.MapView)
		r.Get("/plants/export", h.ExportPlants)
		r.Post("/plants", h.CreatePlant)
		r.Get("/plants/{id}", h.GetPlant)
		r.Put("/plants/{id}", h.UpdatePlant)
		r.Delete("/plants/{id}", h.DeactivatePlant)
		r.Post("/plants/{id}/status", h.AppendPlantStatus)
		r.Get("/plants/{id}/status", h.PlantStatusHistory)

		// Catalog
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{id}", h.GetCategory)
		r.With(middleware.RequireRole(admins...)).Group(func(r chi.Router) {
			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeactivateCategory)

			r.Post("/plant-types", h.CreatePlantType)
			r.Put("/plant-types/{id}", h.UpdatePlantType)
			r.Delete("/plant-types/{id}", h.DeactivatePlantType)
		})
		r.Get("/plant-types", h.ListPlantTypes)
		r.Get("/plant-types/{id}", h.GetPlantType)

		// Varieties are open to every role; application users register the
		// varieties they actually plant.
		r.Get("/plant-varieties", h.ListPlantVarieties)
		r.Get("/plant-varieties/{id}", h.GetPlantVariety)
		r.Post("/plant-varieties", h.CreatePlantVariety)
		r.Put("/plant-varieties/{id}", h.UpdatePlantVariety)
		r.Delete("/plant-varieties/{id}", h.DeactivatePlantVariety)

		// Users
		r.With(middleware.RequireRole(admins...)).Group(func(r chi.Router) {
			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeactivateUser)
		})
		r.Get("/users/{id}", h.GetUser)
	})
}
