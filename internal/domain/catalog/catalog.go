// Package catalog defines the org-owned reference entities: categories,
// plant types and plant varieties. None of them has a plot affiliation,
// which is what makes the created-by editability fallback apply.
package catalog

import (
	"errors"
	"time"
)

// Category groups plant types for display and filtering.
type Category struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	Emoji          string    `json:"emoji,omitempty"`
	Description    string    `json:"description,omitempty"`
	Active         bool      `json:"active"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PlantType is a species-level catalog entry (e.g. "Tomato").
type PlantType struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category,omitempty"`
	Emoji          string    `json:"emoji,omitempty"`
	Description    string    `json:"description,omitempty"`
	Active         bool      `json:"active"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PlantVariety is a cultivar of a plant type (e.g. "Roma" under "Tomato").
type PlantVariety struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	PlantTypeID     string    `json:"plant_type_id"`
	Name            string    `json:"name"`
	Characteristics string    `json:"characteristics,omitempty"`
	Active          bool      `json:"active"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateCategoryRequest holds the fields required to create a category.
type CreateCategoryRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Emoji          string `json:"emoji,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Validate checks required category fields.
func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" {
		return errors.New("category name is required")
	}
	if r.DisplayName == "" {
		return errors.New("category display name is required")
	}
	return nil
}

// UpdateCategoryRequest holds the fields that can change on a category.
type UpdateCategoryRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreatePlantTypeRequest holds the fields required to create a plant type.
type CreatePlantTypeRequest struct {
	OrganizationID string `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Category       string `json:"category,omitempty"`
	Emoji          string `json:"emoji,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Validate checks required plant type fields.
func (r *CreatePlantTypeRequest) Validate() error {
	if r.Name == "" {
		return errors.New("plant type name is required")
	}
	return nil
}

// UpdatePlantTypeRequest holds the fields that can change on a plant type.
type UpdatePlantTypeRequest struct {
	Category    string `json:"category,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreatePlantVarietyRequest holds the fields required to create a variety.
type CreatePlantVarietyRequest struct {
	OrganizationID  string `json:"organization_id,omitempty"`
	PlantTypeID     string `json:"plant_type_id"`
	Name            string `json:"name"`
	Characteristics string `json:"characteristics,omitempty"`
}

// Validate checks required variety fields.
func (r *CreatePlantVarietyRequest) Validate() error {
	if r.Name == "" {
		return errors.New("variety name is required")
	}
	if r.PlantTypeID == "" {
		return errors.New("plant type is required")
	}
	return nil
}

// UpdatePlantVarietyRequest holds the fields that can change on a variety.
type UpdatePlantVarietyRequest struct {
	Name            string `json:"name,omitempty"`
	Characteristics string `json:"characteristics,omitempty"`
}
