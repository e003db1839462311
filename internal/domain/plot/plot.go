// Package plot defines the plot domain model, the third level of the
// containment hierarchy.
package plot

import (
	"errors"
	"time"
)

// Soil types accepted on a plot record.
const (
	SoilClay   = "clay"
	SoilSilt   = "silt"
	SoilLoam   = "loam"
	SoilSandy  = "sandy"
	SoilChalky = "chalky"
	SoilPeaty  = "peaty"
)

// Irrigation types accepted on a plot record.
const (
	IrrigationDrip      = "drip"
	IrrigationSprinkler = "sprinkler"
	IrrigationFlood     = "flood"
	IrrigationManual    = "manual"
	IrrigationNone      = "none"
)

// Plot is a bounded growing area inside a domain. OrganizationID is
// denormalized from the parent domain and must always agree with it.
type Plot struct {
	ID             string    `json:"id"`
	DomainID       string    `json:"domain_id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Size           float64   `json:"size,omitempty"` // square meters
	SoilType       string    `json:"soil_type,omitempty"`
	IrrigationType string    `json:"irrigation_type,omitempty"`
	SunExposure    string    `json:"sun_exposure,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	OwnerName      string    `json:"owner_name,omitempty"`
	OwnerMobile    string    `json:"owner_mobile,omitempty"`
	RegisteredAt   time.Time `json:"registered_at,omitzero"`
	Active         bool      `json:"active"`
	// CreatedBy is set once at creation and preserved across edits.
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to create a plot. DomainID is
// required; OrganizationID may be omitted by org-scoped callers and is
// filled by the creation guard.
type CreateRequest struct {
	DomainID       string   `json:"domain_id"`
	OrganizationID string   `json:"organization_id,omitempty"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Size           float64  `json:"size,omitempty"`
	SoilType       string   `json:"soil_type,omitempty"`
	IrrigationType string   `json:"irrigation_type,omitempty"`
	SunExposure    string   `json:"sun_exposure,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	OwnerName      string   `json:"owner_name,omitempty"`
	OwnerMobile    string   `json:"owner_mobile,omitempty"`
}

// Validate checks required fields and coordinate ranges.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("plot name is required")
	}
	if r.DomainID == "" {
		return errors.New("domain is required")
	}
	return validateCoordinates(r.Latitude, r.Longitude)
}

// UpdateRequest holds the fields that can change on a plot.
// CreatedBy is deliberately absent: the creating user is immutable.
type UpdateRequest struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Size           *float64 `json:"size,omitempty"`
	SoilType       string   `json:"soil_type,omitempty"`
	IrrigationType string   `json:"irrigation_type,omitempty"`
	SunExposure    string   `json:"sun_exposure,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	OwnerName      string   `json:"owner_name,omitempty"`
	OwnerMobile    string   `json:"owner_mobile,omitempty"`
}

// Validate checks coordinate ranges on the updated fields.
func (r *UpdateRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return errors.New("latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}
