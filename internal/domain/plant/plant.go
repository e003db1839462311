// Package plant defines the plant domain model, the leaf of the containment
// hierarchy, and its append-only status history.
package plant

import (
	"errors"
	"time"
)

// Health levels recorded on a plant and its status snapshots.
type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
	HealthDeceased  Health = "deceased"
)

// ValidHealth is the set of accepted health values.
var ValidHealth = map[Health]bool{
	HealthExcellent: true,
	HealthGood:      true,
	HealthFair:      true,
	HealthPoor:      true,
	HealthDeceased:  true,
}

// GrowthStage describes where a plant is in its lifecycle.
type GrowthStage string

const (
	StageSeed       GrowthStage = "seed"
	StageSeedling   GrowthStage = "seedling"
	StageVegetative GrowthStage = "vegetative"
	StageFlowering  GrowthStage = "flowering"
	StageFruiting   GrowthStage = "fruiting"
	StageMature     GrowthStage = "mature"
)

// ValidGrowthStages is the set of accepted growth stages.
var ValidGrowthStages = map[GrowthStage]bool{
	StageSeed:       true,
	StageSeedling:   true,
	StageVegetative: true,
	StageFlowering:  true,
	StageFruiting:   true,
	StageMature:     true,
}

// Status values recorded in the status history.
type Status string

const (
	StatusPlanted   Status = "planted"
	StatusGrowing   Status = "growing"
	StatusMature    Status = "mature"
	StatusHarvested Status = "harvested"
	StatusDormant   Status = "dormant"
	StatusDiseased  Status = "diseased"
	StatusDead      Status = "dead"
)

// ValidStatuses is the set of accepted status values.
var ValidStatuses = map[Status]bool{
	StatusPlanted:   true,
	StatusGrowing:   true,
	StatusMature:    true,
	StatusHarvested: true,
	StatusDormant:   true,
	StatusDiseased:  true,
	StatusDead:      true,
}

// StatusEntry is one timestamped snapshot in a plant's status history.
// Entries are only ever appended, never edited or reordered.
type StatusEntry struct {
	ID                string      `json:"id"`
	PlantID           string      `json:"plant_id"`
	Date              time.Time   `json:"date"`
	Status            Status      `json:"status"`
	Health            Health      `json:"health"`
	GrowthStage       GrowthStage `json:"growth_stage"`
	Notes             string      `json:"notes,omitempty"`
	WateringAmount    float64     `json:"watering_amount,omitempty"` // liters
	FertilizerApplied string      `json:"fertilizer_applied,omitempty"`
	PestsDetected     string      `json:"pests_detected,omitempty"`
	UpdatedBy         string      `json:"updated_by"`
}

// Plant is a tracked agricultural asset. PlotID, DomainID and OrganizationID
// are all stored directly and must agree with the plot's actual parentage.
type Plant struct {
	ID                  string        `json:"id"`
	PlotID              string        `json:"plot_id"`
	DomainID            string        `json:"domain_id"`
	OrganizationID      string        `json:"organization_id"`
	Name                string        `json:"name"`
	Type                string        `json:"type"`
	Variety             string        `json:"variety,omitempty"`
	Category            string        `json:"category,omitempty"`
	Description         string        `json:"description,omitempty"`
	PlantedDate         time.Time     `json:"planted_date"`
	PlantedBy           string        `json:"planted_by"`
	Planter             string        `json:"planter,omitempty"` // display name
	Health              Health        `json:"health"`
	GrowthStage         GrowthStage   `json:"growth_stage"`
	Latitude            *float64      `json:"latitude,omitempty"`
	Longitude           *float64      `json:"longitude,omitempty"`
	ExpectedHarvestDate time.Time     `json:"expected_harvest_date,omitzero"`
	ActualHarvestDate   time.Time     `json:"actual_harvest_date,omitzero"`
	HarvestYield        float64       `json:"harvest_yield,omitempty"` // kg
	StatusHistory       []StatusEntry `json:"status_history,omitempty"`
	Active              bool          `json:"active"`
	// Editable is computed per caller by the editability evaluator; it is
	// never persisted.
	Editable  bool      `json:"editable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields accepted when creating a plant. The
// containment fields are validated and normalized by the creation guard;
// PlantedBy is always stamped from the caller, never from the payload.
type CreateRequest struct {
	PlotID              string      `json:"plot_id,omitempty"`
	DomainID            string      `json:"domain_id,omitempty"`
	OrganizationID      string      `json:"organization_id,omitempty"`
	Name                string      `json:"name"`
	Type                string      `json:"type"`
	Variety             string      `json:"variety,omitempty"`
	Category            string      `json:"category,omitempty"`
	Description         string      `json:"description,omitempty"`
	PlantedDate         time.Time   `json:"planted_date"`
	Planter             string      `json:"planter,omitempty"`
	Health              Health      `json:"health,omitempty"`
	GrowthStage         GrowthStage `json:"growth_stage,omitempty"`
	Latitude            *float64    `json:"latitude,omitempty"`
	Longitude           *float64    `json:"longitude,omitempty"`
	ExpectedHarvestDate time.Time   `json:"expected_harvest_date,omitzero"`
}

// Validate checks required fields and enum values.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("plant name is required")
	}
	if r.Type == "" {
		return errors.New("plant type is required")
	}
	if r.PlantedDate.IsZero() {
		return errors.New("planted date is required")
	}
	if r.Health != "" && !ValidHealth[r.Health] {
		return errors.New("invalid health value")
	}
	if r.GrowthStage != "" && !ValidGrowthStages[r.GrowthStage] {
		return errors.New("invalid growth stage")
	}
	return nil
}

// UpdateRequest holds the fields that can change on a plant.
type UpdateRequest struct {
	Name                string      `json:"name,omitempty"`
	Type                string      `json:"type,omitempty"`
	Variety             string      `json:"variety,omitempty"`
	Category            string      `json:"category,omitempty"`
	Description         string      `json:"description,omitempty"`
	Health              Health      `json:"health,omitempty"`
	GrowthStage         GrowthStage `json:"growth_stage,omitempty"`
	Latitude            *float64    `json:"latitude,omitempty"`
	Longitude           *float64    `json:"longitude,omitempty"`
	ExpectedHarvestDate time.Time   `json:"expected_harvest_date,omitzero"`
	HarvestYield        *float64    `json:"harvest_yield,omitempty"`
}

// Validate checks enum values on the updated fields.
func (r *UpdateRequest) Validate() error {
	if r.Health != "" && !ValidHealth[r.Health] {
		return errors.New("invalid health value")
	}
	if r.GrowthStage != "" && !ValidGrowthStages[r.GrowthStage] {
		return errors.New("invalid growth stage")
	}
	return nil
}

// StatusRequest is the input for appending a status snapshot.
type StatusRequest struct {
	Status            Status      `json:"status"`
	Health            Health      `json:"health"`
	GrowthStage       GrowthStage `json:"growth_stage"`
	Notes             string      `json:"notes,omitempty"`
	WateringAmount    float64     `json:"watering_amount,omitempty"`
	FertilizerApplied string      `json:"fertilizer_applied,omitempty"`
	PestsDetected     string      `json:"pests_detected,omitempty"`
}

// Validate checks that the snapshot carries the three required dimensions.
func (r *StatusRequest) Validate() error {
	if !ValidStatuses[r.Status] {
		return errors.New("invalid status value")
	}
	if !ValidHealth[r.Health] {
		return errors.New("invalid health value")
	}
	if !ValidGrowthStages[r.GrowthStage] {
		return errors.New("invalid growth stage")
	}
	return nil
}
