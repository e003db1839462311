package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/plant"
)

const plantCols = `id, plot_id, domain_id, organization_id, name, type, variety, category, description,
	planted_date, planted_by, planter, health, growth_stage, latitude, longitude,
	expected_harvest_date, actual_harvest_date, harvest_yield, is_active, created_at, updated_at`

func scanPlant(row scannable) (plant.Plant, error) {
	var (
		p        plant.Plant
		expected *time.Time
		actual   *time.Time
	)
	err := row.Scan(&p.ID, &p.PlotID, &p.DomainID, &p.OrganizationID, &p.Name, &p.Type, &p.Variety,
		&p.Category, &p.Description, &p.PlantedDate, &p.PlantedBy, &p.Planter, &p.Health, &p.GrowthStage,
		&p.Latitude, &p.Longitude, &expected, &actual, &p.HarvestYield, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.ExpectedHarvestDate = timeOrZero(expected)
	p.ActualHarvestDate = timeOrZero(actual)
	return p, nil
}

func (s *Store) ListPlants(ctx context.Context, pred access.Predicate, page access.Page) ([]plant.Plant, int, error) {
	where, args, err := whereClause(pred, plantColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list plants: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plants WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plants: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+plantCols+` FROM plants WHERE `+where+orderPlantsRecent+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	plants := []plant.Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plant: %w", err)
		}
		plants = append(plants, p)
	}
	return plants, total, rows.Err()
}

func (s *Store) GetPlant(ctx context.Context, id string) (*plant.Plant, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+plantCols+` FROM plants WHERE id = $1`, id)
	p, err := scanPlant(row)
	if err != nil {
		return nil, notFoundWrap(err, "get plant %s", id)
	}
	return &p, nil
}

func (s *Store) CreatePlant(ctx context.Context, p *plant.Plant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plants (id, plot_id, domain_id, organization_id, name, type, variety, category, description,
		    planted_date, planted_by, planter, health, growth_stage, latitude, longitude,
		    expected_harvest_date, actual_harvest_date, harvest_yield, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		p.ID, p.PlotID, p.DomainID, p.OrganizationID, p.Name, p.Type, p.Variety, p.Category, p.Description,
		p.PlantedDate, p.PlantedBy, p.Planter, p.Health, p.GrowthStage, p.Latitude, p.Longitude,
		nullTime(p.ExpectedHarvestDate), nullTime(p.ActualHarvestDate), p.HarvestYield, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plant: %w", err)
	}
	return nil
}

func (s *Store) UpdatePlant(ctx context.Context, p *plant.Plant) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plants SET name = $2, type = $3, variety = $4, category = $5, description = $6,
		    health = $7, growth_stage = $8, latitude = $9, longitude = $10,
		    expected_harvest_date = $11, actual_harvest_date = $12, harvest_yield = $13,
		    is_active = $14, updated_at = $15
		 WHERE id = $1`,
		p.ID, p.Name, p.Type, p.Variety, p.Category, p.Description, p.Health, p.GrowthStage,
		p.Latitude, p.Longitude, nullTime(p.ExpectedHarvestDate), nullTime(p.ActualHarvestDate),
		p.HarvestYield, p.Active, p.UpdatedAt)
	return execExpectOne(tag, err, "update plant %s", p.ID)
}

func (s *Store) DeactivatePlant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plants SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate plant %s", id)
}

const statusCols = `id, plant_id, date, status, health, growth_stage, notes, watering_amount, fertilizer_applied, pests_detected, updated_by`

// AppendPlantStatus inserts one status snapshot. The history table has no
// UPDATE path; entries are immutable once written.
func (s *Store) AppendPlantStatus(ctx context.Context, plantID string, entry *plant.StatusEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plant_status_entries (id, plant_id, date, status, health, growth_stage, notes,
		    watering_amount, fertilizer_applied, pests_detected, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID, plantID, entry.Date, entry.Status, entry.Health, entry.GrowthStage, entry.Notes,
		entry.WateringAmount, entry.FertilizerApplied, entry.PestsDetected, entry.UpdatedBy)
	if err != nil {
		return fmt.Errorf("append plant status: %w", err)
	}
	return nil
}

// ListPlantStatus returns a plant's snapshots, oldest first.
func (s *Store) ListPlantStatus(ctx context.Context, plantID string) ([]plant.StatusEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+statusCols+` FROM plant_status_entries WHERE plant_id = $1 ORDER BY date, id`, plantID)
	if err != nil {
		return nil, fmt.Errorf("list plant status: %w", err)
	}
	defer rows.Close()

	entries := []plant.StatusEntry{}
	for rows.Next() {
		var e plant.StatusEntry
		if err := rows.Scan(&e.ID, &e.PlantID, &e.Date, &e.Status, &e.Health, &e.GrowthStage,
			&e.Notes, &e.WateringAmount, &e.FertilizerApplied, &e.PestsDetected, &e.UpdatedBy); err != nil {
			return nil, fmt.Errorf("scan plant status: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
