package postgres

import (
	"context"
	"fmt"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/plot"
)

const plotCols = `id, domain_id, organization_id, name, description, size, soil_type, irrigation_type, sun_exposure,
	latitude, longitude, owner_name, owner_mobile, registered_at, is_active, created_by, created_at, updated_at`

func scanPlot(row scannable) (plot.Plot, error) {
	var p plot.Plot
	err := row.Scan(&p.ID, &p.DomainID, &p.OrganizationID, &p.Name, &p.Description, &p.Size,
		&p.SoilType, &p.IrrigationType, &p.SunExposure, &p.Latitude, &p.Longitude,
		&p.OwnerName, &p.OwnerMobile, &p.RegisteredAt, &p.Active, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListPlots(ctx context.Context, pred access.Predicate, page access.Page) ([]plot.Plot, int, error) {
	where, args, err := whereClause(pred, plotColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list plots: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plots WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plots: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+plotCols+` FROM plots WHERE `+where+orderCreatedRecent+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	plots := []plot.Plot{}
	for rows.Next() {
		p, err := scanPlot(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plot: %w", err)
		}
		plots = append(plots, p)
	}
	return plots, total, rows.Err()
}

func (s *Store) GetPlot(ctx context.Context, id string) (*plot.Plot, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+plotCols+` FROM plots WHERE id = $1`, id)
	p, err := scanPlot(row)
	if err != nil {
		return nil, notFoundWrap(err, "get plot %s", id)
	}
	return &p, nil
}

func (s *Store) CreatePlot(ctx context.Context, p *plot.Plot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plots (id, domain_id, organization_id, name, description, size, soil_type, irrigation_type,
		    sun_exposure, latitude, longitude, owner_name, owner_mobile, registered_at, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.DomainID, p.OrganizationID, p.Name, p.Description, p.Size, p.SoilType, p.IrrigationType,
		p.SunExposure, p.Latitude, p.Longitude, p.OwnerName, p.OwnerMobile, p.RegisteredAt, p.Active,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	return nil
}

func (s *Store) UpdatePlot(ctx context.Context, p *plot.Plot) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plots SET name = $2, description = $3, size = $4, soil_type = $5, irrigation_type = $6,
		    sun_exposure = $7, latitude = $8, longitude = $9, owner_name = $10, owner_mobile = $11,
		    is_active = $12, updated_at = $13
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Size, p.SoilType, p.IrrigationType, p.SunExposure,
		p.Latitude, p.Longitude, p.OwnerName, p.OwnerMobile, p.Active, p.UpdatedAt)
	return execExpectOne(tag, err, "update plot %s", p.ID)
}

func (s *Store) DeactivatePlot(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plots SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate plot %s", id)
}
