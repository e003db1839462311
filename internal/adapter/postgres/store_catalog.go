package postgres

import (
	"context"
	"fmt"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/catalog"
)

const categoryCols = `id, organization_id, name, display_name, emoji, description, is_active, created_by, created_at, updated_at`

func scanCategory(row scannable) (catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.DisplayName, &c.Emoji, &c.Description,
		&c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListCategories(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.Category, int, error) {
	where, args, err := whereClause(pred, categoryColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE `+where+` ORDER BY display_name`+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := []catalog.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, total, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+categoryCols+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		return nil, notFoundWrap(err, "get category %s", id)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, organization_id, name, display_name, emoji, description, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.OrganizationID, c.Name, c.DisplayName, c.Emoji, c.Description, c.Active, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET display_name = $2, emoji = $3, description = $4, is_active = $5, updated_at = $6
		 WHERE id = $1`,
		c.ID, c.DisplayName, c.Emoji, c.Description, c.Active, c.UpdatedAt)
	return execExpectOne(tag, err, "update category %s", c.ID)
}

func (s *Store) DeactivateCategory(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate category %s", id)
}

const plantTypeCols = `id, organization_id, name, category, emoji, description, is_active, created_by, created_at, updated_at`

func scanPlantType(row scannable) (catalog.PlantType, error) {
	var pt catalog.PlantType
	err := row.Scan(&pt.ID, &pt.OrganizationID, &pt.Name, &pt.Category, &pt.Emoji, &pt.Description,
		&pt.Active, &pt.CreatedBy, &pt.CreatedAt, &pt.UpdatedAt)
	return pt, err
}

func (s *Store) ListPlantTypes(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantType, int, error) {
	where, args, err := whereClause(pred, plantTypeColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list plant types: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plant_types WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plant types: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+plantTypeCols+` FROM plant_types WHERE `+where+` ORDER BY name`+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list plant types: %w", err)
	}
	defer rows.Close()

	types := []catalog.PlantType{}
	for rows.Next() {
		pt, err := scanPlantType(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plant type: %w", err)
		}
		types = append(types, pt)
	}
	return types, total, rows.Err()
}

func (s *Store) GetPlantType(ctx context.Context, id string) (*catalog.PlantType, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+plantTypeCols+` FROM plant_types WHERE id = $1`, id)
	pt, err := scanPlantType(row)
	if err != nil {
		return nil, notFoundWrap(err, "get plant type %s", id)
	}
	return &pt, nil
}

func (s *Store) CreatePlantType(ctx context.Context, pt *catalog.PlantType) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plant_types (id, organization_id, name, category, emoji, description, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pt.ID, pt.OrganizationID, pt.Name, pt.Category, pt.Emoji, pt.Description, pt.Active, pt.CreatedBy, pt.CreatedAt, pt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plant type: %w", err)
	}
	return nil
}

func (s *Store) UpdatePlantType(ctx context.Context, pt *catalog.PlantType) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plant_types SET category = $2, emoji = $3, description = $4, is_active = $5, updated_at = $6
		 WHERE id = $1`,
		pt.ID, pt.Category, pt.Emoji, pt.Description, pt.Active, pt.UpdatedAt)
	return execExpectOne(tag, err, "update plant type %s", pt.ID)
}

func (s *Store) DeactivatePlantType(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plant_types SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate plant type %s", id)
}

const plantVarietyCols = `id, organization_id, plant_type_id, name, characteristics, is_active, created_by, created_at, updated_at`

func scanPlantVariety(row scannable) (catalog.PlantVariety, error) {
	var v catalog.PlantVariety
	err := row.Scan(&v.ID, &v.OrganizationID, &v.PlantTypeID, &v.Name, &v.Characteristics,
		&v.Active, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) ListPlantVarieties(ctx context.Context, pred access.Predicate, page access.Page) ([]catalog.PlantVariety, int, error) {
	where, args, err := whereClause(pred, plantVarietyColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list plant varieties: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plant_varieties WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count plant varieties: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+plantVarietyCols+` FROM plant_varieties WHERE `+where+` ORDER BY name`+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list plant varieties: %w", err)
	}
	defer rows.Close()

	varieties := []catalog.PlantVariety{}
	for rows.Next() {
		v, err := scanPlantVariety(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan plant variety: %w", err)
		}
		varieties = append(varieties, v)
	}
	return varieties, total, rows.Err()
}

func (s *Store) GetPlantVariety(ctx context.Context, id string) (*catalog.PlantVariety, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+plantVarietyCols+` FROM plant_varieties WHERE id = $1`, id)
	v, err := scanPlantVariety(row)
	if err != nil {
		return nil, notFoundWrap(err, "get plant variety %s", id)
	}
	return &v, nil
}

func (s *Store) CreatePlantVariety(ctx context.Context, v *catalog.PlantVariety) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plant_varieties (id, organization_id, plant_type_id, name, characteristics, is_active, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.OrganizationID, v.PlantTypeID, v.Name, v.Characteristics, v.Active, v.CreatedBy, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create plant variety: %w", err)
	}
	return nil
}

func (s *Store) UpdatePlantVariety(ctx context.Context, v *catalog.PlantVariety) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plant_varieties SET name = $2, characteristics = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		v.ID, v.Name, v.Characteristics, v.Active, v.UpdatedAt)
	return execExpectOne(tag, err, "update plant variety %s", v.ID)
}

func (s *Store) DeactivatePlantVariety(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plant_varieties SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate plant variety %s", id)
}
