package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/croftlabs/verdant/internal/access"
	"github.com/croftlabs/verdant/internal/domain/user"
)

const userCols = `id, username, email, password_hash, first_name, last_name, phone, role,
	organization_id, domain_id, plot_ids, is_enabled, last_login, created_at, updated_at`

func scanUser(row scannable) (user.User, error) {
	var (
		u         user.User
		orgID     *string
		domainID  *string
		lastLogin *time.Time
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &orgID, &domainID, &u.PlotIDs, &u.Enabled, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	u.OrganizationID = strOrEmpty(orgID)
	u.DomainID = strOrEmpty(domainID)
	u.LastLogin = timeOrZero(lastLogin)
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, pred access.Predicate, page access.Page) ([]user.User, int, error) {
	where, args, err := whereClause(pred, userColumns)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE `+where+orderCreatedRecent+pageSuffix(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get user %s", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundWrap(err, "get user by email")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone, role,
		    organization_id, domain_id, plot_ids, is_enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role,
		nullIfEmpty(u.OrganizationID), nullIfEmpty(u.DomainID), pgTextArray(u.PlotIDs), u.Enabled,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, first_name = $3, last_name = $4, phone = $5, role = $6,
		    domain_id = $7, plot_ids = $8, is_enabled = $9, updated_at = $10
		 WHERE id = $1`,
		u.ID, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role,
		nullIfEmpty(u.DomainID), pgTextArray(u.PlotIDs), u.Enabled, u.UpdatedAt)
	return execExpectOne(tag, err, "update user %s", u.ID)
}

func (s *Store) DeactivateUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET is_enabled = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "deactivate user %s", id)
}

func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return execExpectOne(tag, err, "touch last login %s", id)
}
