package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/croftlabs/verdant/internal/access"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// scannable abstracts pgx.Row and pgx.Rows for shared scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// List ordering: plants surface the most recently touched record first,
// the containment entities the most recently created. id breaks ties so
// pagination stays stable.
const (
	orderPlantsRecent  = ` ORDER BY updated_at DESC, id`
	orderCreatedRecent = ` ORDER BY created_at DESC, id`
)

// pageSuffix renders the LIMIT/OFFSET tail for a normalized page. The zero
// page means unpaginated and renders nothing.
func pageSuffix(page access.Page) string {
	if page.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset())
}

// nullIfEmpty returns nil for empty strings (for nullable reference columns).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// strOrEmpty unwraps a nullable text column.
func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullTime converts a zero time to nil for nullable DB columns.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// timeOrZero unwraps a nullable timestamp column.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// pgTextArray converts a string slice to a pgx-compatible text array.
// nil slices become empty arrays to avoid SQL NULL.
func pgTextArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
