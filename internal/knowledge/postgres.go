package knowledge

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore archives the insight stream in a table for durable
// cross-consumer queries. Schema ownership stays with the host; the
// store only assumes the insights table exists.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an existing sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgresStore connects to Postgres with the given DSN.
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Append inserts the insight record.
func (s *PostgresStore) Append(ctx context.Context, insight Insight) error {
	const q = `INSERT INTO insights (id, source, kind, payload, created_at)
	           VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, q,
		insight.ID, insight.Source, insight.Kind, []byte(insight.Payload), insight.CreatedAt); err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// Recent returns up to limit insights, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Insight, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT id, source, kind, payload, created_at
	           FROM insights ORDER BY created_at DESC LIMIT $1`
	var out []Insight
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("select insights: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
