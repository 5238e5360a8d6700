package history

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS calc_history (
	id         BIGSERIAL PRIMARY KEY,
	input      TEXT NOT NULL,
	output     TEXT NOT NULL,
	failed     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps history in the calc_history table, trimmed to the
// newest limit rows on every append.
type PostgresStore struct {
	db    *sqlx.DB
	limit int
}

// NewPostgresStore connects to dsn and creates the table when missing.
func NewPostgresStore(dsn string, limit int) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	log.WithField("limit", limit).Info("Connected to history database")
	return &PostgresStore{db: db, limit: limit}, nil
}

func (s *PostgresStore) Append(ctx context.Context, e Entry) (Entry, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return e, err
	}
	defer tx.Rollback()

	row := tx.QueryRowxContext(ctx,
		`INSERT INTO calc_history (input, output, failed) VALUES ($1, $2, $3) RETURNING id, created_at`,
		e.Input, e.Output, e.Failed,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return e, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM calc_history WHERE id NOT IN (SELECT id FROM calc_history ORDER BY id DESC LIMIT $1)`,
		s.limit,
	); err != nil {
		return e, err
	}
	return e, tx.Commit()
}

func (s *PostgresStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}
	entries := make([]Entry, 0, n)
	err := s.db.SelectContext(ctx, &entries,
		`SELECT id, input, output, failed, created_at FROM calc_history ORDER BY id DESC LIMIT $1`, n)
	return entries, err
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE calc_history`)
	return err
}

func (s *PostgresStore) Close() error { return s.db.Close() }
