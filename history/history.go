// Package history records calculator inputs and their formatted outputs.
// The engine itself keeps no memory between calls; history belongs to the
// surfaces that host it.
package history

import (
	"context"
	"fmt"
	"time"
)

// Entry is one recorded calculation.
type Entry struct {
	ID        int64     `db:"id" json:"id"`
	Input     string    `db:"input" json:"input"`
	Output    string    `db:"output" json:"output"`
	Failed    bool      `db:"failed" json:"failed"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Store keeps a bounded history. Recent returns newest entries first.
type Store interface {
	Append(ctx context.Context, e Entry) (Entry, error)
	Recent(ctx context.Context, n int) ([]Entry, error)
	Clear(ctx context.Context) error
	Close() error
}

// Open builds the store named by driver: "memory" or "postgres".
func Open(driver, dsn string, limit int) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(limit), nil
	case "postgres":
		return NewPostgresStore(dsn, limit)
	}
	return nil, fmt.Errorf("unknown history driver %q", driver)
}
