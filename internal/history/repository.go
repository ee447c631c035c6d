// Package history keeps an append-only table of rendered queries in Postgres.
package history

import (
	"context"
	"fmt"
	"time"

	"amenitymap/internal/amenity"
	"amenitymap/internal/events"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one row of the history table.
type Entry struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"-"`
	Name        string       `json:"name"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Amenity     amenity.Type `json:"amenity"`
	ResultCount int          `json:"resultCount"`
	RenderedAt  time.Time    `json:"renderedAt"`
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db DBTX
}

func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// Record stores ev. It implements events.Recorder; a replayed event id is
// ignored.
func (r *Repository) Record(ctx context.Context, ev events.Rendered) error {
	query := `
		INSERT INTO render_history
			(id, session_id, name, latitude, longitude, amenity, result_count, rendered_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		ev.ID,
		ev.SessionID,
		ev.Name,
		ev.Center.Lat,
		ev.Center.Lon,
		string(ev.Amenity),
		ev.ResultCount(),
		ev.RenderedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record render: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first. limit is clamped to
// [1, MaxLimit]; zero or less means DefaultLimit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, session_id, name, latitude, longitude, amenity, result_count, rendered_at
		FROM render_history ORDER BY rendered_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	items := make([]Entry, 0)
	for rows.Next() {
		var (
			item Entry
			kind string
		)
		if err := rows.Scan(
			&item.ID,
			&item.SessionID,
			&item.Name,
			&item.Latitude,
			&item.Longitude,
			&kind,
			&item.ResultCount,
			&item.RenderedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		item.Amenity = amenity.Type(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return items, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
