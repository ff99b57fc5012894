// Package store provides PostgreSQL persistence for location and report
// records.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"petapintar/internal/models"
)

// LocationStore is the persistence contract for map locations: query-all,
// insert, update-by-id and delete-by-id, nothing more.
type LocationStore interface {
	QueryAll(ctx context.Context) ([]models.Location, error)
	Insert(ctx context.Context, loc models.Location) error
	InsertBatch(ctx context.Context, locs []models.Location) error
	Update(ctx context.Context, loc models.Location) error
	Delete(ctx context.Context, id string) error
}

// ReportStore is the persistence contract for change reports. Reports are
// never updated in place: they are inserted once and deleted once.
type ReportStore interface {
	QueryAll(ctx context.Context) ([]models.ChangeReport, error)
	Insert(ctx context.Context, report models.ChangeReport) error
	Delete(ctx context.Context, reportID string) error
}

// DB wraps the shared connection pool.
type DB struct {
	db *sql.DB
}

// Open connects to PostgreSQL through the pgx driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close releases the pool.
func (d *DB) Close() error { return d.db.Close() }

// EnsureSchema creates the two tables when they do not exist yet.
func (d *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS locations (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	category         TEXT NOT NULL,
	lat              DOUBLE PRECISION NOT NULL,
	lng              DOUBLE PRECISION NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	owner_name       TEXT NOT NULL DEFAULT '',
	whatsapp         TEXT NOT NULL DEFAULT '',
	operating_hours  TEXT NOT NULL DEFAULT '',
	image_url        TEXT NOT NULL DEFAULT '',
	partnership      TEXT NOT NULL DEFAULT 'AGENT',
	status           TEXT NOT NULL DEFAULT 'Buka',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS reports (
	report_id    TEXT PRIMARY KEY,
	pin_id       TEXT NOT NULL,
	pin_name     TEXT NOT NULL,
	changes      JSONB NOT NULL,
	reported_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	_, err := d.db.ExecContext(ctx, schema)
	return err
}
