package store

import (
	"context"
	"database/sql"
	"fmt"

	"petapintar/internal/models"
)

type locationStore struct {
	db *sql.DB
}

// Locations returns the location repository backed by this database.
func (d *DB) Locations() LocationStore {
	return &locationStore{db: d.db}
}

const locationColumns = `id, name, category, lat, lng, description, address, phone,
	owner_name, whatsapp, operating_hours, image_url, partnership, status, created_at`

func scanLocation(row interface{ Scan(...any) error }) (models.Location, error) {
	var l models.Location
	err := row.Scan(
		&l.ID, &l.Name, &l.Category, &l.Lat, &l.Lng,
		&l.Description, &l.Address, &l.Phone,
		&l.OwnerName, &l.Whatsapp, &l.OperatingHours,
		&l.ImageURL, &l.Partnership, &l.Status, &l.CreatedAt,
	)
	return l, err
}

// QueryAll returns every location, newest first.
func (s *locationStore) QueryAll(ctx context.Context) ([]models.Location, error) {
	q := fmt.Sprintf(`SELECT %s FROM locations ORDER BY created_at DESC`, locationColumns)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

const insertLocationSQL = `
	INSERT INTO locations (` + locationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func locationArgs(l models.Location) []any {
	return []any{
		l.ID, l.Name, l.Category, l.Lat, l.Lng,
		l.Description, l.Address, l.Phone,
		l.OwnerName, l.Whatsapp, l.OperatingHours,
		l.ImageURL, l.Partnership, l.Status, l.CreatedAt,
	}
}

func (s *locationStore) Insert(ctx context.Context, l models.Location) error {
	_, err := s.db.ExecContext(ctx, insertLocationSQL, locationArgs(l)...)
	return err
}

// InsertBatch inserts a set of imported locations inside one transaction so a
// failed import does not leave half the spreadsheet behind.
func (s *locationStore) InsertBatch(ctx context.Context, locs []models.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, l := range locs {
		if _, err := tx.ExecContext(ctx, insertLocationSQL, locationArgs(l)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update overwrites every mutable column of the row with the given ID.
// created_at is deliberately excluded.
func (s *locationStore) Update(ctx context.Context, l models.Location) error {
	const q = `
		UPDATE locations SET
			name = $2, category = $3, lat = $4, lng = $5, description = $6,
			address = $7, phone = $8, owner_name = $9, whatsapp = $10,
			operating_hours = $11, image_url = $12, partnership = $13, status = $14
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q,
		l.ID, l.Name, l.Category, l.Lat, l.Lng, l.Description,
		l.Address, l.Phone, l.OwnerName, l.Whatsapp,
		l.OperatingHours, l.ImageURL, l.Partnership, l.Status,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("location %s not found", l.ID)
	}
	return nil
}

func (s *locationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	return err
}
