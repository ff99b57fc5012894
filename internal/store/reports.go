package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"petapintar/internal/models"
)

type reportStore struct {
	db *sql.DB
}

// Reports returns the change-report repository backed by this database.
func (d *DB) Reports() ReportStore {
	return &reportStore{db: d.db}
}

// QueryAll returns every pending report, newest first. The changes column is
// JSONB holding only the fields the visitor proposed to change.
func (s *reportStore) QueryAll(ctx context.Context) ([]models.ChangeReport, error) {
	const q = `SELECT report_id, pin_id, pin_name, changes, reported_at
		FROM reports ORDER BY reported_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.ChangeReport
	for rows.Next() {
		var r models.ChangeReport
		var changes []byte
		if err := rows.Scan(&r.ReportID, &r.PinID, &r.PinName, &changes, &r.ReportedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(changes, &r.Changes); err != nil {
			return nil, fmt.Errorf("decode changes for report %s: %w", r.ReportID, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *reportStore) Insert(ctx context.Context, r models.ChangeReport) error {
	changes, err := json.Marshal(r.Changes)
	if err != nil {
		return err
	}
	const q = `INSERT INTO reports (report_id, pin_id, pin_name, changes, reported_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.ExecContext(ctx, q, r.ReportID, r.PinID, r.PinName, changes, r.ReportedAt)
	return err
}

func (s *reportStore) Delete(ctx context.Context, reportID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE report_id = $1`, reportID)
	return err
}
