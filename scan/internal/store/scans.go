package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/anujgupta2in/Manualsscan/dbopen"
)

// CreateScan records a new running scan.
func (s *Store) CreateScan(ctx context.Context, id, root string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO scans (id, root, status, started_at) VALUES (?, ?, 'running', ?)`,
		id, root, time.Now().UnixMilli())
	return err
}

// FinishScan closes a scan with its final status and counters.
func (s *Store) FinishScan(ctx context.Context, sc *Scan) error {
	if sc.FinishedAt == 0 {
		sc.FinishedAt = time.Now().UnixMilli()
	}
	_, err := dbopen.Exec(ctx, s.DB,
		`UPDATE scans SET status = ?, finished_at = ?, processed = ?, success = ?,
		 unsupported = ?, ocr_missing = ?, errors = ? WHERE id = ?`,
		sc.Status, sc.FinishedAt, sc.Processed, sc.Success,
		sc.Unsupported, sc.OCRMissing, sc.Errors, sc.ID)
	return err
}

// GetScan retrieves a scan by ID. A missing scan returns (nil, nil).
func (s *Store) GetScan(ctx context.Context, id string) (*Scan, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, root, status, started_at, COALESCE(finished_at, 0),
		 processed, success, unsupported, ocr_missing, errors
		 FROM scans WHERE id = ?`, id)

	var sc Scan
	err := row.Scan(&sc.ID, &sc.Root, &sc.Status, &sc.StartedAt, &sc.FinishedAt,
		&sc.Processed, &sc.Success, &sc.Unsupported, &sc.OCRMissing, &sc.Errors)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListScans returns scan history, most recent first.
func (s *Store) ListScans(ctx context.Context, limit int) ([]*Scan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, root, status, started_at, COALESCE(finished_at, 0),
		 processed, success, unsupported, ocr_missing, errors
		 FROM scans ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.Root, &sc.Status, &sc.StartedAt, &sc.FinishedAt,
			&sc.Processed, &sc.Success, &sc.Unsupported, &sc.OCRMissing, &sc.Errors); err != nil {
			return nil, err
		}
		scans = append(scans, &sc)
	}
	return scans, rows.Err()
}

// InsertResults writes a scan's file records in one transaction. The write
// retries on SQLITE_BUSY since the rate limiter reloader shares the database.
func (s *Store) InsertResults(ctx context.Context, results []*Result) error {
	if len(results) == 0 {
		return nil
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO scan_results (scan_id, file_name, relative_path, file_type,
			 manual_name, confidence, clues, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range results {
			if _, err := stmt.ExecContext(ctx, r.ScanID, r.FileName, r.RelativePath,
				r.FileType, r.ManualName, r.Confidence, r.Clues, r.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}

// ResultsForScan returns a scan's file records in insertion order.
func (s *Store) ResultsForScan(ctx context.Context, scanID string) ([]*Result, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT scan_id, file_name, relative_path, file_type, manual_name,
		 confidence, clues, notes FROM scan_results WHERE scan_id = ? ORDER BY rowid`,
		scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ScanID, &r.FileName, &r.RelativePath, &r.FileType,
			&r.ManualName, &r.Confidence, &r.Clues, &r.Notes); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}
