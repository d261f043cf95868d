package store

import "database/sql"

// Schema holds the scan history tables. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS scans (
    id           TEXT PRIMARY KEY,
    root         TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'running',
    started_at   INTEGER NOT NULL,
    finished_at  INTEGER,
    processed    INTEGER NOT NULL DEFAULT 0,
    success      INTEGER NOT NULL DEFAULT 0,
    unsupported  INTEGER NOT NULL DEFAULT 0,
    ocr_missing  INTEGER NOT NULL DEFAULT 0,
    errors       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at DESC);

CREATE TABLE IF NOT EXISTS scan_results (
    scan_id        TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
    file_name      TEXT NOT NULL,
    relative_path  TEXT NOT NULL,
    file_type      TEXT NOT NULL,
    manual_name    TEXT NOT NULL DEFAULT '',
    confidence     TEXT NOT NULL DEFAULT 'Low',
    clues          TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_results_scan ON scan_results(scan_id);
`

// Init applies the schema.
func Init(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
