// Package store is the data access layer for scan history: one row per scan
// run and one row per file record, kept in SQLite.
package store

import "database/sql"

// Store wraps an already-opened scan database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an open database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Scan is one scan run.
type Scan struct {
	ID          string `json:"id"`
	Root        string `json:"root"`
	Status      string `json:"status"` // running, done, stopped, failed
	StartedAt   int64  `json:"started_at"`
	FinishedAt  int64  `json:"finished_at,omitempty"`
	Processed   int    `json:"processed"`
	Success     int    `json:"success"`
	Unsupported int    `json:"unsupported"`
	OCRMissing  int    `json:"ocr_missing"`
	Errors      int    `json:"errors"`
}

// Result is one file record inside a scan.
type Result struct {
	ScanID       string `json:"scan_id"`
	FileName     string `json:"file_name"`
	RelativePath string `json:"relative_path"`
	FileType     string `json:"file_type"`
	ManualName   string `json:"manual_name"`
	Confidence   string `json:"confidence"`
	Clues        string `json:"clues"` // "; "-joined evidence tags
	Notes        string `json:"notes"`
}
