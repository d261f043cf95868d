package scan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/anujgupta2in/Manualsscan/idgen"
	"github.com/anujgupta2in/Manualsscan/scan/internal/store"
	"github.com/anujgupta2in/Manualsscan/titlescan"
)

// ErrScanNotFound is returned when the ID names neither a running scan nor
// one in history.
var ErrScanNotFound = errors.New("scan: not found")

// StoreSchema is the scan history schema, re-exported so binaries can apply
// it when opening the database.
const StoreSchema = store.Schema

// ScanInfo is the externally visible state of a scan, current or historical.
type ScanInfo struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Status     string    `json:"status"` // running, done, stopped, failed
	StartedAt  int64     `json:"started_at"`
	FinishedAt int64     `json:"finished_at,omitempty"`
	Counters   Counters  `json:"counters"`
	Progress   *Progress `json:"progress,omitempty"` // only while running
}

// job is one background scan run.
type job struct {
	id      string
	root    string
	workers int
	cancel  context.CancelFunc

	mu       sync.Mutex
	progress Progress
}

// Manager runs scans in the background, exposes their live progress, and
// keeps finished runs in SQLite history.
type Manager struct {
	scanner *Scanner
	store   *store.Store
	newID   idgen.Generator
	logger  *slog.Logger

	mu   sync.Mutex
	jobs map[string]*job
}

// NewManager wires a Manager. db must already carry the store schema.
func NewManager(scanner *Scanner, db *sql.DB, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		scanner: scanner,
		store:   store.NewStore(db),
		newID:   idgen.Prefixed("scn_", idgen.UUIDv7()),
		logger:  logger,
		jobs:    make(map[string]*job),
	}
}

// StartScan validates root and launches a background scan, returning its ID
// immediately. workers overrides the configured pool size for this scan;
// <= 0 keeps the default. ctx bounds the whole service, not the call:
// cancelling it stops every running scan.
func (m *Manager) StartScan(ctx context.Context, root string, workers int) (string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %s is not a directory", root)
	}
	if workers > maxWorkers {
		return "", fmt.Errorf("workers = %d exceeds the maximum of %d", workers, maxWorkers)
	}

	id := m.newID()
	if err := m.store.CreateScan(ctx, id, root); err != nil {
		return "", fmt.Errorf("create scan record: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	j := &job{id: id, root: root, workers: workers, cancel: cancel}

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	go m.run(runCtx, j)
	return id, nil
}

// run executes one scan to completion and retires the job into history. A
// stopped scan still persists the results of every file it finished.
func (m *Manager) run(ctx context.Context, j *job) {
	defer j.cancel()

	report, err := m.scanner.run(ctx, j.root, j.workers, func(p Progress) {
		j.mu.Lock()
		j.progress = p
		j.mu.Unlock()
	})

	rec := &store.Scan{ID: j.id, Status: "done"}
	switch {
	case errors.Is(err, context.Canceled):
		rec.Status = "stopped"
	case err != nil:
		rec.Status = "failed"
		m.logger.Error("scan failed", "id", j.id, "root", j.root, "error", err)
	}

	if report != nil {
		rec.Processed = report.Counters.Processed
		rec.Success = report.Counters.Success
		rec.Unsupported = report.Counters.Unsupported
		rec.OCRMissing = report.Counters.OCRMissing
		rec.Errors = report.Counters.Errors

		rows := make([]*store.Result, len(report.Results))
		for i, r := range report.Results {
			rows[i] = &store.Result{
				ScanID:       j.id,
				FileName:     r.FileName,
				RelativePath: r.RelativePath,
				FileType:     string(r.FileType),
				ManualName:   r.ManualName,
				Confidence:   string(r.Confidence),
				Clues:        strings.Join(r.Clues, "; "),
				Notes:        r.Notes,
			}
		}
		if err := m.store.InsertResults(context.Background(), rows); err != nil {
			m.logger.Error("persist results", "id", j.id, "error", err)
		}
	}

	if err := m.store.FinishScan(context.Background(), rec); err != nil {
		m.logger.Error("finish scan record", "id", j.id, "error", err)
	}

	m.mu.Lock()
	delete(m.jobs, j.id)
	m.mu.Unlock()
}

// StopScan cancels a running scan between files. Stopping a scan that
// already finished is not an error.
func (m *Manager) StopScan(ctx context.Context, id string) error {
	m.mu.Lock()
	j, running := m.jobs[id]
	m.mu.Unlock()

	if running {
		j.cancel()
		return nil
	}

	sc, err := m.store.GetScan(ctx, id)
	if err != nil {
		return err
	}
	if sc == nil {
		return ErrScanNotFound
	}
	return nil
}

// GetScan returns a scan's state: live progress while it runs, final
// counters from history afterwards.
func (m *Manager) GetScan(ctx context.Context, id string) (*ScanInfo, error) {
	sc, err := m.store.GetScan(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrScanNotFound
	}
	info := scanInfo(sc)

	m.mu.Lock()
	j, running := m.jobs[id]
	m.mu.Unlock()
	if running {
		j.mu.Lock()
		p := j.progress
		j.mu.Unlock()
		info.Progress = &p
	}
	return info, nil
}

// ListScans returns scan history, most recent first.
func (m *Manager) ListScans(ctx context.Context, limit int) ([]*ScanInfo, error) {
	scans, err := m.store.ListScans(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*ScanInfo, len(scans))
	for i, sc := range scans {
		out[i] = scanInfo(sc)
	}
	return out, nil
}

// Results returns a finished or running scan's persisted file records.
func (m *Manager) Results(ctx context.Context, id string) ([]Result, error) {
	sc, err := m.store.GetScan(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrScanNotFound
	}

	rows, err := m.store.ResultsForScan(ctx, id)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(rows))
	for i, r := range rows {
		var clues []string
		if r.Clues != "" {
			clues = strings.Split(r.Clues, "; ")
		}
		results[i] = Result{
			FileName:     r.FileName,
			RelativePath: r.RelativePath,
			FileType:     titlescan.DocType(r.FileType),
			ManualName:   r.ManualName,
			Confidence:   titlescan.Confidence(r.Confidence),
			Clues:        clues,
			Notes:        r.Notes,
		}
	}
	return results, nil
}

func scanInfo(sc *store.Scan) *ScanInfo {
	return &ScanInfo{
		ID:         sc.ID,
		Root:       sc.Root,
		Status:     sc.Status,
		StartedAt:  sc.StartedAt,
		FinishedAt: sc.FinishedAt,
		Counters: Counters{
			Processed:   sc.Processed,
			Success:     sc.Success,
			Unsupported: sc.Unsupported,
			OCRMissing:  sc.OCRMissing,
			Errors:      sc.Errors,
		},
	}
}
