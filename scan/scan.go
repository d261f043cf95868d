// Package scan walks a folder of ship documents, runs each file through the
// docread extraction layer and the titlescan engine, and aggregates the
// per-file records into a report with counters, persistence, XLSX export and
// Prometheus metrics.
//
// Scanner is the synchronous engine; Manager runs scans in the background
// with live progress, cancellation between files and SQLite history.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anujgupta2in/Manualsscan/docread"
	"github.com/anujgupta2in/Manualsscan/titlescan"
)

// Scanner runs one folder scan at a time. Safe for concurrent use; each Run
// keeps its own state.
type Scanner struct {
	cfg     Config
	reader  *docread.Reader
	metrics *Metrics
	logger  *slog.Logger
}

// NewScanner builds a Scanner. metrics may be nil when nothing scrapes them.
func NewScanner(cfg Config, metrics *Metrics) *Scanner {
	cfg.defaults()
	return &Scanner{
		cfg:     cfg,
		reader:  docread.New(cfg.Read),
		metrics: metrics,
		logger:  cfg.Logger,
	}
}

// Run scans root and returns a record per regular file found. onProgress,
// when non-nil, is called after every processed file. Per-file failures
// become Result records, never run failures. Cancellation stops between
// files and returns the context error together with a report covering every
// file processed so far, so a stopped scan keeps its partial results.
func (s *Scanner) Run(ctx context.Context, root string, onProgress func(Progress)) (*Report, error) {
	return s.run(ctx, root, s.cfg.Workers, onProgress)
}

// run is Run with a per-call worker count; workers <= 0 falls back to the
// configured default.
func (s *Scanner) run(ctx context.Context, root string, workers int, onProgress func(Progress)) (*Report, error) {
	if workers <= 0 {
		workers = s.cfg.Workers
	}
	files, err := s.collectFiles(root)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scan started", "root", root, "files", len(files), "workers", workers)
	if s.metrics != nil {
		s.metrics.ScanStarted()
		defer s.metrics.ScanFinished()
	}

	results := make([]Result, len(files))
	processed := 0
	var runErr error
	if workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			results[i] = s.processFile(ctx, root, path)
			processed = i + 1
			if onProgress != nil {
				onProgress(Progress{CurrentFile: path, Processed: processed, Total: len(files)})
			}
		}
	} else {
		processed, runErr = s.runPool(ctx, root, workers, files, results, onProgress)
	}

	report := &Report{Root: root, Results: results[:processed]}
	for _, r := range report.Results {
		report.Counters.record(r)
	}
	s.logger.Info("scan finished", "root", root,
		"processed", report.Counters.Processed,
		"success", report.Counters.Success,
		"errors", report.Counters.Errors)
	return report, runErr
}

// runPool fans files out to a bounded worker pool. Results land at their
// file's index, so output order matches walk order regardless of scheduling.
// It returns how many leading files completed; on cancellation the feed
// stops but every file already handed out is finished and counted.
func (s *Scanner) runPool(ctx context.Context, root string, workers int, files []string, results []Result, onProgress func(Progress)) (int, error) {
	type task struct {
		idx  int
		path string
	}
	tasks := make(chan task)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				res := s.processFile(ctx, root, t.path)
				mu.Lock()
				results[t.idx] = res
				done++
				if onProgress != nil {
					onProgress(Progress{CurrentFile: t.path, Processed: done, Total: len(files)})
				}
				mu.Unlock()
			}
		}()
	}

	fed := 0
	var err error
feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case tasks <- task{i, path}:
			fed = i + 1
		}
	}
	close(tasks)
	wg.Wait()
	return fed, err
}

// collectFiles lists the regular files under root in walk order.
func (s *Scanner) collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			s.logger.Warn("walk error", "path", path, "error", walkErr)
			return nil
		}
		if s.cfg.SkipHidden && isHidden(d.Name()) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// processFile turns one file into a Result. Extraction failures become
// status strings; identification and classification run regardless, on
// whatever text was obtained.
func (s *Scanner) processFile(ctx context.Context, root, path string) Result {
	start := time.Now()

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	fileName := filepath.Base(path)
	folder := filepath.Dir(path)

	var (
		text  string
		meta  map[string]string
		notes = StatusSuccess
	)
	doc, err := s.reader.Read(ctx, path)
	switch {
	case errors.Is(err, docread.ErrLegacyDoc):
		notes = StatusLegacyDoc
	case errors.Is(err, docread.ErrUnsupportedFormat):
		notes = StatusUnsupported
	case err != nil:
		notes = "Error: " + err.Error()
	default:
		text = doc.Text
		meta = doc.Metadata
		if strings.TrimSpace(text) == "" {
			notes = StatusNoText
		}
	}

	name := titlescan.IdentifyManualName(text, fileName, folder, meta)
	docType := titlescan.ClassifyDocType(text, fileName, folder)
	confidence, clues := titlescan.ScoreConfidence(text, name, fileName, folder, meta)

	if s.metrics != nil {
		s.metrics.FileProcessed(notes, time.Since(start))
	}
	s.logger.Debug("file processed", "path", rel, "status", notes, "name", name, "type", docType)

	return Result{
		FileName:     fileName,
		RelativePath: rel,
		FileType:     docType,
		ManualName:   name,
		Confidence:   confidence,
		Clues:        clues,
		Notes:        notes,
	}
}
