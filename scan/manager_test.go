package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anujgupta2in/Manualsscan/dbopen"
	"github.com/anujgupta2in/Manualsscan/scan/internal/store"
	_ "modernc.org/sqlite"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema))
	return NewManager(NewScanner(Config{SkipHidden: true}, nil), db, nil)
}

// waitDone polls until the scan leaves the running state.
func waitDone(t *testing.T, m *Manager, id string) *ScanInfo {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		info, err := m.GetScan(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if info.Status != "running" {
			return info
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("scan did not finish in time")
	return nil
}

func TestManagerScanLifecycle(t *testing.T) {
	root := writeTree(t)
	m := newTestManager(t)

	id, err := m.StartScan(context.Background(), root, 0)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty scan id")
	}

	info := waitDone(t, m, id)
	if info.Status != "done" {
		t.Fatalf("status = %q, want done", info.Status)
	}
	if info.Counters.Processed != 4 {
		t.Errorf("processed = %d, want 4", info.Counters.Processed)
	}
	if info.FinishedAt == 0 {
		t.Error("FinishedAt not set")
	}

	results, err := m.Results(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d persisted results, want 4", len(results))
	}

	manual := findResult(t, results, "engine.txt")
	if manual.Notes != StatusSuccess || manual.ManualName == "" {
		t.Errorf("persisted manual record = %+v", manual)
	}
	if len(manual.Clues) == 0 {
		t.Error("clues lost in persistence round trip")
	}

	scans, err := m.ListScans(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 1 || scans[0].ID != id {
		t.Errorf("history = %+v", scans)
	}
}

func TestManagerStartScanBadRoot(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.StartScan(context.Background(), "/does/not/exist", 0); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestManagerWorkersOverride(t *testing.T) {
	root := writeTree(t)
	m := newTestManager(t)

	id, err := m.StartScan(context.Background(), root, 4)
	if err != nil {
		t.Fatal(err)
	}
	info := waitDone(t, m, id)
	if info.Status != "done" || info.Counters.Processed != 4 {
		t.Fatalf("pooled scan info = %+v", info)
	}

	if _, err := m.StartScan(context.Background(), root, maxWorkers+1); err == nil {
		t.Fatal("expected error for oversized worker pool")
	}
}

func TestManagerNotFound(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.GetScan(context.Background(), "scn_missing"); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("GetScan = %v, want ErrScanNotFound", err)
	}
	if _, err := m.Results(context.Background(), "scn_missing"); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("Results = %v, want ErrScanNotFound", err)
	}
	if err := m.StopScan(context.Background(), "scn_missing"); !errors.Is(err, ErrScanNotFound) {
		t.Errorf("StopScan = %v, want ErrScanNotFound", err)
	}
}

func TestManagerStopPersistsPartialResults(t *testing.T) {
	// WHAT: a scan stopped mid-run lands in history with status "stopped",
	// its counters, and a record for every file it finished.
	// WHY: cancel is a user action, not a failure; the partial inventory
	// still gets listed and exported.
	root := t.TempDir()
	filler := strings.Repeat("PIPING ARRANGEMENT FOR COOLING WATER SYSTEM\n", 400)
	for i := range 60 {
		path := filepath.Join(root, fmt.Sprintf("doc%02d.txt", i))
		if err := os.WriteFile(path, []byte("TITLE: COOLING WATER SYSTEM PLAN\n"+filler), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := newTestManager(t)
	id := m.newID()
	if err := m.store.CreateScan(context.Background(), id, root); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &job{id: id, root: root, cancel: cancel}
	go func() {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			j.mu.Lock()
			p := j.progress
			j.mu.Unlock()
			if p.Processed >= 2 {
				cancel()
				return
			}
			time.Sleep(100 * time.Microsecond)
		}
	}()
	m.run(ctx, j)

	info, err := m.GetScan(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if info.Status != "stopped" {
		t.Fatalf("status = %q, want stopped", info.Status)
	}
	if info.Counters.Processed < 2 || info.Counters.Processed >= 60 {
		t.Fatalf("processed = %d, want a partial count", info.Counters.Processed)
	}

	results, err := m.Results(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != info.Counters.Processed {
		t.Fatalf("persisted %d results, counters say %d", len(results), info.Counters.Processed)
	}
	if results[0].ManualName == "" || results[0].Notes != StatusSuccess {
		t.Fatalf("partial record incomplete: %+v", results[0])
	}
}

func TestManagerStopFinishedScan(t *testing.T) {
	root := writeTree(t)
	m := newTestManager(t)

	id, err := m.StartScan(context.Background(), root, 0)
	if err != nil {
		t.Fatal(err)
	}
	waitDone(t, m, id)

	// Stopping an already finished scan is a no-op, not an error.
	if err := m.StopScan(context.Background(), id); err != nil {
		t.Fatalf("StopScan after finish: %v", err)
	}
}
