package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree lays out a small document folder: a manual with a text layer, a
// scanned drawing with none, an unsupported spreadsheet and a legacy .doc.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	must := func(path, content string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	must(filepath.Join(root, "manuals", "engine.txt"),
		"TITLE: SPARE PARTS AND TOOLS LIST FOR MAIN ENGINE\nISSUED FOR APPROVAL\n")
	must(filepath.Join(root, "drawings", "M(A)-12 MAIN ENGINE ARRANGEMENT.txt"), "")
	must(filepath.Join(root, "misc", "table.xlsx"), "not really a workbook")
	must(filepath.Join(root, "misc", "old.doc"), "legacy binary")
	must(filepath.Join(root, ".hidden", "secret.txt"), "HIDDEN VALVE LIST PLAN")

	return root
}

func findResult(t *testing.T, results []Result, fileName string) Result {
	t.Helper()
	for _, r := range results {
		if r.FileName == fileName {
			return r
		}
	}
	t.Fatalf("no result for %q in %+v", fileName, results)
	return Result{}
}

func TestScannerRun(t *testing.T) {
	root := writeTree(t)
	s := NewScanner(Config{SkipHidden: true}, nil)

	report, err := s.Run(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Counters.Processed != 4 {
		t.Fatalf("processed %d files, want 4 (hidden dir skipped)", report.Counters.Processed)
	}

	manual := findResult(t, report.Results, "engine.txt")
	if manual.Notes != StatusSuccess {
		t.Errorf("manual notes = %q", manual.Notes)
	}
	if !strings.Contains(manual.ManualName, "Spare Parts") {
		t.Errorf("manual name = %q, want it to contain Spare Parts", manual.ManualName)
	}
	if manual.FileType != "Machinery/System Manual" {
		t.Errorf("manual type = %q", manual.FileType)
	}
	if manual.Confidence != "Med" {
		t.Errorf("manual confidence = %q, want Med (text, no metadata)", manual.Confidence)
	}

	// Empty text: name comes from the drawing-number filename strategy.
	drawing := findResult(t, report.Results, "M(A)-12 MAIN ENGINE ARRANGEMENT.txt")
	if drawing.Notes != StatusNoText {
		t.Errorf("drawing notes = %q", drawing.Notes)
	}
	if !strings.Contains(strings.ToUpper(drawing.ManualName), "MAIN ENGINE ARRANGEMENT") {
		t.Errorf("drawing name = %q, want filename-derived name", drawing.ManualName)
	}

	unsupported := findResult(t, report.Results, "table.xlsx")
	if unsupported.Notes != StatusUnsupported {
		t.Errorf("xlsx notes = %q", unsupported.Notes)
	}

	legacy := findResult(t, report.Results, "old.doc")
	if legacy.Notes != StatusLegacyDoc {
		t.Errorf("doc notes = %q", legacy.Notes)
	}

	if report.Counters.Success != 1 || report.Counters.OCRMissing != 1 || report.Counters.Unsupported != 2 {
		t.Errorf("counters = %+v", report.Counters)
	}
}

func TestScannerRunWorkerPool(t *testing.T) {
	// WHAT: a pooled run produces the same results in the same order as a
	// sequential one.
	// WHY: the engine is pure, so parallelism must only change timing.
	root := writeTree(t)

	seq, err := NewScanner(Config{SkipHidden: true}, nil).Run(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	pooled, err := NewScanner(Config{SkipHidden: true, Workers: 4}, nil).Run(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(seq.Results) != len(pooled.Results) {
		t.Fatalf("result count differs: %d vs %d", len(seq.Results), len(pooled.Results))
	}
	for i := range seq.Results {
		if seq.Results[i].FileName != pooled.Results[i].FileName {
			t.Errorf("order differs at %d: %q vs %q", i, seq.Results[i].FileName, pooled.Results[i].FileName)
		}
		if seq.Results[i].ManualName != pooled.Results[i].ManualName {
			t.Errorf("name differs for %q", seq.Results[i].FileName)
		}
	}
}

func TestScannerProgress(t *testing.T) {
	root := writeTree(t)
	s := NewScanner(Config{SkipHidden: true}, nil)

	var seen []Progress
	_, err := s.Run(context.Background(), root, func(p Progress) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 4 {
		t.Fatalf("got %d progress calls, want 4", len(seen))
	}
	last := seen[len(seen)-1]
	if last.Processed != 4 || last.Total != 4 {
		t.Errorf("final progress = %+v", last)
	}
}

func TestScannerCancellation(t *testing.T) {
	root := writeTree(t)
	s := NewScanner(Config{SkipHidden: true}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := s.Run(ctx, root, nil)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if report == nil || len(report.Results) != 0 {
		t.Fatalf("cancelled before the first file: report = %+v", report)
	}
}

func TestScannerStopKeepsPartialResults(t *testing.T) {
	// WHAT: cancelling mid-scan returns the files processed so far, with
	// counters computed over them.
	// WHY: a stopped scan is still a usable inventory of what it covered.
	root := writeTree(t)
	s := NewScanner(Config{SkipHidden: true}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	report, err := s.Run(ctx, root, func(p Progress) {
		if p.Processed == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report == nil {
		t.Fatal("stopped scan must still report the files it finished")
	}
	if len(report.Results) != 2 {
		t.Fatalf("got %d results, want the 2 processed before the stop", len(report.Results))
	}
	if report.Counters.Processed != 2 {
		t.Fatalf("counters.Processed = %d, want 2", report.Counters.Processed)
	}
	for _, r := range report.Results {
		if r.FileName == "" {
			t.Fatalf("incomplete record in partial report: %+v", r)
		}
	}
}

func TestScannerBadRoot(t *testing.T) {
	s := NewScanner(Config{}, nil)
	if _, err := s.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestMetricStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusSuccess, "success"},
		{StatusNoText, "no_text"},
		{StatusUnsupported, "unsupported"},
		{StatusLegacyDoc, "unsupported"},
		{"Error: pdfcpu read: broken xref", "error"},
	}
	for _, tt := range tests {
		if got := metricStatus(tt.status); got != tt.want {
			t.Errorf("metricStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
