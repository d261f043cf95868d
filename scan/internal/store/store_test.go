package store

import (
	"context"
	"testing"

	"github.com/anujgupta2in/Manualsscan/dbopen"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return NewStore(db)
}

func TestScanLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.CreateScan(ctx, "scn_1", "/ships/hull1"); err != nil {
		t.Fatal(err)
	}

	sc, err := st.GetScan(ctx, "scn_1")
	if err != nil {
		t.Fatal(err)
	}
	if sc == nil || sc.Status != "running" {
		t.Fatalf("got %+v, want running scan", sc)
	}

	sc.Status = "done"
	sc.Processed = 3
	sc.Success = 2
	sc.Errors = 1
	if err := st.FinishScan(ctx, sc); err != nil {
		t.Fatal(err)
	}

	sc, err = st.GetScan(ctx, "scn_1")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Status != "done" || sc.Processed != 3 || sc.FinishedAt == 0 {
		t.Fatalf("finish not persisted: %+v", sc)
	}
}

func TestGetScanMissing(t *testing.T) {
	st := newTestStore(t)
	sc, err := st.GetScan(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if sc != nil {
		t.Fatalf("expected nil for missing scan, got %+v", sc)
	}
}

func TestListScansOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := st.CreateScan(ctx, id, "/root"); err != nil {
			t.Fatal(err)
		}
		// started_at has millisecond resolution; nudge ordering via update.
		if _, err := st.DB.Exec(`UPDATE scans SET started_at = started_at + rowid WHERE id = ?`, id); err != nil {
			t.Fatal(err)
		}
	}

	scans, err := st.ListScans(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 2 {
		t.Fatalf("limit ignored: got %d scans", len(scans))
	}
	if scans[0].ID != "c" {
		t.Errorf("expected most recent first, got %s", scans[0].ID)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	if err := st.CreateScan(ctx, "scn_2", "/root"); err != nil {
		t.Fatal(err)
	}

	in := []*Result{
		{ScanID: "scn_2", FileName: "a.pdf", RelativePath: "a.pdf", FileType: "Drawing",
			ManualName: "V/D of Main Engine Cooler", Confidence: "Med", Clues: "Text content", Notes: "Success"},
		{ScanID: "scn_2", FileName: "b.doc", RelativePath: "sub/b.doc", FileType: "Unknown",
			Confidence: "Low", Notes: "Skipped: .doc requires LibreOffice"},
	}
	if err := st.InsertResults(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := st.ResultsForScan(ctx, "scn_2")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	if out[0].ManualName != "V/D of Main Engine Cooler" || out[1].Notes != "Skipped: .doc requires LibreOffice" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestInsertResultsEmpty(t *testing.T) {
	st := newTestStore(t)
	if err := st.InsertResults(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
}
