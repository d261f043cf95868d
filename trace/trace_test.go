package trace

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func TestDriverRegistered(t *testing.T) {
	found := false
	for _, d := range sql.Drivers() {
		if d == "sqlite-trace" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("sqlite-trace driver not registered")
	}
}

func TestTracingDriver_PassesQueriesThrough(t *testing.T) {
	db, err := sql.Open("sqlite-trace", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("CREATE TABLE t (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO t VALUES (1)"); err != nil {
		t.Fatal(err)
	}

	var val int
	if err := db.QueryRow("SELECT id FROM t").Scan(&val); err != nil {
		t.Fatal(err)
	}
	if val != 1 {
		t.Fatalf("query result: got %d", val)
	}
}

func TestTracingDriver_LogsQueries(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	db, err := sql.Open("sqlite-trace", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("CREATE TABLE logged (id INTEGER)"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "CREATE TABLE logged") {
		t.Fatalf("statement not logged, output: %s", out)
	}

	var entry map[string]any
	line := out[:strings.IndexByte(out, '\n')]
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "sql" {
		t.Errorf("component: got %v", entry["component"])
	}
	if entry["op"] != "Exec" {
		t.Errorf("op: got %v", entry["op"])
	}
}
