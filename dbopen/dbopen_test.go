package dbopen_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/anujgupta2in/Manualsscan/dbopen"
)

const historySchema = `CREATE TABLE history (id TEXT PRIMARY KEY, root TEXT)`

func pragmaInt(t *testing.T, db *sql.DB, name string) int {
	t.Helper()
	var v int
	if err := db.QueryRow("PRAGMA " + name).Scan(&v); err != nil {
		t.Fatalf("PRAGMA %s: %v", name, err)
	}
	return v
}

func TestOpenDefaults(t *testing.T) {
	db := dbopen.OpenMemory(t)

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatal(err)
	}
	// :memory: reports "memory" where a file database reports "wal".
	if journalMode != "wal" && journalMode != "memory" {
		t.Fatalf("journal_mode = %q, want wal or memory", journalMode)
	}
	if fk := pragmaInt(t, db, "foreign_keys"); fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
	// NORMAL = 1
	if sync := pragmaInt(t, db, "synchronous"); sync != 1 {
		t.Fatalf("synchronous = %d, want 1", sync)
	}
	if bt := pragmaInt(t, db, "busy_timeout"); bt != 10_000 {
		t.Fatalf("busy_timeout = %d, want 10000", bt)
	}
}

func TestPragmaOptions(t *testing.T) {
	db := dbopen.OpenMemory(t,
		dbopen.WithBusyTimeout(5000),
		dbopen.WithCacheSize(-64000),
		dbopen.WithSynchronous("FULL"),
		dbopen.WithoutForeignKeys(),
	)

	if bt := pragmaInt(t, db, "busy_timeout"); bt != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", bt)
	}
	if cs := pragmaInt(t, db, "cache_size"); cs != -64000 {
		t.Fatalf("cache_size = %d, want -64000", cs)
	}
	// FULL = 2
	if sync := pragmaInt(t, db, "synchronous"); sync != 2 {
		t.Fatalf("synchronous = %d, want 2", sync)
	}
	if fk := pragmaInt(t, db, "foreign_keys"); fk != 0 {
		t.Fatalf("foreign_keys = %d, want 0", fk)
	}
}

func TestWithSchema(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(historySchema))

	if _, err := db.Exec(`INSERT INTO history (id, root) VALUES ('scn_1', '/mnt/manuals')`); err != nil {
		t.Fatalf("insert into schema-created table: %v", err)
	}
	var root string
	if err := db.QueryRow(`SELECT root FROM history WHERE id = 'scn_1'`).Scan(&root); err != nil {
		t.Fatal(err)
	}
	if root != "/mnt/manuals" {
		t.Fatalf("root = %q", root)
	}
}

func TestWithSchemaFile(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.sql")
	if err := os.WriteFile(schemaPath, []byte(historySchema), 0o644); err != nil {
		t.Fatal(err)
	}

	db := dbopen.OpenMemory(t, dbopen.WithSchemaFile(schemaPath))
	if _, err := db.Exec(`INSERT INTO history (id, root) VALUES ('scn_1', '/x')`); err != nil {
		t.Fatalf("insert into schema-file table: %v", err)
	}
}

func TestWithMkdirAll(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db", "nested", "scans.db")

	db, err := dbopen.Open(dbPath, dbopen.WithMkdirAll())
	if err != nil {
		t.Fatalf("open with mkdirall: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("no such table: history"), false},
		{errors.New("SQLITE_BUSY"), true},
		{errors.New("database is locked"), true},
		{errors.New("database table is locked"), true},
		{errors.New("step: SQLITE_BUSY (5)"), true},
	}
	for _, tt := range tests {
		if got := dbopen.IsBusy(tt.err); got != tt.want {
			t.Errorf("IsBusy(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRunTxCommit(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(historySchema))

	err := dbopen.RunTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO history (id, root) VALUES ('scn_1', '/x')`)
		return err
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n)
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestRunTxRollback(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(historySchema))

	sentinel := errors.New("abort")
	err := dbopen.RunTx(context.Background(), db, func(tx *sql.Tx) error {
		tx.Exec(`INSERT INTO history (id, root) VALUES ('scn_1', '/x')`)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunTx error = %v, want sentinel", err)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n)
	if n != 0 {
		t.Fatalf("count = %d, want 0 after rollback", n)
	}
}

func TestExec(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(historySchema))

	if _, err := dbopen.Exec(context.Background(), db,
		`INSERT INTO history (id, root) VALUES (?, ?)`, "scn_1", "/x"); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n)
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestRunTxCancelledContext(t *testing.T) {
	db := dbopen.OpenMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := dbopen.RunTx(ctx, db, func(*sql.Tx) error { return nil }); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
