package trace

import (
	"context"
	"database/sql/driver"
	"log/slog"
	"strings"
	"time"

	"github.com/anujgupta2in/Manualsscan/kit"
)

// TracingDriver wraps an SQLite driver so every prepared-statement Exec and
// Query is timed and logged through slog. It is registered under the name
// "sqlite-trace" in init(); open with sql.Open("sqlite-trace", path).
type TracingDriver struct {
	driver.Driver
}

func (d *TracingDriver) Open(name string) (driver.Conn, error) {
	conn, err := d.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	return &traceConn{Conn: conn}, nil
}

type traceConn struct {
	driver.Conn
}

func (c *traceConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.Conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &traceStmt{Stmt: stmt, query: query}, nil
}

func (c *traceConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	pc, ok := c.Conn.(driver.ConnPrepareContext)
	if !ok {
		return c.Prepare(query)
	}
	stmt, err := pc.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &traceStmt{Stmt: stmt, query: query}, nil
}

func (c *traceConn) Begin() (driver.Tx, error) {
	return c.Conn.Begin()
}

type traceStmt struct {
	driver.Stmt
	query string
}

func (s *traceStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	done := s.observe(ctx, "Exec")
	if ec, ok := s.Stmt.(driver.StmtExecContext); ok {
		result, err := ec.ExecContext(ctx, args)
		done(err)
		return result, err
	}
	result, err := s.Stmt.Exec(flattenArgs(args))
	done(err)
	return result, err
}

func (s *traceStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	done := s.observe(ctx, "Query")
	if qc, ok := s.Stmt.(driver.StmtQueryContext); ok {
		rows, err := qc.QueryContext(ctx, args)
		done(err)
		return rows, err
	}
	rows, err := s.Stmt.Query(flattenArgs(args))
	done(err)
	return rows, err
}

func (s *traceStmt) Exec(args []driver.Value) (driver.Result, error) {
	done := s.observe(context.Background(), "Exec")
	result, err := s.Stmt.Exec(args)
	done(err)
	return result, err
}

func (s *traceStmt) Query(args []driver.Value) (driver.Rows, error) {
	done := s.observe(context.Background(), "Query")
	rows, err := s.Stmt.Query(args)
	done(err)
	return rows, err
}

// observe starts a timer and returns the completion func that emits the log
// record. Errors log at ERROR, statements over 100ms at WARN, the rest at
// DEBUG. Fast successful PRAGMAs from connection setup are dropped.
func (s *traceStmt) observe(ctx context.Context, op string) func(error) {
	start := time.Now()
	return func(err error) {
		d := time.Since(start)
		if err == nil && d < 10*time.Millisecond && strings.HasPrefix(s.query, "PRAGMA ") {
			return
		}

		level := slog.LevelDebug
		switch {
		case err != nil:
			level = slog.LevelError
		case d > 100*time.Millisecond:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("component", "sql"),
			slog.String("op", op),
			slog.String("query", s.query),
			slog.Duration("duration", d),
		}
		if traceID := kit.GetTraceID(ctx); traceID != "" {
			attrs = append(attrs, slog.String("trace_id", traceID))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.LogAttrs(ctx, level, "SQL", attrs...)
	}
}

func flattenArgs(named []driver.NamedValue) []driver.Value {
	vals := make([]driver.Value, len(named))
	for i, nv := range named {
		vals[i] = nv.Value
	}
	return vals
}
