// Package trace provides transparent SQL tracing for modernc.org/sqlite.
//
// It registers a "sqlite-trace" driver that wraps the standard "sqlite"
// driver, intercepting every Exec and Query at the database/sql/driver
// level. No application code changes are needed beyond switching the driver
// name:
//
//	import _ "github.com/anujgupta2in/Manualsscan/trace" // registers "sqlite-trace"
//
//	db, _ := dbopen.Open("scan.db", dbopen.WithTrace())
//
// Every statement is logged via slog with adaptive levels: Debug normally,
// Warn past 100ms, Error on failure. Trace IDs are read from the context via
// kit.GetTraceID so SQL lines correlate with their HTTP request.
package trace

import (
	"database/sql"

	sqlite "modernc.org/sqlite"
)

func init() {
	sql.Register("sqlite-trace", &TracingDriver{
		Driver: &sqlite.Driver{},
	})
}
