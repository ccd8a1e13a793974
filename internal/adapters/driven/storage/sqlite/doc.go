// Package sqlite keeps session history in a SQLite database using the
// pure-Go modernc.org/sqlite driver, so no CGO is needed.
//
// The database lives at ~/.pocketserve/data/history.db and holds two
// tables: sessions, one row per session attempt, and session_events,
// the file and lifecycle events recorded while each session ran.
//
// Migrations are embedded from the migrations package and applied in
// version order when the store opens.
package sqlite
