// Package sqlite stores analysis results in a local SQLite database.
//
// It uses modernc.org/sqlite, a pure Go driver, so the binary builds
// without CGO. The schema is managed through numbered migrations embedded
// from the migrations/ directory; applied versions are recorded in
// schema_migrations.
//
// By default the database lives at ~/.incident-rag/data/results.db.
package sqlite
