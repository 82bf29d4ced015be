// Package migrations embeds the SQL migrations for the SQLite result store.
package migrations

import "embed"

// FS holds the numbered .up.sql and .down.sql files.
//
//go:embed *.sql
var FS embed.FS
