// Package migrations embeds the SQL schema migrations for both database
// backends. Files are named NNN_name.sql and applied in version order by
// internal/migration.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
