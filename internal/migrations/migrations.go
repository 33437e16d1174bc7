// Package migrations embeds the goose SQL migrations. Each supported
// dialect keeps its own directory because identity columns and timestamp
// defaults differ between Postgres and SQLite.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
