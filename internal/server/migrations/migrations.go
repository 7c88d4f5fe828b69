// Package migrations embeds the goose migrations for each supported dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directories inside Migrations, one per dialect.
const (
	DirPostgres = "postgres"
	DirSQLite   = "sqlite"
)
