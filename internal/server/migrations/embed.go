// Package migrations embeds the goose schema migrations for each supported
// database dialect.
package migrations

import "embed"

// Migrations holds one directory of SQL migrations per dialect: "postgres"
// and "sqlite".
//
//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dir returns the migration directory for the given goose dialect.
func Dir(dialect string) string {
	if dialect == "sqlite3" || dialect == "sqlite" {
		return "sqlite"
	}
	return "postgres"
}
