package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/migrate and storage.OpenSQLite) to prepare the local state database.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
