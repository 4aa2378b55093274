package postgres

import "embed"

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

// Migrations holds the schema: roles, the applications and tasks tables, and
// their row-level security policies.
//
//go:embed migrations/*.sql
var Migrations embed.FS
