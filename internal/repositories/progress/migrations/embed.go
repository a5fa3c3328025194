package migrations

import "embed"

// SQLite contains the embedded SQLite migrations for progress storage.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres contains the embedded Postgres migrations for progress storage.
//
//go:embed postgres/*.sql
var Postgres embed.FS
