// Package migrations embeds the versioned PostgreSQL schema so binaries can
// migrate without shipping the SQL files.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
