// Package migrations embeds the schema migrations for the itineraries
// database. The server applies them at boot via the goose provider, and the
// repo integration tests apply them in TestMain, so neither depends on
// migration files being present on disk at runtime.
package migrations

import "embed"

// FS holds the *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
