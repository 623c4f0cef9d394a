// Package migrations ships the postgres schema inside the binaries.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS
