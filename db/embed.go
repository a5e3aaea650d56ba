// Package db embeds the SQL migrations so governctl can run them without
// access to the source tree.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
