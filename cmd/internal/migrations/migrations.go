// Package migrations embeds the goose SQL migrations for the snsfeed schema.
package migrations

import "embed"

// FS holds the *.sql migration files; goose reads it with SetBaseFS and dir ".".
//
//go:embed *.sql
var FS embed.FS
