// Package migrations embeds the versioned PostgreSQL schema.
package migrations

import "embed"

// FS holds the NNNNNN_name.up.sql and NNNNNN_name.down.sql pairs
//
//go:embed *.sql
var FS embed.FS
