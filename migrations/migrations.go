// Package migrations embeds the SQL schema migrations.
//
// Files follow the NNNNNN_name.up.sql / NNNNNN_name.down.sql convention and
// are applied in lexical order.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS
