// Package migrations holds the ordered goose migrations of the posts schema.
package migrations

import "embed"

// FS contains every migration, applied in version order.
//
//go:embed *.sql
var FS embed.FS
