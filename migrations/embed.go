// Package migrations embeds the SQL schema migrations so the server binary
// can migrate a database without a checkout of the repository.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
