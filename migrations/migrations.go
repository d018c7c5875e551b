// Package migrations embeds the SQL schema migrations run at server start.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
