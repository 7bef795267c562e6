// Package migrations embeds the accreditation and audit outbox schema for startup migration and integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
