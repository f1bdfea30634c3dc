package migrations

import "embed"

// Files holds the forward-only SQL schema for cycles and reminders.
//
//go:embed *.sql
var Files embed.FS
