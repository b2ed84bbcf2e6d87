// Package migrations holds the schema of the kyc-risk-service database.
package migrations

import "embed"

// FS contains the golang-migrate files. They live at the root of FS.
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory within FS that holds the migration files.
const Dir = "."
