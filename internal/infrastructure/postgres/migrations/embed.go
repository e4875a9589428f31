// Package migrations contiene el esquema SQL versionado, embebido en el binario y aplicado con goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
