// Package schema provides the embedded JSON schema for nwtest.json.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS

// ConfigSchemaFile is the name of the nwtest.json schema inside FS.
const ConfigSchemaFile = "nwtest.schema.json"
