package config

import "embed"

// schemaFS contains the embedded configuration JSON schema.
//
//go:embed config-schema.json
var schemaFS embed.FS
