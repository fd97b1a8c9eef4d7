// Package schemas embeds the JSON Schemas for fairness configuration files.
package schemas

import _ "embed"

// FairnessConfigSchemaJSON is the schema for .fairness.yaml.
//
//go:embed fairness-config.schema.json
var FairnessConfigSchemaJSON string
