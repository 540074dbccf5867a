// Package schemas embeds the JSON Schemas shipped with prflight.
package schemas

import _ "embed"

// WorkflowSchemaJSON is the JSON Schema for the minimal GitHub Actions
// workflow shape prflight validates.
//
//go:embed workflow.schema.json
var WorkflowSchemaJSON string
