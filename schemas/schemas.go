// Package schemas embeds the JSON Schemas that structured LLM answers must satisfy.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names.
const (
	Leadership   = "leadership.schema.json"
	CompanyScale = "company_scale.schema.json"
	Experience   = "experience.schema.json"
)
