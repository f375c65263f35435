package config

import (
	"fmt"
)

// the ENA submission is organized as named field groups, one table each
var enaFieldGroups = []string{"study", "sample", "run", "experiment"}

// This helper validates the submission-target sections of the configuration:
// the ENA field groups, the GISAID header list and the JSON schema table.
func validateSubmissionTargets(conf Config) error {
	for group := range conf.ENAFields {
		known := false
		for _, g := range enaFieldGroups {
			if group == g {
				known = true
				break
			}
		}
		if !known {
			return &InvalidConfigError{
				Section: "ENA_fields",
				Message: fmt.Sprintf("Unknown ENA field group '%s'", group),
			}
		}
	}
	seen := make(map[string]bool)
	for _, header := range conf.GisaidCSVHeaders {
		if seen[header] {
			return &InvalidConfigError{
				Section: "gisaid_csv_headers",
				Message: fmt.Sprintf("Duplicate GISAID header '%s'", header),
			}
		}
		seen[header] = true
	}
	if len(conf.JSONSchemas) == 0 {
		return &InvalidConfigError{
			Section: "json_schemas",
			Message: "No JSON schemas were provided!",
		}
	}
	for target, file := range conf.JSONSchemas {
		if file == "" {
			return &InvalidConfigError{
				Section: "json_schemas",
				Message: fmt.Sprintf("Schema target '%s' names no schema file", target),
			}
		}
	}
	return nil
}
