package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// configuration for interpreting laboratory-submitted metadata
type LabMetadataConfig struct {
	// field values stamped onto every record before any mapping runs
	FixedFields map[string]string `yaml:"fixed_fields"`
	// canonical field name -> accepted source header variants, listed in
	// priority order (first match wins)
	MetadataLabHeading map[string][]string `yaml:"metadata_lab_heading"`
	// auxiliary datasets joined into each record, applied in declaration order
	LabMetadataReqJSON []EnrichmentConfig `yaml:"lab_metadata_req_json"`
	// derivation rules keyed by the field they produce
	RequiredPostProcessing map[string]PostProcessingConfig `yaml:"required_post_processing"`
	// target field -> source field copies applied after the derivation rules
	RequiredCopyFromOtherField map[string]string `yaml:"required_copy_from_other_field"`
}

// one auxiliary dataset join: which file, which record field supplies the
// join key, and which fields of a matched row to import
type EnrichmentConfig struct {
	File         string       `yaml:"file"`
	SampleField  string       `yaml:"sample_field"`
	AddingFields AddingFields `yaml:"adding_fields"`
}

// AddingFields accepts either the sentinel string "__all__" or an explicit
// list of field names in the YAML configuration.
type AddingFields struct {
	All    bool
	Fields []string
}

func (af *AddingFields) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s != "__all__" {
			return fmt.Errorf("adding_fields must be '__all__' or a list of fields, got '%s'", s)
		}
		af.All = true
		return nil
	case yaml.SequenceNode:
		return value.Decode(&af.Fields)
	default:
		return fmt.Errorf("adding_fields must be '__all__' or a list of fields")
	}
}

// a conditional "trigger value -> constant" derivation rule
type PostProcessingConfig struct {
	// the field whose current value is inspected
	TriggerField string `yaml:"trigger_field"`
	// "exact" (the default) or "substring"
	Match string `yaml:"match"`
	// trigger value -> value assigned to the rule's target field
	Values map[string]string `yaml:"values"`
}

// This helper validates the lab metadata section of the configuration.
func validateLabMetadata(conf LabMetadataConfig) error {
	if len(conf.MetadataLabHeading) == 0 {
		return &InvalidConfigError{
			Section: "lab_metadata",
			Message: "No metadata_lab_heading entries were provided!",
		}
	}
	for field, variants := range conf.MetadataLabHeading {
		if len(variants) == 0 {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Field '%s' has no accepted header variants", field),
			}
		}
	}
	for i, entry := range conf.LabMetadataReqJSON {
		if entry.File == "" || entry.SampleField == "" {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("lab_metadata_req_json entry %d needs both a file and a sample_field", i),
			}
		}
		if !entry.AddingFields.All && len(entry.AddingFields.Fields) == 0 {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("lab_metadata_req_json entry %d imports no fields", i),
			}
		}
	}
	for target, rule := range conf.RequiredPostProcessing {
		if rule.TriggerField == "" {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' has no trigger_field", target),
			}
		}
		switch rule.Match {
		case "", "exact", "substring":
		default:
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' has unknown match mode '%s'", target, rule.Match),
			}
		}
		if len(rule.Values) == 0 {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' maps no trigger values", target),
			}
		}
		// a field produced by both a derivation rule and a copy rule is ambiguous
		if _, found := conf.RequiredCopyFromOtherField[target]; found {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Field '%s' is produced by both required_post_processing and required_copy_from_other_field", target),
			}
		}
	}
	for target, source := range conf.RequiredCopyFromOtherField {
		if source == "" {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Copy rule for '%s' has no source field", target),
			}
		}
	}
	// a rule reading a field another rule produces would make the outcome
	// depend on rule ordering, and the rule set must be idempotent
	ruleTargets := make(map[string]bool)
	for target := range conf.RequiredPostProcessing {
		ruleTargets[target] = true
	}
	for target := range conf.RequiredCopyFromOtherField {
		ruleTargets[target] = true
	}
	for target, rule := range conf.RequiredPostProcessing {
		if ruleTargets[rule.TriggerField] {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' is triggered by '%s', which another rule produces", target, rule.TriggerField),
			}
		}
	}
	for target, source := range conf.RequiredCopyFromOtherField {
		if ruleTargets[source] {
			return &InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Copy rule for '%s' copies from '%s', which another rule produces", target, source),
			}
		}
	}
	return nil
}
