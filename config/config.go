package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// The mapping configuration drives every stage of the metadata engine: the
// lab-header rename table, the post-processing rules, the enrichment joins,
// the bioinformatics mapping tables and the per-target submission layouts.
// It is loaded once, validated, and treated as immutable for the rest of the
// run; callers receive it as a value rather than reading package globals so
// tests can substitute small synthetic tables.
type Config struct {
	Service                serviceConfig       `yaml:"service"`
	LabMetadata            LabMetadataConfig   `yaml:"lab_metadata"`
	BioinfoAnalysis        BioinfoConfig       `yaml:"bioinfo_analysis"`
	ENAFields              map[string][]string `yaml:"ENA_fields"`
	GisaidCSVHeaders       []string            `yaml:"gisaid_csv_headers"`
	JSONSchemas            map[string]string   `yaml:"json_schemas"`
	InstitutionMappingFile string              `yaml:"institution_mapping_file"`
}

// This helper parses configuration data into a Config, returning an error
// indicating success or failure. All environment variables of the form
// ${ENV_VAR} are expanded.
func readConfig(bytes []byte) (Config, error) {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf Config
	conf.Service.Workers = 4
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		return conf, &InvalidConfigError{
			Message: fmt.Sprintf("Couldn't parse configuration data: %s", err),
		}
	}
	return conf, nil
}

// This helper validates the given configuration, returning an error that
// indicates success or failure.
func validateConfig(conf Config) error {
	if err := validateServiceParameters(conf.Service); err != nil {
		return err
	}
	if err := validateLabMetadata(conf.LabMetadata); err != nil {
		return err
	}
	if err := validateBioinfoAnalysis(conf.BioinfoAnalysis); err != nil {
		return err
	}
	if err := validateSubmissionTargets(conf); err != nil {
		return err
	}
	return nil
}

// Initializes a mapping configuration from the given YAML byte data,
// validating it before returning it.
func Read(yamlData []byte) (Config, error) {
	conf, err := readConfig(yamlData)
	if err != nil {
		return conf, err
	}
	err = validateConfig(conf)
	return conf, err
}
