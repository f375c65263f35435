package config

import (
	"fmt"
)

// configuration for merging bioinformatics pipeline results into records
type BioinfoConfig struct {
	// field values stamped onto every record carrying bioinformatic results
	FixedValues map[string]string `yaml:"fixed_values"`
	// logical name -> file name for pipeline outputs that must be present
	// (e.g. mapping_stats: mapping_illumina_stats.tab)
	RequiredFile map[string]string `yaml:"required_file"`
	// canonical field -> raw column header in the mapping stats table
	MappingStats map[string]string `yaml:"mapping_stats"`
	// canonical field -> raw column header in the variant metrics table
	MappingVariantMetrics map[string]string `yaml:"mapping_variant_metrics"`
	// canonical field -> {tool machine name -> human-readable software name};
	// the inner pair locates the entry in the software version manifest
	MappingVersion map[string]map[string]string `yaml:"mapping_version"`
	// canonical field -> column header in a per-sample pangolin lineage report
	MappingPangolin map[string]string `yaml:"mapping_pangolin"`
	// canonical fields derived from a per-sample consensus FASTA file
	MappingConsensus []string `yaml:"mapping_consensus"`
}

// This helper validates the bioinformatics section of the configuration.
// Note that yaml.v3 already rejects a canonical field that appears twice in
// one table; what it cannot catch is a version mapping that names more than
// one tool for a single field, which would make the merged value ambiguous.
func validateBioinfoAnalysis(conf BioinfoConfig) error {
	for field, tools := range conf.MappingVersion {
		if len(tools) == 0 {
			return &InvalidConfigError{
				Section: "bioinfo_analysis",
				Message: fmt.Sprintf("Version mapping for '%s' names no tool", field),
			}
		}
		if len(tools) > 1 {
			return &InvalidConfigError{
				Section: "bioinfo_analysis",
				Message: fmt.Sprintf("Version mapping for '%s' names %d tools (must name exactly one)", field, len(tools)),
			}
		}
	}
	return nil
}
