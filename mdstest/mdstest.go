// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This package contains testing utilities and fixtures for the metadata
// delivery system: a small synthetic mapping configuration, synthetic
// reference datasets, raw lab records, and a reduced RELECOV schema.
package mdstest

import (
	"log/slog"
	"os"

	"github.com/covsurv/mds/reference"
)

// Enables DEBUG log messages for the structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

// a synthetic mapping configuration exercising every engine stage
const ConfigYAML = `
service:
  data_directory: ${MDS_DATA_DIRECTORY}
  workers: 2

lab_metadata:
  fixed_fields:
    host_disease: COVID-19
    organism: Severe acute respiratory syndrome coronavirus 2
  metadata_lab_heading:
    sequencing_sample_id: ["Sample ID given for sequencing", "Sequencing Sample ID"]
    collecting_institution: ["Originating Laboratory", "Collecting Institution"]
    sample_collection_date: ["Sample Collection Date", "Collection Date"]
    host_common_name: ["Host", "Host Common Name"]
    sequencing_instrument_model: ["Sequencing Instrument Model", "Instrument Model"]
    specimen_source: ["Specimen source", "Specimen Source"]
    geo_loc_city: ["City", "Geo Loc City"]
  lab_metadata_req_json:
    - file: laboratory_address.json
      sample_field: collecting_institution
      adding_fields: __all__
    - file: geo_loc_cities.json
      sample_field: geo_loc_city
      adding_fields: [geo_loc_latitude, geo_loc_longitude]
    - file: anatomical_material_collection_method.json
      sample_field: specimen_source
      adding_fields: __all__
  required_post_processing:
    host_scientific_name:
      trigger_field: host_common_name
      match: exact
      values:
        Human: Homo sapiens
    sequencing_instrument_platform:
      trigger_field: sequencing_instrument_model
      match: substring
      values:
        Illumina: Illumina
        PacBio: PacBio
        Ion Torrent: Ion Torrent
        Oxford Nanopore: Oxford Nanopore
  required_copy_from_other_field:
    isolate_sample_id: sequencing_sample_id

bioinfo_analysis:
  fixed_values:
    bioinformatics_protocol_software_name: viralrecon
  required_file:
    mapping_stats: mapping_illumina_stats.tab
    variants_metrics: summary_variants_metrics_mqc.csv
    versions: software_versions.yml
  mapping_stats:
    depth_of_coverage_value: medianDPcoveragevirus
    per_genome_greater_10x: Coverage>10x(%)
    read_length: read_length
  mapping_variant_metrics:
    number_of_variants_in_consensus: "#Variants in consensus"
    per_Ns_per_100kb_consensus: "#Ns per 100kb consensus"
  mapping_version:
    mapping_software_version:
      BOWTIE2_ALIGN: bowtie2
  mapping_pangolin:
    lineage_name: lineage
    lineage_analysis_software_version: pangolin_version
  mapping_consensus:
    - consensus_genome_length
    - consensus_sequence_name
    - consensus_sequence_filepath
    - consensus_sequence_filename
    - consensus_sequence_md5

ENA_fields:
  study: [study_alias, study_title]
  sample: [sequencing_sample_id, collecting_institution, sample_collection_date]
  run: [sequencing_sample_id, sequencing_instrument_platform]
  experiment: [sequencing_sample_id, sequencing_instrument_model]

gisaid_csv_headers: [submitter, covv_virus_name, covv_collection_date, covv_location, covv_host]

json_schemas:
  relecov: relecov_schema.json
  ena: ena_schema.json
  gisaid: gisaid_schema.json

institution_mapping_file: laboratory_address.json
`

// a reduced RELECOV JSON schema with enough teeth to exercise required-field
// and type checking
const RelecovSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["sequencing_sample_id", "collecting_institution", "host_scientific_name"],
  "properties": {
    "sequencing_sample_id": {"type": "string", "minLength": 1},
    "collecting_institution": {"type": "string"},
    "host_scientific_name": {"type": "string", "enum": ["Homo sapiens"]},
    "sample_collection_date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
  }
}`

// Registers the synthetic reference datasets used throughout the tests:
// institution addresses, city geo-locations, and the specimen-source
// anatomical breakdown that backs composite expansion.
func RegisterTables() {
	reference.Register(reference.NewTable("laboratory_address.json",
		map[string]map[string]string{
			"Hospital La Paz": {
				"collecting_institution_address": "Paseo de la Castellana, 261",
				"collecting_institution_email":   "sequencing@hulp.es",
				"geo_loc_state":                  "Madrid",
			},
			"Hospital Clinic": {
				"collecting_institution_address": "Carrer de Villarroel, 170",
				"collecting_institution_email":   "seq@clinic.cat",
				"geo_loc_state":                  "Catalunya",
			},
		}))
	reference.Register(reference.NewTable("geo_loc_cities.json",
		map[string]map[string]string{
			"Madrid":    {"geo_loc_latitude": "40.4168", "geo_loc_longitude": "-3.7038"},
			"Barcelona": {"geo_loc_latitude": "41.3874", "geo_loc_longitude": "2.1686"},
		}))
	reference.Register(reference.NewTable("anatomical_material_collection_method.json",
		map[string]map[string]string{
			"Nasopharyngeal exudate": {
				"anatomical_material": "Mucus",
				"anatomical_part":     "Nasopharynx",
				"body_product":        "Not Applicable",
				"collection_method":   "Nasopharyngeal swab",
			},
			"Saliva": {
				"anatomical_material": "Saliva",
				"anatomical_part":     "Oral cavity",
				"body_product":        "Not Applicable",
				"collection_method":   "Passive drool",
			},
		}))
}

// Returns raw lab records the way labs actually submit them: inconsistent
// headers, sparse fields.
func RawRecords() []map[string]string {
	return []map[string]string{
		{
			"Sample ID given for sequencing": "SAMPLE-001",
			"Originating Laboratory":         "Hospital La Paz",
			"Sample Collection Date":         "2024-02-14",
			"Host":                           "Human",
			"Sequencing Instrument Model":    "Illumina NovaSeq 6000",
			"Specimen source":                "Nasopharyngeal exudate",
			"City":                           "Madrid",
		},
		{
			"Sequencing Sample ID":   "SAMPLE-002",
			"Collecting Institution": "Hospital Clinic",
			"Collection Date":        "2024-02-15",
			"Host Common Name":       "Human",
			"Instrument Model":       "Oxford Nanopore GridION",
			"Specimen Source":        "Saliva",
			"Geo Loc City":           "Barcelona",
		},
	}
}

// Returns parsed pipeline results matching the raw records above.
func PipelineResults() (stats, variantMetrics, versions map[string]map[string]string) {
	stats = map[string]map[string]string{
		"SAMPLE-001": {"medianDPcoveragevirus": "610.5", "Coverage>10x(%)": "98.3", "read_length": "150"},
		"SAMPLE-002": {"medianDPcoveragevirus": "402.1", "Coverage>10x(%)": "96.7", "read_length": "150"},
	}
	variantMetrics = map[string]map[string]string{
		"SAMPLE-001": {"#Variants in consensus": "41", "#Ns per 100kb consensus": "133.0"},
		"SAMPLE-002": {"#Variants in consensus": "38", "#Ns per 100kb consensus": "245.8"},
	}
	versions = map[string]map[string]string{
		"BOWTIE2_ALIGN":  {"bowtie2": "2.4.4"},
		"IVAR_CONSENSUS": {"ivar": "1.3.1"},
	}
	return
}
