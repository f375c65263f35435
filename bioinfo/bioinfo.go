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

// This package merges bioinformatics pipeline results into sample records.
// Pipeline metric columns carry machine names (e.g. "medianDPcoveragevirus")
// that are mapped to canonical schema fields, and software versions are
// reported under human-readable tool names via per-tool mapping tables.
package bioinfo

import (
	"strconv"
	"strings"

	"github.com/covsurv/mds/config"
	"github.com/covsurv/mds/sample"
)

// the canonical field that identifies a sample in pipeline output tables
const sampleIdField = "sequencing_sample_id"

// Results holds the parsed pipeline outputs for one analysis run, keyed the
// way the engine joins them: metric tables by sample identifier, the version
// manifest by tool machine name.
type Results struct {
	// mapping/coverage statistics: sample id -> raw column -> value
	Stats map[string]map[string]string
	// summary variant metrics: sample id -> raw column -> value
	VariantMetrics map[string]map[string]string
	// software versions: tool machine name -> software name -> version
	Versions map[string]map[string]string
	// pangolin lineage reports: normalized sample name -> column -> value
	Pangolin map[string]map[string]string
	// consensus FASTA summaries: normalized sample name -> summary
	Consensus map[string]ConsensusInfo
	// path to the long-form variants table, or "" when the folder has none
	LongTablePath string
}

// ConsensusInfo summarizes one sample's consensus FASTA file.
type ConsensusInfo struct {
	GenomeLength int
	SequenceName string
	Filepath     string
	Filename     string
	MD5          string
}

// Pipeline per-sample files use underscores where sample identifiers use
// hyphens.
func normalizeSampleName(sampleId string) string {
	return strings.ReplaceAll(sampleId, "-", "_")
}

// Merges one metrics table into the record. The mapping table gives, for
// each canonical field, the raw column header that carries its value. A
// sample absent from the table, or a mapped column absent from the sample's
// row, yields a MissingMetricError naming the file.
func mergeMetrics(record sample.Record, mapping map[string]string,
	table map[string]map[string]string, file string) []error {
	sampleId, found := record.Get(sampleIdField)
	if !found {
		return []error{&MissingFileError{File: file,
			Message: "record carries no " + sampleIdField}}
	}
	row, found := table[sampleId]
	if !found {
		return []error{&MissingFileError{Sample: sampleId, File: file,
			Message: "sample not present in table"}}
	}

	var problems []error
	for field, column := range mapping {
		value, found := row[column]
		if !found {
			problems = append(problems, &MissingMetricError{
				Sample: sampleId,
				Metric: column,
				File:   file,
			})
			continue
		}
		record.Set(field, value)
	}
	return problems
}

// Merges software version fields into the record. The configured version
// mapping names, for each canonical field, the single tool whose manifest
// entry supplies the value (e.g. BOWTIE2_ALIGN -> bowtie2).
func mergeVersions(record sample.Record, mapping map[string]map[string]string,
	versions map[string]map[string]string, file string) []error {
	var problems []error
	for field, tools := range mapping {
		for tool, software := range tools {
			entry, found := versions[tool]
			if !found {
				problems = append(problems, &MissingMetricError{
					Sample: record.Value(sampleIdField),
					Metric: tool,
					File:   file,
				})
				continue
			}
			version, found := entry[software]
			if !found {
				problems = append(problems, &MissingMetricError{
					Sample: record.Value(sampleIdField),
					Metric: tool + "/" + software,
					File:   file,
				})
				continue
			}
			record.Set(field, version)
		}
	}
	return problems
}

// Merges the sample's pangolin lineage report into the record. A sample with
// no report gets every mapped field set to the empty string, since lineage
// assignment can legitimately lag the rest of the pipeline.
func mergePangolin(record sample.Record, mapping map[string]string,
	reports map[string]map[string]string) []error {
	if len(mapping) == 0 {
		return nil
	}
	sampleId := record.Value(sampleIdField)
	report, found := reports[normalizeSampleName(sampleId)]
	if !found {
		for field := range mapping {
			record.Set(field, "")
		}
		return nil
	}

	var problems []error
	for field, column := range mapping {
		value, found := report[column]
		if !found {
			problems = append(problems, &MissingMetricError{
				Sample: sampleId,
				Metric: column,
				File:   normalizeSampleName(sampleId) + ".pangolin.csv",
			})
			continue
		}
		record.Set(field, value)
	}
	return problems
}

// Merges the sample's consensus FASTA summary into the record, including the
// total base pair count (read length times genome length, doubled for
// paired-end runs, which is every run carrying a sample identifier). A sample
// with no consensus file gets every configured field blanked.
func mergeConsensus(record sample.Record, conf config.BioinfoConfig,
	summaries map[string]ConsensusInfo) []error {
	if len(conf.MappingConsensus) == 0 {
		return nil
	}
	sampleId := record.Value(sampleIdField)
	info, found := summaries[normalizeSampleName(sampleId)]
	if !found {
		for _, field := range conf.MappingConsensus {
			record.Set(field, "")
		}
		return nil
	}

	record.Set("consensus_genome_length", strconv.Itoa(info.GenomeLength))
	record.Set("consensus_sequence_name", info.SequenceName)
	record.Set("consensus_sequence_filepath", info.Filepath)
	record.Set("consensus_sequence_filename", info.Filename)
	record.Set("consensus_sequence_md5", info.MD5)

	readLength, err := strconv.Atoi(record.Value("read_length"))
	if err != nil {
		return []error{&MissingMetricError{
			Sample: sampleId,
			Metric: "read_length",
			File:   info.Filename,
		}}
	}
	basePairs := readLength * info.GenomeLength
	if sampleId != "" {
		basePairs *= 2
	}
	record.Set("number_of_base_pairs_sequenced", strconv.Itoa(basePairs))
	return nil
}

// Merges all configured bioinformatics results into the record: fixed
// values, mapping statistics, software versions, variant metrics, lineage
// data, consensus sequence data, and the long-form variants table path.
// Problems are accumulated and returned so one bad sample never blocks the
// rest of a batch.
func Merge(record sample.Record, conf config.BioinfoConfig, results Results) []error {
	for field, value := range conf.FixedValues {
		record.Set(field, value)
	}

	var problems []error
	problems = append(problems, mergeMetrics(record, conf.MappingStats,
		results.Stats, conf.RequiredFile["mapping_stats"])...)
	problems = append(problems, mergeVersions(record, conf.MappingVersion,
		results.Versions, conf.RequiredFile["versions"])...)
	problems = append(problems, mergeMetrics(record, conf.MappingVariantMetrics,
		results.VariantMetrics, conf.RequiredFile["variants_metrics"])...)
	problems = append(problems, mergePangolin(record, conf.MappingPangolin,
		results.Pangolin)...)
	problems = append(problems, mergeConsensus(record, conf, results.Consensus)...)
	record.Set("long_table_path", results.LongTablePath)
	return problems
}
