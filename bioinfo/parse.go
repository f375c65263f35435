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

package bioinfo

import (
	"bufio"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/covsurv/mds/config"
)

// column layout particulars of the pipeline output files
const (
	// the sample column sits fifth in mapping_illumina_stats.tab
	mappingStatsKeyColumn = 4
	// summary_variants_metrics_mqc.csv leads with the sample column
	variantMetricsKeyColumn = 0
)

// Parses a delimited metrics table into rows keyed by the value of the given
// key column. The first line supplies the column headers.
func ParseMetricsTable(r io.Reader, comma rune, keyColumn int) (map[string]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("metrics table is empty")
	}

	headers := lines[0]
	if keyColumn >= len(headers) {
		return nil, fmt.Errorf("metrics table has no key column %d", keyColumn)
	}

	rows := make(map[string]map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		row := make(map[string]string, len(line))
		for i, value := range line {
			row[headers[i]] = value
		}
		rows[line[keyColumn]] = row
	}
	return rows, nil
}

// Parses the software_versions.yml manifest: tool machine name -> software
// name -> version string.
func ParseVersionManifest(data []byte) (map[string]map[string]string, error) {
	versions := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Parses a pangolin lineage report: a CSV whose first data row carries the
// lineage assignment for one sample.
func ParseLineageReport(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	lines, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("lineage report has no data row")
	}

	headers := lines[0]
	report := make(map[string]string, len(headers))
	for i, value := range lines[1] {
		report[headers[i]] = value
	}
	return report, nil
}

// Parses the first record of a consensus FASTA file, returning its
// description line (without the marker) and its sequence length.
func ParseConsensusFasta(r io.Reader) (string, int, error) {
	scanner := bufio.NewScanner(r)
	var name string
	var length int
	var sawHeader bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if sawHeader { // only the first record matters
				break
			}
			name = strings.TrimPrefix(line, ">")
			sawHeader = true
			continue
		}
		length += len(line)
	}
	if err := scanner.Err(); err != nil {
		return "", 0, err
	}
	if !sawHeader {
		return "", 0, fmt.Errorf("consensus file has no FASTA header")
	}
	return name, length, nil
}

func fileMD5(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Loads all per-sample pangolin lineage reports found in the analysis folder,
// keyed by the sample name encoded in each file name.
func loadLineageReports(folder string) (map[string]map[string]string, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*.pangolin.*.csv"))
	if err != nil {
		return nil, err
	}
	reports := make(map[string]map[string]string, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		sampleName := name[:strings.Index(name, ".pangolin.")]
		file, err := os.Open(path)
		if err != nil {
			return nil, &MissingFileError{File: name, Message: err.Error()}
		}
		report, err := ParseLineageReport(file)
		file.Close()
		if err != nil {
			return nil, &MissingFileError{File: name, Message: err.Error()}
		}
		reports[sampleName] = report
	}
	return reports, nil
}

// Loads and summarizes all per-sample consensus FASTA files found in the
// analysis folder, keyed by the sample name encoded in each file name.
func loadConsensusFiles(folder string) (map[string]ConsensusInfo, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*.consensus.fa"))
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]ConsensusInfo, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		file, err := os.Open(path)
		if err != nil {
			return nil, &MissingFileError{File: name, Message: err.Error()}
		}
		sequenceName, length, err := ParseConsensusFasta(file)
		file.Close()
		if err != nil {
			return nil, &MissingFileError{File: name, Message: err.Error()}
		}
		sum, err := fileMD5(path)
		if err != nil {
			return nil, &MissingFileError{File: name, Message: err.Error()}
		}
		summaries[strings.TrimSuffix(name, ".consensus.fa")] = ConsensusInfo{
			GenomeLength: length,
			SequenceName: sequenceName,
			Filepath:     folder,
			Filename:     name,
			MD5:          sum,
		}
	}
	return summaries, nil
}

// Loads all pipeline outputs the configuration requires from the given
// analysis folder. A missing required file yields a MissingFileError: the
// affected samples are reported and the rest of the run continues without
// bioinformatic enrichment.
func LoadResults(folder string, conf config.BioinfoConfig) (Results, error) {
	var results Results

	paths := make(map[string]string, len(conf.RequiredFile))
	for key, file := range conf.RequiredFile {
		path := filepath.Join(folder, file)
		if _, err := os.Stat(path); err != nil {
			return results, &MissingFileError{File: file, Message: "file does not exist"}
		}
		paths[key] = path
	}

	if path, found := paths["mapping_stats"]; found {
		table, err := parseMetricsFile(path, '\t', mappingStatsKeyColumn)
		if err != nil {
			return results, err
		}
		results.Stats = table
	}
	if path, found := paths["variants_metrics"]; found {
		table, err := parseMetricsFile(path, ',', variantMetricsKeyColumn)
		if err != nil {
			return results, err
		}
		results.VariantMetrics = table
	}
	if path, found := paths["versions"]; found {
		data, err := os.ReadFile(path)
		if err != nil {
			return results, &MissingFileError{File: filepath.Base(path), Message: err.Error()}
		}
		results.Versions, err = ParseVersionManifest(data)
		if err != nil {
			return results, &MissingFileError{File: filepath.Base(path), Message: err.Error()}
		}
	}

	var err error
	if results.Pangolin, err = loadLineageReports(folder); err != nil {
		return results, err
	}
	if results.Consensus, err = loadConsensusFiles(folder); err != nil {
		return results, err
	}
	// the long-form variants table is optional, so a folder without one
	// yields an empty path rather than an error
	if matches, err := filepath.Glob(filepath.Join(folder, "*long_table.csv")); err == nil && len(matches) > 0 {
		results.LongTablePath = matches[0]
	}
	return results, nil
}

func parseMetricsFile(path string, comma rune, keyColumn int) (map[string]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{File: filepath.Base(path), Message: err.Error()}
	}
	defer file.Close()
	table, err := ParseMetricsTable(file, comma, keyColumn)
	if err != nil {
		return nil, &MissingFileError{File: filepath.Base(path), Message: err.Error()}
	}
	return table, nil
}
