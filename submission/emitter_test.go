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

package submission

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covsurv/mds/sample"
)

// builds the record set the emitter tests share
func emitterRecords() []sample.Record {
	first := sample.New()
	first.Set("sequencing_sample_id", "SAMPLE-001")
	first.Set("submitter", "hulp-seq")
	first.Set("covv_virus_name", "hCoV-19/Spain/MD-HULP-001/2024")
	first.Set("covv_collection_date", "2024-02-14")
	first.Set("sequencing_instrument_platform", "Illumina")

	second := sample.New()
	second.Set("sequencing_sample_id", "SAMPLE-002")
	second.Set("submitter", "clinic-seq")
	// no covv_virus_name: the column must still be emitted, empty
	second.Set("covv_collection_date", "2024-02-15")
	return []sample.Record{first, second}
}

// tests that the canonical JSON output is an array of records
func TestEmitRelecovJSON(t *testing.T) {
	assert := assert.New(t)

	var buffer bytes.Buffer
	err := EmitRelecovJSON(&buffer, emitterRecords())
	assert.Nil(err)

	var decoded []map[string]string
	assert.Nil(json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(2, len(decoded))
	assert.Equal("SAMPLE-001", decoded[0]["sequencing_sample_id"])
	assert.Equal("SAMPLE-002", decoded[1]["sequencing_sample_id"])
}

// tests that the GISAID CSV keeps the configured column order and emits
// blanks for fields a record doesn't carry
func TestEmitGisaidCSVKeepsColumnOrder(t *testing.T) {
	assert := assert.New(t)

	headers := []string{"submitter", "covv_virus_name", "covv_collection_date"}
	var buffer bytes.Buffer
	err := EmitGisaidCSV(&buffer, headers, emitterRecords())
	assert.Nil(err)

	lines, err := csv.NewReader(&buffer).ReadAll()
	assert.Nil(err)
	assert.Equal(3, len(lines))
	assert.Equal(headers, lines[0])
	assert.Equal([]string{"hulp-seq", "hCoV-19/Spain/MD-HULP-001/2024", "2024-02-14"}, lines[1])
	assert.Equal([]string{"clinic-seq", "", "2024-02-15"}, lines[2])
}

// tests that an ENA table is tab-separated with the group's columns
func TestEmitENATable(t *testing.T) {
	assert := assert.New(t)

	fields := []string{"sequencing_sample_id", "sequencing_instrument_platform"}
	var buffer bytes.Buffer
	err := EmitENATable(&buffer, fields, emitterRecords())
	assert.Nil(err)

	reader := csv.NewReader(&buffer)
	reader.Comma = '\t'
	lines, err := reader.ReadAll()
	assert.Nil(err)
	assert.Equal(3, len(lines))
	assert.Equal(fields, lines[0])
	assert.Equal([]string{"SAMPLE-001", "Illumina"}, lines[1])
	assert.Equal([]string{"SAMPLE-002", ""}, lines[2])
}

// tests that WriteENA emits one file per group in the conventional order
func TestWriteENAEmitsGroupsInOrder(t *testing.T) {
	assert := assert.New(t)

	groups := map[string][]string{
		"run":    {"sequencing_sample_id"},
		"sample": {"sequencing_sample_id", "covv_collection_date"},
		"study":  {"sequencing_sample_id"},
	}
	outputs, err := WriteENA(TESTING_DIR, groups, emitterRecords())
	assert.Nil(err)
	assert.Equal(3, len(outputs))
	assert.Equal("ena-study", outputs[0].Name)
	assert.Equal("ena-sample", outputs[1].Name)
	assert.Equal("ena-run", outputs[2].Name)
	for _, output := range outputs {
		_, err := os.Stat(filepath.Join(TESTING_DIR, output.Path))
		assert.Nil(err)
	}
}

// tests writing the RELECOV and GISAID outputs to disk
func TestWriteRelecovAndGisaid(t *testing.T) {
	assert := assert.New(t)

	relecovOut, err := WriteRelecov(TESTING_DIR, emitterRecords())
	assert.Nil(err)
	assert.Equal("relecov_metadata.json", relecovOut.Path)

	gisaidOut, err := WriteGisaid(TESTING_DIR, []string{"submitter"}, emitterRecords())
	assert.Nil(err)
	assert.Equal("gisaid_metadata.csv", gisaidOut.Path)

	for _, path := range []string{relecovOut.Path, gisaidOut.Path} {
		_, err := os.Stat(filepath.Join(TESTING_DIR, path))
		assert.Nil(err)
	}
}

// tests bundling a run's outputs into a Frictionless manifest
func TestBuildManifest(t *testing.T) {
	assert := assert.New(t)

	outputs := []OutputFile{
		{Name: "relecov", Path: "relecov_metadata.json", Format: "json"},
		{Name: "gisaid", Path: "gisaid_metadata.csv", Format: "csv"},
	}
	manifest, err := BuildManifest("run-test", outputs)
	assert.Nil(err)
	assert.Equal([]string{"relecov", "gisaid"}, manifest.ResourceNames())

	_, err = BuildManifest("run-test", nil)
	assert.NotNil(err)
}

// this function gets called at the begіnning of a test session
func setup() {
	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "mds-submission-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
	if TESTING_DIR != "" {
		os.RemoveAll(TESTING_DIR)
	}
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}

// temporary testing directory
var TESTING_DIR string
