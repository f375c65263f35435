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

package batch

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covsurv/mds/bioinfo"
	"github.com/covsurv/mds/config"
	"github.com/covsurv/mds/mdstest"
	"github.com/covsurv/mds/submission"
)

// builds a pipeline from the synthetic test configuration
func testPipeline(t *testing.T) *Pipeline {
	validator, err := submission.NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(t, err)
	pipeline, err := NewPipeline(testConfig, validator)
	assert.Nil(t, err)
	return pipeline
}

// tests processing one raw lab record through every stage
func TestProcessRunsEveryStage(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	record, problems := pipeline.Process(mdstest.RawRecords()[0])
	assert.Equal(0, len(problems))

	// field mapping
	assert.Equal("SAMPLE-001", record.Value("sequencing_sample_id"))
	assert.Equal("Hospital La Paz", record.Value("collecting_institution"))
	// fixed fields
	assert.Equal("COVID-19", record.Value("host_disease"))
	// derivation rules
	assert.Equal("Homo sapiens", record.Value("host_scientific_name"))
	assert.Equal("Illumina", record.Value("sequencing_instrument_platform"))
	assert.Equal("SAMPLE-001", record.Value("isolate_sample_id"))
	// enrichment joins
	assert.Equal("Madrid", record.Value("geo_loc_state"))
	assert.Equal("40.4168", record.Value("geo_loc_latitude"))
	assert.Equal("Nasopharynx", record.Value("anatomical_part"))
}

// tests that attached bioinformatics results are merged into records
func TestProcessMergesBioinfoResults(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	stats, variantMetrics, versions := mdstest.PipelineResults()
	pipeline.AttachResults(bioinfo.Results{
		Stats:          stats,
		VariantMetrics: variantMetrics,
		Versions:       versions,
	})

	record, problems := pipeline.Process(mdstest.RawRecords()[0])
	assert.Equal(0, len(problems))
	assert.Equal("viralrecon", record.Value("bioinformatics_protocol_software_name"))
	assert.Equal("610.5", record.Value("depth_of_coverage_value"))
	assert.Equal("2.4.4", record.Value("mapping_software_version"))
}

// tests that a record's problems accumulate without stopping the stages
// behind them
func TestProcessAccumulatesProblems(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	raw := map[string]string{
		"Sample ID given for sequencing": "SAMPLE-003",
		"Originating Laboratory":         "Hospital del Mar", // not in the dataset
		"Host":                           "Human",
		"City":                           "Madrid",
	}
	record, problems := pipeline.Process(raw)
	// the unknown institution and the absent specimen source each miss
	assert.Equal(2, len(problems))
	// the later city join still landed
	assert.Equal("40.4168", record.Value("geo_loc_latitude"))
	// and the derivation rules ran before the failing join
	assert.Equal("Homo sapiens", record.Value("host_scientific_name"))
}

// tests a full batch run: counts, status and input ordering
func TestRunReportsInInputOrder(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	raws := mdstest.RawRecords()
	report, err := pipeline.Run(context.Background(), raws)
	assert.Nil(err)

	assert.Equal("relecov", report.Target)
	assert.Equal(2, report.Processed)
	assert.Equal(0, report.Failed)
	assert.Equal("succeeded", report.Status())
	assert.Equal(2, len(report.Results))
	assert.Equal("SAMPLE-001", report.Results[0].SampleId)
	assert.Equal("SAMPLE-002", report.Results[1].SampleId)
	assert.Equal(2, len(report.CleanRecords()))
}

// tests that per-record problems mark the record failed without aborting
// the batch
func TestRunToleratesFailingRecords(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	raws := mdstest.RawRecords()
	raws = append(raws, map[string]string{
		"Sample ID given for sequencing": "SAMPLE-003",
		"Originating Laboratory":         "Hospital del Mar",
	})

	report, err := pipeline.Run(context.Background(), raws)
	assert.Nil(err)
	assert.Equal(2, report.Processed)
	assert.Equal(1, report.Failed)
	assert.Equal("partial", report.Status())
	assert.Equal("SAMPLE-003", report.Results[2].SampleId)
	assert.NotEqual(0, len(report.Results[2].Problems))
	assert.Equal(2, len(report.CleanRecords()))
}

// tests that a canceled context aborts the run
func TestRunHonorsCancellation(t *testing.T) {
	assert := assert.New(t)

	pipeline := testPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Run(ctx, mdstest.RawRecords())
	assert.NotNil(err)
}

// this function gets called at the begіnning of a test session
func setup() {
	mdstest.RegisterTables()
	var err error
	testConfig, err = config.Read([]byte(mdstest.ConfigYAML))
	if err != nil {
		log.Panicf("Couldn't initialize configuration: %s", err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}

// the parsed synthetic configuration
var testConfig config.Config
