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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covsurv/mds/mdstest"
	"github.com/covsurv/mds/sample"
)

// builds a record that conforms to the test schema
func conformingRecord() sample.Record {
	record := sample.New()
	record.Set("sequencing_sample_id", "SAMPLE-001")
	record.Set("collecting_institution", "Hospital La Paz")
	record.Set("host_scientific_name", "Homo sapiens")
	record.Set("sample_collection_date", "2024-02-14")
	return record
}

// tests that a conforming record produces no violations
func TestValidateAcceptsConformingRecord(t *testing.T) {
	assert := assert.New(t)

	validator, err := NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(err)
	assert.Equal("relecov", validator.Target())

	violations := validator.Validate(conformingRecord())
	assert.Equal(0, len(violations))
}

// tests that each missing required field yields its own violation
func TestValidateReportsEachMissingRequiredField(t *testing.T) {
	assert := assert.New(t)

	validator, err := NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(err)

	record := conformingRecord()
	delete(record, "collecting_institution")
	delete(record, "host_scientific_name")

	violations := validator.Validate(record)
	assert.Equal(2, len(violations))
	fields := []string{violations[0].Field, violations[1].Field}
	assert.Contains(fields, "collecting_institution")
	assert.Contains(fields, "host_scientific_name")
}

// tests that a value violating its field's schema names the field
func TestValidateReportsBadFieldValue(t *testing.T) {
	assert := assert.New(t)

	validator, err := NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(err)

	record := conformingRecord()
	record.Set("sample_collection_date", "14/02/2024") // not ISO

	violations := validator.Validate(record)
	assert.Equal(1, len(violations))
	assert.Equal("sample_collection_date", violations[0].Field)
}

// tests that the complete violation list is returned, never just the first
func TestValidateReportsAllViolations(t *testing.T) {
	assert := assert.New(t)

	validator, err := NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(err)

	record := conformingRecord()
	delete(record, "collecting_institution")
	record.Set("host_scientific_name", "Human") // not in the enum
	record.Set("sample_collection_date", "14/02/2024")

	violations := validator.Validate(record)
	assert.Equal(3, len(violations))
}

// tests that malformed schema data is rejected up front
func TestNewValidatorRejectsBadSchema(t *testing.T) {
	assert := assert.New(t)

	_, err := NewValidator("relecov", []byte(`{"type": "no_such_type"}`))
	assert.NotNil(err)
}

// tests the validate-and-emit contract on both sides
func TestValidateAndEmit(t *testing.T) {
	assert := assert.New(t)

	validator, err := NewValidator("relecov", []byte(mdstest.RelecovSchema))
	assert.Nil(err)

	data, violations := validator.ValidateAndEmit(conformingRecord())
	assert.Equal(0, len(violations))
	var emitted map[string]string
	assert.Nil(json.Unmarshal(data, &emitted))
	assert.Equal("SAMPLE-001", emitted["sequencing_sample_id"])

	record := conformingRecord()
	delete(record, "sequencing_sample_id")
	data, violations = validator.ValidateAndEmit(record)
	assert.Nil(data)
	assert.Equal(1, len(violations))
}
