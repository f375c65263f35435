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

// This package validates fully composed sample records against the target
// submission schemas (RELECOV, ENA, GISAID) and emits the per-target output
// formats.
package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/covsurv/mds/sample"
)

// A Validator checks records against one target's JSON Schema. The schema
// itself is opaque to the engine; all we need is pass/fail plus the complete
// per-field violation list.
type Validator struct {
	name     string
	required []string
	schema   *jsonschema.Schema
}

// Builds a validator for the named target from raw JSON Schema data.
func NewValidator(name string, schemaJSON []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(schemaJSON)); err != nil {
		return nil, &InvalidSchemaError{Target: name, Message: err.Error()}
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, &InvalidSchemaError{Target: name, Message: err.Error()}
	}

	// the top-level required list drives our own per-field presence check,
	// which names each missing field individually
	var meta struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(schemaJSON, &meta); err != nil {
		return nil, &InvalidSchemaError{Target: name, Message: err.Error()}
	}

	return &Validator{
		name:     name,
		required: meta.Required,
		schema:   schema,
	}, nil
}

// returns the target name the validator was built for
func (v *Validator) Target() string {
	return v.name
}

// Validates a record, returning the complete list of violations (never just
// the first) so a sample can be fixed once for everything found. An empty
// list means the record conforms.
func (v *Validator) Validate(record sample.Record) ValidationErrors {
	var violations ValidationErrors

	// required fields first, one violation per missing field
	for _, field := range v.required {
		if !record.Has(field) {
			violations = append(violations, ValidationError{
				Target:  v.name,
				Field:   field,
				Message: "required field is missing",
			})
		}
	}

	instance := make(map[string]any, len(record))
	for field, value := range record {
		instance[field] = value
	}
	err := v.schema.Validate(instance)
	if err == nil {
		return violations
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		violations = append(violations, ValidationError{
			Target:  v.name,
			Message: err.Error(),
		})
		return violations
	}
	for _, cause := range ve.BasicOutput().Errors {
		if cause.Error == "" || strings.HasPrefix(cause.Error, "doesn't validate with") {
			continue // structural nodes of the cause tree, not violations
		}
		if strings.HasPrefix(cause.Error, "missing propert") {
			continue // already reported field by field above
		}
		violations = append(violations, ValidationError{
			Target:  v.name,
			Field:   fieldFromLocation(cause.InstanceLocation),
			Message: cause.Error,
		})
	}
	return violations
}

// extracts the record field name from a JSON pointer instance location
func fieldFromLocation(location string) string {
	location = strings.TrimPrefix(location, "/")
	if slash := strings.Index(location, "/"); slash != -1 {
		location = location[:slash]
	}
	location = strings.ReplaceAll(location, "~1", "/")
	location = strings.ReplaceAll(location, "~0", "~")
	return location
}

// Convenience wrapper implementing the validate-and-emit contract for one
// record: conforming records come back marshaled as canonical JSON, records
// with violations come back with the full violation list.
func (v *Validator) ValidateAndEmit(record sample.Record) ([]byte, ValidationErrors) {
	if violations := v.Validate(record); len(violations) > 0 {
		return nil, violations
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, ValidationErrors{{
			Target:  v.name,
			Message: fmt.Sprintf("couldn't serialize record: %s", err),
		}}
	}
	return data, nil
}
