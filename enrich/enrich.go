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

// This package joins sample records against auxiliary reference tables,
// importing address, geo-location and specimen-source fields keyed on a
// record field. Joins run strictly in declaration order: later joins may read
// fields imported by earlier ones.
package enrich

import (
	"github.com/covsurv/mds/config"
	"github.com/covsurv/mds/reference"
	"github.com/covsurv/mds/sample"
)

// ImportMode says which fields of a matched reference row are merged into
// the record.
type ImportMode int

const (
	// import every field of the matched row under its original key names
	ImportAll ImportMode = iota
	// import only the fields named in Spec.Fields
	ImportSubset
)

// A Spec configures one enrichment join.
type Spec struct {
	// the reference dataset joined against
	File string
	// the record field that supplies the join key
	JoinField string
	// which fields of a matched row to import
	Mode ImportMode
	// named subset of fields, for ImportSubset
	Fields []string
}

// Builds enrichment specs from the configured lab_metadata_req_json entries,
// preserving declaration order.
func SpecsFromConfig(entries []config.EnrichmentConfig) []Spec {
	specs := make([]Spec, len(entries))
	for i, entry := range entries {
		specs[i] = Spec{
			File:      entry.File,
			JoinField: entry.SampleField,
		}
		if entry.AddingFields.All {
			specs[i].Mode = ImportAll
		} else {
			specs[i].Mode = ImportSubset
			specs[i].Fields = entry.AddingFields.Fields
		}
	}
	return specs
}

// Joins a record against a reference table per the given spec. On a hit, the
// matched row's fields (all of them, or the configured subset) are merged
// into the record. On a miss the record is left exactly as it was and a
// MissError is returned so the caller can report it; a miss never aborts a
// batch.
func Join(record sample.Record, spec Spec, table reference.Table) error {
	key, found := record.Get(spec.JoinField)
	if !found {
		return &MissError{
			Dataset:   spec.File,
			JoinField: spec.JoinField,
		}
	}

	row, found := table.Lookup(key)
	if !found {
		return &MissError{
			Dataset:   spec.File,
			JoinField: spec.JoinField,
			Key:       key,
		}
	}

	switch spec.Mode {
	case ImportAll:
		for field, value := range row {
			record.Set(field, value)
		}
	case ImportSubset:
		for _, field := range spec.Fields {
			if value, found := row[field]; found {
				record.Set(field, value)
			}
		}
	}
	return nil
}

// Applies every enrichment spec to the record, in declaration order, looking
// each dataset up in the reference registry. Per-record misses and unusable
// datasets are collected and returned; neither stops the remaining joins.
func Apply(record sample.Record, specs []Spec) []error {
	var problems []error
	for _, spec := range specs {
		table, err := reference.Lookup(spec.File)
		if err != nil {
			// the dataset is unusable; other enrichments may still proceed
			problems = append(problems, err)
			continue
		}
		if err := Join(record, spec, table); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}
