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

// This package turns a raw lab record, whose headers vary from lab to lab,
// into a sample record with canonical field names.
package mapping

import (
	"github.com/covsurv/mds/sample"
)

// A RenameTable maps each canonical field name to the list of source header
// variants accepted for it, in priority order.
type RenameTable map[string][]string

// Maps a raw lab record onto canonical field names. For every canonical
// field, the raw record's headers are scanned against the accepted variants
// in priority order and the first match's value is copied; the canonical
// name itself is accepted last, so a record that already uses canonical
// names maps to itself. A field with no matching header is simply absent
// from the result: absence is distinct from an explicit empty value, and
// both survive the later stages untouched.
func MapFields(raw map[string]string, table RenameTable) sample.Record {
	record := sample.New()
	for canonical, variants := range table {
		matched := false
		for _, variant := range variants {
			if value, found := raw[variant]; found {
				record.Set(canonical, value)
				matched = true
				break // first match wins
			}
		}
		if !matched {
			if value, found := raw[canonical]; found {
				record.Set(canonical, value)
			}
		}
	}
	return record
}

// Stamps fixed field values onto a record. Fixed fields carry configured
// constants (host organism, schema version and the like) and overwrite
// whatever the lab supplied for them.
func ApplyFixedFields(record sample.Record, fixed map[string]string) {
	for field, value := range fixed {
		record.Set(field, value)
	}
}
