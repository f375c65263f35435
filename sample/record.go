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

package sample

import (
	"sort"
)

// A Record holds the metadata for a single sample as it moves through the
// mapping stages. Absence of a field is distinct from an explicitly empty
// value, so all lookups go through Get/Has rather than raw indexing.
type Record map[string]string

// creates an empty sample record
func New() Record {
	return make(Record)
}

// fetches the value of the given field, indicating whether it is present
func (r Record) Get(field string) (string, bool) {
	value, found := r[field]
	return value, found
}

// returns true if the given field is present in the record (even if empty)
func (r Record) Has(field string) bool {
	_, found := r[field]
	return found
}

// sets the given field to the given value
func (r Record) Set(field, value string) {
	r[field] = value
}

// returns the value for the given field, or the empty string if it is absent
// (used by emitters that render missing fields as blanks)
func (r Record) Value(field string) string {
	return r[field]
}

// returns an independent copy of the record
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for field, value := range r {
		clone[field] = value
	}
	return clone
}

// returns the record's field names in lexicographic order
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for field := range r {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
