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

// This package loads the auxiliary lookup datasets used by the enrichment
// stage: institution addresses, geo-location tables, specimen-source
// taxonomies. Each dataset is a JSON object of flat objects keyed by a join
// value, loaded fully into memory and read only afterwards.
package reference

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// A Table maps a join value (institution name, city name, specimen-source
// string) to a flat row of additional fields. Tables are read-only once
// loaded.
type Table struct {
	name string
	rows map[string]map[string]string
}

// creates a table directly from rows (used by tests and fixtures)
func NewTable(name string, rows map[string]map[string]string) Table {
	copied := make(map[string]map[string]string, len(rows))
	for key, row := range rows {
		copiedRow := make(map[string]string, len(row))
		for field, value := range row {
			copiedRow[field] = value
		}
		copied[key] = copiedRow
	}
	return Table{name: name, rows: copied}
}

// returns the dataset identifier the table was loaded under
func (t Table) Name() string {
	return t.name
}

// returns the number of rows in the table
func (t Table) Len() int {
	return len(t.rows)
}

// looks up the row for the given join value, using exact string equality
func (t Table) Lookup(key string) (map[string]string, bool) {
	row, found := t.rows[key]
	return row, found
}

// returns the table's join keys in lexicographic order
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t.rows))
	for key := range t.rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Loads a reference table with the given dataset name from JSON data. The
// data must be a JSON object of flat objects. A duplicate join key is a
// configuration error, not something we resolve silently, so the object is
// walked token by token (encoding/json would keep only the last occurrence).
func Load(name string, r io.Reader) (Table, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return Table{}, &LoadError{Dataset: name, Message: err.Error()}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Table{}, &LoadError{
			Dataset: name,
			Message: "expected a JSON object of objects",
		}
	}

	rows := make(map[string]map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Table{}, &LoadError{Dataset: name, Message: err.Error()}
		}
		key := tok.(string) // object keys are always strings
		if _, found := rows[key]; found {
			return Table{}, &DuplicateKeyError{Dataset: name, Key: key}
		}

		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			return Table{}, &LoadError{
				Dataset: name,
				Message: fmt.Sprintf("row '%s': %s", key, err.Error()),
			}
		}
		rows[key] = flattenRow(row)
	}

	if _, err := dec.Token(); err != nil { // consume the closing brace
		return Table{}, &LoadError{Dataset: name, Message: err.Error()}
	}
	return Table{name: name, rows: rows}, nil
}

// renders a decoded JSON row as string-valued fields (scalars only)
func flattenRow(row map[string]any) map[string]string {
	flat := make(map[string]string, len(row))
	for field, value := range row {
		switch v := value.(type) {
		case string:
			flat[field] = v
		case nil:
			flat[field] = ""
		default:
			flat[field] = fmt.Sprintf("%v", v)
		}
	}
	return flat
}
