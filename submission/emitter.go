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
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/covsurv/mds/sample"
)

// the ENA field groups, in their conventional emission order
var enaGroupOrder = []string{"study", "sample", "run", "experiment"}

// Emits the canonical record set as a JSON array.
func EmitRelecovJSON(w io.Writer, records []sample.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Emits records as a GISAID CSV. Columns appear in exactly the given header
// order; a field a record doesn't carry is emitted as an empty string, never
// omitted, so every row has the same column count.
func EmitGisaidCSV(w io.Writer, headers []string, records []sample.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	row := make([]string, len(headers))
	for _, record := range records {
		for i, header := range headers {
			row[i] = record.Value(header)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Emits one ENA field group as a tab-separated table with the group's
// configured columns, blanks for fields a record doesn't carry.
func EmitENATable(w io.Writer, fields []string, records []sample.Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(fields); err != nil {
		return err
	}
	row := make([]string, len(fields))
	for _, record := range records {
		for i, field := range fields {
			row[i] = record.Value(field)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// An OutputFile describes one emitted submission artifact; the set of
// outputs for a run is bundled into its manifest.
type OutputFile struct {
	Name   string
	Path   string
	Format string
}

// Writes the canonical RELECOV record set into the given folder.
func WriteRelecov(folder string, records []sample.Record) (OutputFile, error) {
	out := OutputFile{Name: "relecov", Path: "relecov_metadata.json", Format: "json"}
	file, err := os.Create(filepath.Join(folder, out.Path))
	if err != nil {
		return out, err
	}
	defer file.Close()
	return out, EmitRelecovJSON(file, records)
}

// Writes the GISAID CSV into the given folder.
func WriteGisaid(folder string, headers []string, records []sample.Record) (OutputFile, error) {
	out := OutputFile{Name: "gisaid", Path: "gisaid_metadata.csv", Format: "csv"}
	file, err := os.Create(filepath.Join(folder, out.Path))
	if err != nil {
		return out, err
	}
	defer file.Close()
	return out, EmitGisaidCSV(file, headers, records)
}

// Writes one table per configured ENA field group into the given folder,
// in the conventional group order (any groups beyond the conventional four
// would have been rejected by configuration validation).
func WriteENA(folder string, groups map[string][]string, records []sample.Record) ([]OutputFile, error) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return enaGroupRank(names[i]) < enaGroupRank(names[j])
	})

	outputs := make([]OutputFile, 0, len(names))
	for _, name := range names {
		out := OutputFile{Name: "ena-" + name, Path: "ena_" + name + ".tsv", Format: "tsv"}
		file, err := os.Create(filepath.Join(folder, out.Path))
		if err != nil {
			return outputs, err
		}
		err = EmitENATable(file, groups[name], records)
		file.Close()
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func enaGroupRank(name string) int {
	for i, group := range enaGroupOrder {
		if name == group {
			return i
		}
	}
	return len(enaGroupOrder)
}
