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

package reference

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// we maintain a table of loaded datasets, identified by their file names;
// all loading happens before record workers start, so no locking is needed
var allTables = make(map[string]Table)

// loads the reference dataset in the given file, or returns the cached table
// from an earlier load; the dataset name is the file's base name
func Open(path string) (Table, error) {
	name := filepath.Base(path)
	if table, found := allTables[name]; found {
		return table, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Table{}, &LoadError{Dataset: name, Message: err.Error()}
	}
	defer file.Close()

	table, err := Load(name, file)
	if err != nil {
		return Table{}, err
	}
	allTables[name] = table // stash it
	slog.Debug(fmt.Sprintf("Loaded reference dataset %s (%d row(s))", name, table.Len()))
	return table, nil
}

// registers an already-built table under its dataset name (used by tests to
// install synthetic datasets without touching the filesystem)
func Register(table Table) {
	allTables[table.name] = table
}

// fetches a previously loaded or registered table by dataset name
func Lookup(name string) (Table, error) {
	table, found := allTables[name]
	if !found {
		return Table{}, &NotFoundError{Dataset: name}
	}
	return table, nil
}
