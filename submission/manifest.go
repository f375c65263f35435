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
	"fmt"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/frictionlessdata/datapackage-go/validator"
)

// Bundles the emitted output files of a run into a Frictionless data package
// manifest, which the run journal stores alongside the run record.
func BuildManifest(runName string, outputs []OutputFile) (*datapackage.Package, error) {
	if len(outputs) == 0 {
		return nil, fmt.Errorf("a run manifest needs at least one output file")
	}
	resources := make([]any, len(outputs))
	for i, output := range outputs {
		resources[i] = map[string]any{
			"name":   output.Name,
			"path":   output.Path,
			"format": output.Format,
		}
	}
	descriptor := map[string]any{
		"name":      runName,
		"resources": resources,
	}
	return datapackage.New(descriptor, ".", validator.InMemoryLoader())
}
