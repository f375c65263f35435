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

package bioinfo

import (
	"fmt"
)

// This error type is returned when a required pipeline output file is absent
// (or unusable) for a sample that is expected to carry bioinformatic
// results. It is reported per sample; the run continues for other samples.
type MissingFileError struct {
	Sample, File, Message string
}

func (e MissingFileError) Error() string {
	if e.Sample != "" {
		return fmt.Sprintf("Required file '%s' unavailable for sample '%s': %s", e.File, e.Sample, e.Message)
	}
	return fmt.Sprintf("Required file '%s' unavailable: %s", e.File, e.Message)
}

// indicates that a mapped metric or version entry is absent from an
// otherwise-present pipeline output file
type MissingMetricError struct {
	Sample, Metric, File string
}

func (e MissingMetricError) Error() string {
	return fmt.Sprintf("Metric '%s' not found in '%s' for sample '%s'", e.Metric, e.File, e.Sample)
}
