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

package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/covsurv/mds/sample"
)

// the outcome for one input record
type Result struct {
	// position of the record in the batch input
	Index int `json:"index"`
	// the record's sample identifier, if it carried one
	SampleId string `json:"sample_id"`
	// the composed record, as far as processing got
	Record sample.Record `json:"record"`
	// accumulated non-fatal failures (enrichment misses, missing metrics,
	// schema violations); empty for a clean record
	Problems []string `json:"problems,omitempty"`
}

// A Report summarizes one batch run: processed/failed counts plus per-record
// detail, listed in input order.
type Report struct {
	Id        uuid.UUID `json:"id"`
	Target    string    `json:"target"`
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Results   []Result  `json:"results"`
}

// the run's overall status: "succeeded" if every record came through clean,
// "partial" if some did, "failed" if none did
func (r Report) Status() string {
	switch {
	case r.Failed == 0:
		return "succeeded"
	case r.Processed == 0:
		return "failed"
	default:
		return "partial"
	}
}

// returns the records that came through without problems
func (r Report) CleanRecords() []sample.Record {
	records := make([]sample.Record, 0, r.Processed)
	for _, result := range r.Results {
		if len(result.Problems) == 0 {
			records = append(records, result.Record)
		}
	}
	return records
}

// renders a human-readable summary of the run, with per-record detail for
// every record that had problems
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s): %d processed, %d failed\n",
		r.Id.String(), r.Status(), r.Processed, r.Failed)
	for _, result := range r.Results {
		if len(result.Problems) == 0 {
			continue
		}
		name := result.SampleId
		if name == "" {
			name = fmt.Sprintf("record %d", result.Index)
		}
		fmt.Fprintf(&b, "  %s:\n", name)
		for _, problem := range result.Problems {
			fmt.Fprintf(&b, "    - %s\n", problem)
		}
	}
	return b.String()
}
