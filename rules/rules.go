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

// This package applies the post-processing rules that derive canonical fields
// from other fields: conditional "trigger value -> constant" rules (exact or
// substring matching) and field-to-field copies. Rules are dispatched
// uniformly through the Rule interface, and applying a rule set is
// idempotent.
package rules

import (
	"sort"
	"strings"

	"github.com/covsurv/mds/sample"
)

// A Rule derives the value of one target field from the current state of a
// record. A rule whose preconditions don't hold leaves the record untouched.
type Rule interface {
	// the canonical field the rule produces
	Target() string
	// applies the rule to the record in place
	Apply(record sample.Record)
}

// An ExactRule sets its target field to a configured constant when the
// trigger field's value exactly equals one of the configured trigger values.
// No partial or fuzzy matching.
type ExactRule struct {
	TargetField  string
	TriggerField string
	// trigger value -> constant assigned to the target field
	Values map[string]string
}

func (r ExactRule) Target() string {
	return r.TargetField
}

func (r ExactRule) Apply(record sample.Record) {
	trigger, found := record.Get(r.TriggerField)
	if !found {
		return
	}
	if value, found := r.Values[trigger]; found {
		record.Set(r.TargetField, value)
	}
}

// A SubstringRule sets its target field to a configured constant when one of
// the configured trigger values occurs as a substring of the trigger field
// (e.g. any instrument model containing "Illumina" yields the "Illumina"
// platform constant). Candidate substrings are tried in lexicographic order
// so the outcome doesn't depend on map iteration.
type SubstringRule struct {
	TargetField  string
	TriggerField string
	Values       map[string]string
}

func (r SubstringRule) Target() string {
	return r.TargetField
}

func (r SubstringRule) Apply(record sample.Record) {
	trigger, found := record.Get(r.TriggerField)
	if !found {
		return
	}
	substrings := make([]string, 0, len(r.Values))
	for substring := range r.Values {
		substrings = append(substrings, substring)
	}
	sort.Strings(substrings)
	for _, substring := range substrings {
		if strings.Contains(trigger, substring) {
			record.Set(r.TargetField, r.Values[substring])
			return
		}
	}
}

// A CopyRule sets its target field to the current value of a named source
// field. If the source field is absent the target is left unset: this is a
// deliberate best-effort policy, not an error.
type CopyRule struct {
	TargetField string
	SourceField string
}

func (r CopyRule) Target() string {
	return r.TargetField
}

func (r CopyRule) Apply(record sample.Record) {
	if value, found := record.Get(r.SourceField); found {
		record.Set(r.TargetField, value)
	}
}

// Applies every rule in the set to the record, in order. The rule set is
// idempotent: a second application produces the same record.
func Apply(ruleSet []Rule, record sample.Record) {
	for _, rule := range ruleSet {
		rule.Apply(record)
	}
}
