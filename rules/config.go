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

package rules

import (
	"fmt"
	"sort"

	"github.com/covsurv/mds/config"
)

// Builds the rule set from the lab metadata configuration: the conditional
// derivation rules first (required_post_processing), then the copy rules
// (required_copy_from_other_field). Rules are ordered by target field so a
// given configuration always yields the same rule sequence.
func FromConfig(conf config.LabMetadataConfig) ([]Rule, error) {
	// config.Read rejects rule chains, but guard against rule sets assembled
	// by hand: a rule reading another rule's target breaks idempotence
	ruleTargets := make(map[string]bool)
	for target := range conf.RequiredPostProcessing {
		ruleTargets[target] = true
	}
	for target := range conf.RequiredCopyFromOtherField {
		ruleTargets[target] = true
	}
	for target, entry := range conf.RequiredPostProcessing {
		if ruleTargets[entry.TriggerField] {
			return nil, &config.InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' is triggered by '%s', which another rule produces", target, entry.TriggerField),
			}
		}
	}
	for target, source := range conf.RequiredCopyFromOtherField {
		if ruleTargets[source] {
			return nil, &config.InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Copy rule for '%s' copies from '%s', which another rule produces", target, source),
			}
		}
	}

	ruleSet := make([]Rule, 0, len(conf.RequiredPostProcessing)+len(conf.RequiredCopyFromOtherField))

	targets := make([]string, 0, len(conf.RequiredPostProcessing))
	for target := range conf.RequiredPostProcessing {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		entry := conf.RequiredPostProcessing[target]
		switch entry.Match {
		case "", "exact":
			ruleSet = append(ruleSet, ExactRule{
				TargetField:  target,
				TriggerField: entry.TriggerField,
				Values:       entry.Values,
			})
		case "substring":
			ruleSet = append(ruleSet, SubstringRule{
				TargetField:  target,
				TriggerField: entry.TriggerField,
				Values:       entry.Values,
			})
		default:
			// config.Read validates match modes, but guard against rule sets
			// assembled by hand
			return nil, &config.InvalidConfigError{
				Section: "lab_metadata",
				Message: fmt.Sprintf("Rule for '%s' has unknown match mode '%s'", target, entry.Match),
			}
		}
	}

	copyTargets := make([]string, 0, len(conf.RequiredCopyFromOtherField))
	for target := range conf.RequiredCopyFromOtherField {
		copyTargets = append(copyTargets, target)
	}
	sort.Strings(copyTargets)
	for _, target := range copyTargets {
		ruleSet = append(ruleSet, CopyRule{
			TargetField: target,
			SourceField: conf.RequiredCopyFromOtherField[target],
		})
	}

	return ruleSet, nil
}
