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

// This package runs batches of lab records through the mapping stages. Each
// record is independent: the only shared state is the immutable mapping
// configuration and the read-only reference tables, so records are processed
// by a worker pool and stitched back into input order afterwards.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/covsurv/mds/bioinfo"
	"github.com/covsurv/mds/config"
	"github.com/covsurv/mds/enrich"
	"github.com/covsurv/mds/mapping"
	"github.com/covsurv/mds/rules"
	"github.com/covsurv/mds/sample"
	"github.com/covsurv/mds/submission"
)

// A Pipeline holds everything needed to process one record end to end: the
// rename table, the post-processing rule set, the enrichment specs, any
// bioinformatics results and the target schema validator. It is built once
// per run and read-only afterwards.
type Pipeline struct {
	conf        config.Config
	ruleSet     []rules.Rule
	enrichments []enrich.Spec
	// nil when the run carries no bioinformatics results
	results *bioinfo.Results
	// nil when the run targets no schema (mapping dry runs)
	validator *submission.Validator
}

// Builds a pipeline from a validated configuration and a target validator.
func NewPipeline(conf config.Config, validator *submission.Validator) (*Pipeline, error) {
	ruleSet, err := rules.FromConfig(conf.LabMetadata)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		conf:        conf,
		ruleSet:     ruleSet,
		enrichments: enrich.SpecsFromConfig(conf.LabMetadata.LabMetadataReqJSON),
		validator:   validator,
	}, nil
}

// Attaches parsed bioinformatics pipeline results; subsequent records get
// the bioinformatic merge stage.
func (p *Pipeline) AttachResults(results bioinfo.Results) {
	p.results = &results
}

// Processes a single raw lab record through every stage: field mapping,
// fixed fields, post-processing rules, enrichment joins (in declaration
// order), bioinformatics merge, schema validation. The returned problems are
// the record's accumulated non-fatal failures; the record itself is always
// returned, as far as it got.
func (p *Pipeline) Process(raw map[string]string) (sample.Record, []error) {
	record := mapping.MapFields(raw, p.conf.LabMetadata.MetadataLabHeading)
	mapping.ApplyFixedFields(record, p.conf.LabMetadata.FixedFields)
	rules.Apply(p.ruleSet, record)

	problems := enrich.Apply(record, p.enrichments)
	if p.results != nil {
		problems = append(problems, bioinfo.Merge(record, p.conf.BioinfoAnalysis, *p.results)...)
	}
	if p.validator != nil {
		for _, violation := range p.validator.Validate(record) {
			problems = append(problems, violation)
		}
	}
	return record, problems
}

// Runs a batch of raw records through the pipeline with the configured
// number of workers. Records are processed in no particular order, but each
// result is tagged with its input index and the report lists them in input
// order. Per-record problems never abort the batch; only context
// cancellation does.
func (p *Pipeline) Run(ctx context.Context, raws []map[string]string) (Report, error) {
	report := Report{
		Id:        uuid.New(),
		Target:    p.targetName(),
		StartTime: time.Now(),
	}
	slog.Debug(fmt.Sprintf("Run %s: processing %d record(s) with %d worker(s)",
		report.Id.String(), len(raws), p.conf.Service.Workers))

	results := make([]Result, len(raws))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(p.conf.Service.Workers)
	for i, raw := range raws {
		i, raw := i, raw
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			record, problems := p.Process(raw)
			result := Result{
				Index:    i,
				SampleId: record.Value("sequencing_sample_id"),
				Record:   record,
			}
			for _, problem := range problems {
				result.Problems = append(result.Problems, problem.Error())
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return report, err
	}

	report.Results = results
	for _, result := range results {
		if len(result.Problems) > 0 {
			report.Failed++
		} else {
			report.Processed++
		}
	}
	report.StopTime = time.Now()
	return report, nil
}

func (p *Pipeline) targetName() string {
	if p.validator != nil {
		return p.validator.Target()
	}
	return ""
}
