package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/covsurv/mds/batch"
	"github.com/covsurv/mds/bioinfo"
	"github.com/covsurv/mds/config"
	"github.com/covsurv/mds/journal"
	"github.com/covsurv/mds/reference"
	"github.com/covsurv/mds/submission"
)

// Prints usage info.
func usage() {
	fmt.Fprintf(os.Stderr, "%s: usage:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "%s <config_file> <lab_metadata_json> <output_dir> [analysis_folder]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "See README.md for details on config files.\n")
	os.Exit(1)
}

// reads raw lab records from the lab metadata JSON file (an array of
// flat string-valued objects, one per sample)
func readLabRecords(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]string
	err = json.Unmarshal(data, &records)
	return records, err
}

func main() {

	// arguments: configuration, lab metadata, output directory, and
	// optionally a bioinformatics analysis folder
	if len(os.Args) < 4 {
		usage()
	}
	configFile := os.Args[1]
	labFile := os.Args[2]
	outputDir := os.Args[3]

	// Read the configuration file. Auxiliary datasets and JSON schemas are
	// resolved relative to its directory.
	log.Printf("Reading configuration from '%s'...\n", configFile)
	b, err := os.ReadFile(configFile)
	if err != nil {
		log.Panicf("Couldn't read configuration data: %s\n", err.Error())
	}
	conf, err := config.Read(b)
	if err != nil {
		log.Panicf("Couldn't initialize the configuration: %s\n", err.Error())
	}
	configDir := filepath.Dir(configFile)

	// Load the reference datasets the enrichment joins need. A bad dataset
	// disables its own enrichment but not the others.
	for _, entry := range conf.LabMetadata.LabMetadataReqJSON {
		if _, err := reference.Open(filepath.Join(configDir, entry.File)); err != nil {
			log.Printf("WARNING: %s (enrichment on '%s' disabled)\n", err.Error(), entry.SampleField)
		}
	}

	// Compile the canonical schema validator.
	schemaFile, found := conf.JSONSchemas["relecov"]
	if !found {
		log.Panicf("No relecov schema is configured\n")
	}
	schemaData, err := os.ReadFile(filepath.Join(configDir, schemaFile))
	if err != nil {
		log.Panicf("Couldn't read schema '%s': %s\n", schemaFile, err.Error())
	}
	validator, err := submission.NewValidator("relecov", schemaData)
	if err != nil {
		log.Panicf("Couldn't compile schema '%s': %s\n", schemaFile, err.Error())
	}

	pipeline, err := batch.NewPipeline(conf, validator)
	if err != nil {
		log.Panicf("Couldn't assemble the mapping pipeline: %s\n", err.Error())
	}

	// Attach bioinformatics results if an analysis folder was given.
	if len(os.Args) > 4 {
		results, err := bioinfo.LoadResults(os.Args[4], conf.BioinfoAnalysis)
		if err != nil {
			var missing *bioinfo.MissingFileError
			if errors.As(err, &missing) {
				log.Printf("WARNING: %s (continuing without bioinformatic results)\n", err.Error())
			} else {
				log.Panicf("Couldn't load bioinformatics results: %s\n", err.Error())
			}
		} else {
			pipeline.AttachResults(results)
		}
	}

	// Read the batch and run it.
	log.Printf("Reading lab metadata from '%s'...\n", labFile)
	raws, err := readLabRecords(labFile)
	if err != nil {
		log.Panicf("Couldn't read lab metadata: %s\n", err.Error())
	}
	log.Printf("Processing %d records with %d workers...\n", len(raws), conf.Service.Workers)
	report, err := pipeline.Run(context.Background(), raws)
	if err != nil {
		log.Panicf("Batch run failed: %s\n", err.Error())
	}

	// Emit the submission outputs for the records that came through clean.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Panicf("Couldn't create output directory: %s\n", err.Error())
	}
	records := report.CleanRecords()
	var outputs []submission.OutputFile
	if len(records) > 0 {
		relecovOut, err := submission.WriteRelecov(outputDir, records)
		if err != nil {
			log.Panicf("Couldn't write RELECOV output: %s\n", err.Error())
		}
		outputs = append(outputs, relecovOut)

		gisaidOut, err := submission.WriteGisaid(outputDir, conf.GisaidCSVHeaders, records)
		if err != nil {
			log.Panicf("Couldn't write GISAID output: %s\n", err.Error())
		}
		outputs = append(outputs, gisaidOut)

		enaOuts, err := submission.WriteENA(outputDir, conf.ENAFields, records)
		if err != nil {
			log.Panicf("Couldn't write ENA output: %s\n", err.Error())
		}
		outputs = append(outputs, enaOuts...)
	}

	// Journal the run, manifest included.
	if conf.Service.DataDirectory != "" {
		if err := journal.Init(conf.Service.DataDirectory); err != nil {
			log.Printf("WARNING: couldn't open the run journal: %s\n", err.Error())
		} else {
			record := journal.Record{
				Id:         report.Id,
				Target:     report.Target,
				StartTime:  report.StartTime,
				StopTime:   report.StopTime,
				Status:     report.Status(),
				NumSamples: len(raws),
				NumFailed:  report.Failed,
			}
			if len(outputs) > 0 {
				manifest, err := submission.BuildManifest("run-"+report.Id.String(), outputs)
				if err != nil {
					log.Printf("WARNING: couldn't build the run manifest: %s\n", err.Error())
				} else {
					record.Manifest = manifest
				}
			}
			if err := journal.RecordRun(record); err != nil {
				log.Printf("WARNING: couldn't journal the run: %s\n", err.Error())
			}
			if err := journal.Finalize(); err != nil {
				log.Printf("WARNING: couldn't close the run journal: %s\n", err.Error())
			}
		}
	}

	fmt.Print(report.Summary())
	if report.Failed > 0 {
		os.Exit(1)
	}
}
