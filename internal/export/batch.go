package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Batch is a list of jobs read from YAML:
//
//	delimiter: ";"
//	jobs:
//	  - input: raw/cell_01.res.sqlite
//	    mass: 0.982
//	    outdir: processed
//	    xlsx: true
type Batch struct {
	// Delimiter applies to jobs that do not set their own.
	Delimiter string `yaml:"delimiter,omitempty"`
	Jobs      []Job  `yaml:"jobs"`
}

// LoadBatch reads a batch file. Relative input and outdir paths are resolved
// against the directory of the batch file. Unknown fields are rejected.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch Batch
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(batch.Jobs) == 0 {
		return nil, fmt.Errorf("invalid batch: jobs list is required and must be non-empty")
	}

	base := filepath.Dir(path)
	for i := range batch.Jobs {
		job := &batch.Jobs[i]
		job.Input = resolve(base, job.Input)
		job.OutDir = resolve(base, job.OutDir)
		if job.Delimiter == "" {
			job.Delimiter = batch.Delimiter
		}
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("invalid batch: job %d: %w", i, err)
		}
	}

	return &batch, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// JobFailure records a job that did not complete.
type JobFailure struct {
	Index int    `json:"index"`
	Input string `json:"input"`
	Error string `json:"error"`
}

// BatchReport collects the outcome of RunBatch.
type BatchReport struct {
	Results  []*Result    `json:"results"`
	Failures []JobFailure `json:"failures,omitempty"`
}

// RunBatch runs the jobs in order. A failed job is recorded and the next job
// runs; the returned error wraps ErrBatchFailed if any job failed.
func (e *Exporter) RunBatch(ctx context.Context, b *Batch) (*BatchReport, error) {
	report := &BatchReport{}
	for i, job := range b.Jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := e.Run(ctx, job)
		if err != nil {
			e.logger().Error("export job failed", "job", i, "input", job.Input, "error", err)
			report.Failures = append(report.Failures, JobFailure{Index: i, Input: job.Input, Error: err.Error()})
			continue
		}
		report.Results = append(report.Results, result)
	}

	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrBatchFailed, len(report.Failures), len(b.Jobs))
	}
	return report, nil
}
