package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpy/internal/export"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions

	// Open overrides how result files are opened (for testing).
	Open export.OpenFunc

	// NewRunID overrides run identifier generation (for testing).
	NewRunID func() string
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <jobs.yaml>",
		Short: "Run several exports from a YAML job file",
		Long: `Run the export of every job listed in a YAML file.

Relative paths are resolved against the directory of the job file.
A failed job is reported and the remaining jobs still run; the command
exits with status 1 if any job failed.

Example job file:
  delimiter: ";"
  jobs:
    - input: raw/cell_01.res
      mass: 0.982
      outdir: processed
    - input: raw/cell_02.res
      mass: 1.104
      outdir: processed
      xlsx: true`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)
	logger := opts.logger()

	batch, err := export.LoadBatch(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to load batch file", err,
			map[string]string{"file": path})
	}
	logger.Info("batch loaded", "file", path, "jobs", len(batch.Jobs))

	ctx, stop := commandContext(cmd)
	defer stop()

	exporter := export.New(logger)
	if opts.Open != nil {
		exporter.Open = opts.Open
	}
	exporter.NewRunID = opts.NewRunID

	report, err := exporter.RunBatch(ctx, batch)
	if err != nil && !errors.Is(err, export.ErrBatchFailed) {
		return formatter.Fail(ExitFailure, ErrCodeBatchFailed, "batch interrupted", err, report)
	}

	if formatter.JSON() {
		if len(report.Failures) > 0 {
			_ = formatter.Error(ErrCodeBatchFailed, err.Error(), report)
		} else {
			_ = formatter.Success(report)
		}
	} else {
		for _, result := range report.Results {
			formatter.Textf("✓ %s -> %s (%d cycles)", result.Input, result.CyclesFile, len(result.Cycles))
		}
		for _, failure := range report.Failures {
			formatter.Textf("✗ %s: %s", failure.Input, failure.Error)
		}
		formatter.Textf("%d of %d jobs succeeded", len(report.Results), len(batch.Jobs))
	}

	if len(report.Failures) > 0 {
		// Failures are already listed in the output.
		return &ExitError{Code: ExitFailure, Message: "batch failed", Err: err, Reported: true}
	}
	return nil
}
