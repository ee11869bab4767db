package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpy/internal/arbin"
	"github.com/roach88/cellpy/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Input     string
	Mass      float64
	OutDir    string
	Delimiter string
	XLSX      bool

	// Open overrides how result files are opened (for testing).
	// If nil, result files are read as SQLite result databases.
	Open export.OpenFunc

	// NewRunID overrides run identifier generation (for testing).
	NewRunID func() string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a result file to CSV",
		Long: `Load a cycler result file, set the active material mass, build the
summary and step tables, and write them to the output directory.

Besides the raw, summary and step CSV files, all cycles are written
side by side to {basename}_cycles.csv with one capacity column and one
voltage column per cycle. Shorter cycles are padded with empty cells.
Cycles that cannot be extracted are skipped.

The output directory must exist.

Example:
  cellpy export --input data/20141030_LBCM5_6_cc_01.res --mass 0.982 --outdir processed
  cellpy export --input cell.res --mass 1.5 --outdir out --delimiter , --xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "cycler result file (required)")
	cmd.Flags().Float64Var(&opts.Mass, "mass", 0, "active material mass in mg (required)")
	cmd.Flags().StringVar(&opts.OutDir, "outdir", "", "existing output directory (required)")
	cmd.Flags().StringVar(&opts.Delimiter, "delimiter", string(export.DefaultDelimiter), `delimiter for the cycles file ("tab" for tab)`)
	cmd.Flags().BoolVar(&opts.XLSX, "xlsx", false, "also write the cycles table as an Excel workbook")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("mass")
	_ = cmd.MarkFlagRequired("outdir")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)
	logger := opts.logger()

	ctx, stop := commandContext(cmd)
	defer stop()

	exporter := export.New(logger)
	if opts.Open != nil {
		exporter.Open = opts.Open
	}
	exporter.NewRunID = opts.NewRunID

	job := export.Job{
		Input:     opts.Input,
		Mass:      opts.Mass,
		OutDir:    opts.OutDir,
		Delimiter: opts.Delimiter,
		XLSX:      opts.XLSX,
	}

	formatter.Textf("Output will be sent to folder: %s", job.OutDir)
	result, err := exporter.Run(ctx, job)
	if err != nil {
		code, exit := classifyExportError(err)
		return formatter.Fail(exit, code, "export failed", err, job)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	printResult(formatter, result)
	return nil
}

func printResult(formatter *OutputFormatter, result *export.Result) {
	for _, path := range result.ReaderFiles {
		formatter.VerboseLog("exported %s", path)
	}
	formatter.Textf("you have %d cycles", len(result.Cycles))
	for _, cycle := range result.Skipped {
		formatter.Textf("could not extract cycle %d", cycle)
	}
	formatter.Textf("saved the file %s", result.CyclesFile)
	if result.XLSXFile != "" {
		formatter.Textf("saved the file %s", result.XLSXFile)
	}
}

// classifyExportError maps an export error to an error code and exit code.
// Problems with the request itself are command errors; anything that goes
// wrong while reading or writing data is a run failure.
func classifyExportError(err error) (string, int) {
	switch {
	case errors.Is(err, export.ErrOutDirNotFound), errors.Is(err, arbin.ErrResultNotFound):
		return ErrCodeNotFound, ExitCommandError
	case errors.Is(err, export.ErrInvalidJob), errors.Is(err, export.ErrInvalidDelimiter):
		return ErrCodeInvalidInput, ExitCommandError
	default:
		return ErrCodeExportFailed, ExitFailure
	}
}

// commandContext returns the command's context, cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
