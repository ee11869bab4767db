package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/cellpy/internal/arbin"
)

// Reader is the result-file collaborator driven by a run.
type Reader interface {
	CycleSource

	Load(ctx context.Context) error
	SetMass(mass float64)
	MakeSummary() error
	CreateStepTable() error
	ExportCSV(dir string) ([]string, error)
	Close() error
}

// OpenFunc opens a result file.
type OpenFunc func(path string) (Reader, error)

// ArbinOpener opens SQLite result databases with the arbin package.
func ArbinOpener(logger *slog.Logger) OpenFunc {
	return func(path string) (Reader, error) {
		f, err := arbin.Open(path)
		if err != nil {
			return nil, err
		}
		f.SetLogger(logger)
		return f, nil
	}
}

// Job is one export request.
type Job struct {
	Input     string  `yaml:"input" json:"input"`
	Mass      float64 `yaml:"mass" json:"mass"`
	OutDir    string  `yaml:"outdir" json:"outdir"`
	Delimiter string  `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	XLSX      bool    `yaml:"xlsx,omitempty" json:"xlsx,omitempty"`
}

// Validate checks the fields every job needs.
func (j Job) Validate() error {
	switch {
	case j.Input == "":
		return fmt.Errorf("%w: input is required", ErrInvalidJob)
	case j.OutDir == "":
		return fmt.Errorf("%w: outdir is required", ErrInvalidJob)
	case j.Mass <= 0:
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidJob, j.Mass)
	}
	return nil
}

// Result describes a finished run.
type Result struct {
	RunID       string   `json:"run_id"`
	Input       string   `json:"input"`
	CyclesFile  string   `json:"cycles_file"`
	XLSXFile    string   `json:"xlsx_file,omitempty"`
	ReaderFiles []string `json:"reader_files"`
	Cycles      []int    `json:"cycles"`
	Skipped     []int    `json:"skipped,omitempty"`
}

// Exporter runs export jobs.
type Exporter struct {
	// Open opens the input file. Defaults to ArbinOpener.
	Open OpenFunc

	Logger *slog.Logger

	// NewRunID generates run identifiers. Defaults to random UUIDs.
	NewRunID func() string
}

// New returns an Exporter reading SQLite result databases.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		Open:   ArbinOpener(logger),
		Logger: logger,
	}
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Exporter) runID() string {
	if e.NewRunID != nil {
		return e.NewRunID()
	}
	return uuid.NewString()
}

// OutputName returns the cycles CSV name for an input path.
func OutputName(input string) string {
	return norm.NFC.String(filepath.Base(input)) + "_cycles.csv"
}

// XLSXName returns the cycles workbook name for an input path.
func XLSXName(input string) string {
	return norm.NFC.String(filepath.Base(input)) + "_cycles.xlsx"
}

// Run executes one job. The output directory must exist; nothing is opened
// or written otherwise.
func (e *Exporter) Run(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	delimiter, err := ParseDelimiter(job.Delimiter)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(job.OutDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrOutDirNotFound, job.OutDir)
	}

	result := &Result{RunID: e.runID(), Input: job.Input}
	logger := e.logger().With("run_id", result.RunID)
	logger.Info("export started", "input", job.Input, "outdir", job.OutDir, "mass", job.Mass)

	open := e.Open
	if open == nil {
		open = ArbinOpener(logger)
	}
	reader, err := open(job.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", job.Input, err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logger.Error("error closing result file", "error", closeErr)
		}
	}()

	if err := reader.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", job.Input, err)
	}
	reader.SetMass(job.Mass)
	if err := reader.MakeSummary(); err != nil {
		return nil, fmt.Errorf("failed to make summary: %w", err)
	}
	if err := reader.CreateStepTable(); err != nil {
		return nil, fmt.Errorf("failed to create step table: %w", err)
	}

	logger.Info("exporting raw data and summary")
	result.ReaderFiles, err = reader.ExportCSV(job.OutDir)
	if err != nil {
		return nil, fmt.Errorf("failed to export raw data: %w", err)
	}

	table, skipped, err := Collect(ctx, reader, logger)
	if err != nil {
		return nil, err
	}
	result.Cycles = table.Cycles()
	result.Skipped = skipped

	result.CyclesFile = filepath.Join(job.OutDir, OutputName(job.Input))
	logger.Info("saving cycles", "file", result.CyclesFile, "delimiter", string(delimiter))
	if err := writeCSVFile(result.CyclesFile, table, delimiter); err != nil {
		return nil, err
	}

	if job.XLSX {
		result.XLSXFile = filepath.Join(job.OutDir, XLSXName(job.Input))
		if err := WriteXLSX(result.XLSXFile, table); err != nil {
			return nil, err
		}
	}

	logger.Info("export finished",
		"cycles", len(result.Cycles),
		"skipped", len(result.Skipped),
	)
	return result, nil
}
