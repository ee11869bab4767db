package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/roach88/cellpy/internal/testutil"
)

var errBrokenCycle = errors.New("broken cycle")

// fakeReader serves fixed series and records the calls it receives.
type fakeReader struct {
	cycles  []int
	series  map[int][2][]float64
	failing map[int]error
	loadErr error

	calls  []string
	mass   float64
	closed bool
	outDir string
}

func (f *fakeReader) Load(context.Context) error {
	f.calls = append(f.calls, "load")
	return f.loadErr
}

func (f *fakeReader) SetMass(mass float64) {
	f.calls = append(f.calls, "set_mass")
	f.mass = mass
}

func (f *fakeReader) MakeSummary() error {
	f.calls = append(f.calls, "make_summary")
	return nil
}

func (f *fakeReader) CreateStepTable() error {
	f.calls = append(f.calls, "create_step_table")
	return nil
}

func (f *fakeReader) ExportCSV(dir string) ([]string, error) {
	f.calls = append(f.calls, "export_csv")
	f.outDir = dir
	return []string{filepath.Join(dir, "fake_normal.csv")}, nil
}

func (f *fakeReader) CycleNumbers() ([]int, error) {
	f.calls = append(f.calls, "cycle_numbers")
	return f.cycles, nil
}

func (f *fakeReader) CapacityVoltage(cycle int) ([]float64, []float64, error) {
	if err, ok := f.failing[cycle]; ok {
		return nil, nil, err
	}
	s := f.series[cycle]
	return s[0], s[1], nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

// twoCycleReader is the reference case: cycle 2 is one point shorter.
func twoCycleReader() *fakeReader {
	return &fakeReader{
		cycles: []int{1, 2},
		series: map[int][2][]float64{
			1: {{0.1, 0.2}, {3.0, 3.1}},
			2: {{0.1}, {3.0}},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testExporter returns an Exporter that always opens reader.
func testExporter(reader *fakeReader) (*Exporter, *[]string) {
	var opened []string
	e := &Exporter{
		Open: func(path string) (Reader, error) {
			opened = append(opened, path)
			return reader, nil
		},
		Logger:   discardLogger(),
		NewRunID: testutil.FixedRunID("run-0001"),
	}
	return e, &opened
}
