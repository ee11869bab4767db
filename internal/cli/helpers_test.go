package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpy/internal/export"
)

// stubReader serves two cycles, the second one point shorter.
type stubReader struct {
	loadErr error
	closed  bool
}

func (s *stubReader) Load(context.Context) error { return s.loadErr }
func (s *stubReader) SetMass(float64)           {}
func (s *stubReader) MakeSummary() error        { return nil }
func (s *stubReader) CreateStepTable() error    { return nil }

func (s *stubReader) Close() error {
	s.closed = true
	return nil
}

func (s *stubReader) ExportCSV(dir string) ([]string, error) {
	return []string{filepath.Join(dir, "stub_normal.csv")}, nil
}

func (s *stubReader) CycleNumbers() ([]int, error) { return []int{1, 2}, nil }

func (s *stubReader) CapacityVoltage(cycle int) ([]float64, []float64, error) {
	if cycle == 1 {
		return []float64{0.1, 0.2}, []float64{3.0, 3.1}, nil
	}
	return []float64{0.1}, []float64{3.0}, nil
}

const stubCycles = "cap cycle_no 1;voltage cycle_no 1;cap cycle_no 2;voltage cycle_no 2\n" +
	"0.1;3;0.1;3\n" +
	"0.2;3.1;;\n"

// stubOpener opens reader for every path and records the paths.
func stubOpener(reader *stubReader) (export.OpenFunc, *[]string) {
	var opened []string
	return func(path string) (export.Reader, error) {
		opened = append(opened, path)
		return reader, nil
	}, &opened
}

func testRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// newTestCommand returns a bare command writing to buffers, for calling
// run functions directly.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd, out
}

// execute runs cmd with args and returns its stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
