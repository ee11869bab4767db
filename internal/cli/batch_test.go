package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpy/internal/testutil"
)

func TestBatch_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "processed"), 0o755))
	path := writeTestFile(t, dir, "jobs.yaml", `
jobs:
  - input: raw/cell_01.res
    mass: 0.982
    outdir: processed
  - input: raw/cell_02.res
    mass: 1.1
    outdir: missing
`)

	open, opened := stubOpener(&stubReader{})
	opts := &BatchOptions{RootOptions: testRootOptions("text"), Open: open}
	cmd, out := newTestCommand()

	err := runBatch(opts, path, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.Equal(t, []string{filepath.Join(dir, "raw", "cell_01.res")}, *opened)

	assert.Contains(t, out.String(), "✓ "+filepath.Join(dir, "raw", "cell_01.res"))
	assert.Contains(t, out.String(), "✗ "+filepath.Join(dir, "raw", "cell_02.res"))
	assert.Contains(t, out.String(), "1 of 2 jobs succeeded")

	data, err := os.ReadFile(filepath.Join(dir, "processed", "cell_01.res_cycles.csv"))
	require.NoError(t, err)
	assert.Equal(t, stubCycles, string(data))
}

func TestBatch_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "jobs.yaml", `
delimiter: ","
jobs:
  - input: a.res
    mass: 1
    outdir: .
  - input: b.res
    mass: 2
    outdir: .
`)

	open, _ := stubOpener(&stubReader{})
	opts := &BatchOptions{
		RootOptions: testRootOptions("json"),
		Open:        open,
		NewRunID:    testutil.NewRunIDs("batch").Next,
	}
	cmd, out := newTestCommand()
	require.NoError(t, runBatch(opts, path, cmd))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Results []struct {
				RunID      string `json:"run_id"`
				CyclesFile string `json:"cycles_file"`
			} `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "batch-0001", resp.Data.Results[0].RunID)
	assert.Equal(t, "batch-0002", resp.Data.Results[1].RunID)
	assert.Equal(t, filepath.Join(dir, "a.res_cycles.csv"), resp.Data.Results[0].CyclesFile)

	data, err := os.ReadFile(filepath.Join(dir, "b.res_cycles.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "cap cycle_no 1,voltage cycle_no 1")
}

func TestBatch_InvalidFile(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "jobs.yaml", "jobs: []\n")

	opts := &BatchOptions{RootOptions: testRootOptions("text")}
	cmd, out := newTestCommand()

	err := runBatch(opts, path, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "Error [E002]")
}

func TestBatch_RequiresOneArg(t *testing.T) {
	_, err := execute(t, NewBatchCommand(testRootOptions("text")))
	require.Error(t, err)
}
