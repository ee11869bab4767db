package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/cellpy/internal/prms"
)

func testPrmsOptions(t *testing.T, format string) *PrmsOptions {
	t.Helper()
	return &PrmsOptions{
		RootOptions: testRootOptions(format),
		SearchOrder: prms.DefaultSearchOrder,
		SearchPaths: map[string]string{
			prms.LocationCurDir:  t.TempDir(),
			prms.LocationFileDir: t.TempDir(),
			prms.LocationUserDir: t.TempDir(),
		},
	}
}

func TestPrmsShow_Discovered(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	file := writeTestFile(t, opts.SearchPaths[prms.LocationUserDir], "_cellpy_prms_lab.ini",
		"[Paths]\ndb_path: /lab/db\n")

	out, err := execute(t, newPrmsShowCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "prm-file:    \t"+file)
	assert.Contains(t, out, "db_path:     \t/lab/db")
	assert.Contains(t, out, "db_filename: \tcellpy_db.xlsx")
}

func TestPrmsShow_JSON(t *testing.T) {
	opts := testPrmsOptions(t, "json")

	out, err := execute(t, newPrmsShowCommand(opts))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ParametersOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.Source)
	assert.Equal(t, "cellpy_dbc.xlsx", resp.Data.Parameters["dbc_filename"])
	assert.Len(t, resp.Data.Parameters, 7)
}

func TestPrmsShow_ExplicitFileMissing(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	opts.File = filepath.Join(t.TempDir(), "nope.ini")

	out, err := execute(t, newPrmsShowCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestPrmsShow_UnknownSearchLocation(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	opts.SearchOrder = []string{"curdir", "nowhere"}

	out, err := execute(t, newPrmsShowCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

// healthyLayout creates every configured directory and both workbooks and
// returns a parameter file pointing at them.
func healthyLayout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"out", "raw", "hdf5", "db", "log"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	for _, name := range []string{"cells.xlsx", "cells_c.xlsx"} {
		wb := excelize.NewFile()
		require.NoError(t, wb.SaveAs(filepath.Join(root, "db", name)))
		require.NoError(t, wb.Close())
	}
	return writeTestFile(t, root, "prms.ini", "[Paths]\n"+
		"outdatadir: "+filepath.Join(root, "out")+"\n"+
		"resdatadir: "+filepath.Join(root, "raw")+"\n"+
		"hdf5datadir: "+filepath.Join(root, "hdf5")+"\n"+
		"db_path: "+filepath.Join(root, "db")+"\n"+
		"filelogdir: "+filepath.Join(root, "log")+"\n"+
		"[FileNames]\n"+
		"db_filename: cells.xlsx\n"+
		"dbc_filename: cells_c.xlsx\n")
}

func TestPrmsCheck_AllOK(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	opts.File = healthyLayout(t)

	out, err := execute(t, newPrmsCheckCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "Search path:")
	assert.Contains(t, out, "curdir")
	assert.Contains(t, out, "(exists: true)")
	assert.Contains(t, out, "All ok")
	assert.NotContains(t, out, "Error!")
}

func TestPrmsCheck_Problems(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	opts.File = writeTestFile(t, t.TempDir(), "prms.ini", "[Paths]\ndb_path: /does/not/exist\n")

	out, err := execute(t, newPrmsCheckCommand(opts))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "Error! db_path not found (/does/not/exist)")
	assert.NotContains(t, out, "All ok")
}

func TestPrmsCheck_JSON(t *testing.T) {
	opts := testPrmsOptions(t, "json")
	opts.File = healthyLayout(t)

	out, err := execute(t, newPrmsCheckCommand(opts))
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.OK)
	assert.Empty(t, resp.Data.Problems)
	require.Len(t, resp.Data.Locations, 3)
	assert.Equal(t, prms.LocationCurDir, resp.Data.Locations[0].Name)
	assert.Equal(t, opts.File, resp.Data.Parameters.Source)
}

func TestPrmsInit(t *testing.T) {
	opts := testPrmsOptions(t, "text")
	writeTestFile(t, opts.SearchPaths[prms.LocationCurDir], "_cellpy_prms_lab.ini", "[Paths]\ndb_path: /lab/db\n")
	target := filepath.Join(t.TempDir(), "_cellpy_prms_new.ini")

	out, err := execute(t, newPrmsInitCommand(opts), target)
	require.NoError(t, err)
	assert.Equal(t, "✓ wrote "+target+"\n", out)

	ps, err := prms.NewResolver(nil).Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, "/lab/db", ps.DBPath)

	_, err = execute(t, newPrmsInitCommand(opts), target)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, newPrmsInitCommand(opts), "--force", target)
	require.NoError(t, err)
}
