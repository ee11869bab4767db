package prms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Problem is one failed health check item.
type Problem struct {
	Option string `json:"option"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (p Problem) String() string {
	return fmt.Sprintf("Error! %s %s (%s)", p.Option, p.Reason, p.Path)
}

// Report is the outcome of Check.
type Report struct {
	Problems []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// Check verifies that every configured directory exists and that both
// database files exist under DBPath. Spreadsheet databases must also open as
// a workbook.
func Check(ps ParameterSet) Report {
	var report Report

	dirs := []struct{ option, path string }{
		{"db_path", ps.DBPath},
		{"outdatadir", ps.OutDataDir},
		{"resdatadir", ps.ResDataDir},
		{"hdf5datadir", ps.HDF5DataDir},
		{"filelogdir", ps.FileLogDir},
	}
	for _, d := range dirs {
		if !isDir(d.path) {
			report.Problems = append(report.Problems, Problem{Option: d.option, Path: d.path, Reason: "not found"})
		}
	}

	files := []struct{ option, path string }{
		{"db_filename", ps.DBFile()},
		{"dbc_filename", ps.DBCFile()},
	}
	for _, f := range files {
		if p, bad := checkDBFile(f.option, f.path); bad {
			report.Problems = append(report.Problems, p)
		}
	}

	return report
}

func checkDBFile(option, path string) (Problem, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Problem{Option: option, Path: path, Reason: "not found"}, true
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		wb, err := excelize.OpenFile(path)
		if err != nil {
			return Problem{Option: option, Path: path, Reason: "is not a readable workbook"}, true
		}
		_ = wb.Close()
	}

	return Problem{}, false
}
