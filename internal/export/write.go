package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// DefaultDelimiter separates cells in the cycles CSV.
const DefaultDelimiter = ';'

// SheetName is the worksheet used by WriteXLSX.
const SheetName = "cycles"

// ParseDelimiter accepts a single character, or "tab" / `\t`.
// An empty string yields DefaultDelimiter.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q must be a single character", ErrInvalidDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// validDelimiter mirrors the check csv.Writer applies to Comma.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' &&
		utf8.ValidRune(r) && r != utf8.RuneError
}

// WriteCSV writes t column-major to w. An empty table writes nothing.
func WriteCSV(w io.Writer, t Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("failed to write cycles: %w", err)
	}
	return nil
}

// writeCSVFile writes t to path. The file is closed on every path and removed
// if writing fails.
func writeCSVFile(path string, t Table, delimiter rune) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return WriteCSV(file, t, delimiter)
}

// WriteXLSX writes t to a workbook at path with the same layout as the CSV.
// Values stay numeric.
func WriteXLSX(path string, t Table) (err error) {
	wb := excelize.NewFile()
	defer func() {
		if closeErr := wb.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := wb.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	col := 1
	for _, s := range t.Series {
		for _, c := range []struct {
			label  string
			values []float64
		}{
			{s.CapacityLabel(), s.Capacity},
			{s.VoltageLabel(), s.Voltage},
		} {
			cells := make([]interface{}, 0, len(c.values)+1)
			cells = append(cells, c.label)
			for _, v := range c.values {
				cells = append(cells, v)
			}
			start, err := excelize.CoordinatesToCellName(col, 1)
			if err != nil {
				return err
			}
			if err := wb.SetSheetCol(SheetName, start, &cells); err != nil {
				return fmt.Errorf("failed to write column %q: %w", c.label, err)
			}
			col++
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
