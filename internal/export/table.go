package export

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// CycleSource delivers per-cycle capacity/voltage series.
type CycleSource interface {
	CycleNumbers() ([]int, error)
	CapacityVoltage(cycle int) ([]float64, []float64, error)
}

// CycleSeries is the capacity/voltage curve of one cycle.
type CycleSeries struct {
	Cycle    int
	Capacity []float64
	Voltage  []float64
}

// CapacityLabel is the header of the capacity column.
func (s CycleSeries) CapacityLabel() string {
	return fmt.Sprintf("cap cycle_no %d", s.Cycle)
}

// VoltageLabel is the header of the voltage column.
func (s CycleSeries) VoltageLabel() string {
	return fmt.Sprintf("voltage cycle_no %d", s.Cycle)
}

// Table holds the series of all exported cycles in enumeration order.
type Table struct {
	Series []CycleSeries
}

// Cycles returns the cycle numbers in the table.
func (t Table) Cycles() []int {
	cycles := make([]int, len(t.Series))
	for i, s := range t.Series {
		cycles[i] = s.Cycle
	}
	return cycles
}

// Columns returns each column as header followed by its values, two columns
// (capacity, voltage) per cycle.
func (t Table) Columns() [][]string {
	cols := make([][]string, 0, 2*len(t.Series))
	for _, s := range t.Series {
		cols = append(cols, labeled(s.CapacityLabel(), s.Capacity))
		cols = append(cols, labeled(s.VoltageLabel(), s.Voltage))
	}
	return cols
}

// Rows transposes Columns into rows, padding short columns with "".
func (t Table) Rows() [][]string {
	cols := t.Columns()
	height := 0
	for _, c := range cols {
		height = max(height, len(c))
	}

	rows := make([][]string, height)
	for i := range rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			if i < len(c) {
				row[j] = c[i]
			}
		}
		rows[i] = row
	}
	return rows
}

func labeled(label string, values []float64) []string {
	col := make([]string, 0, len(values)+1)
	col = append(col, label)
	for _, v := range values {
		col = append(col, formatFloat(v))
	}
	return col
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Collect reads every cycle from src. Cycles that fail, or whose capacity
// and voltage lengths differ, are skipped and returned separately. Only a
// failure to enumerate cycles (or ctx cancellation) is an error.
func Collect(ctx context.Context, src CycleSource, logger *slog.Logger) (Table, []int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cycles, err := src.CycleNumbers()
	if err != nil {
		return Table{}, nil, fmt.Errorf("failed to enumerate cycles: %w", err)
	}
	logger.Info("cycles found", "count", len(cycles))

	var table Table
	var skipped []int
	for _, cycle := range cycles {
		if err := ctx.Err(); err != nil {
			return Table{}, nil, err
		}

		capacity, voltage, err := src.CapacityVoltage(cycle)
		if err == nil && len(capacity) != len(voltage) {
			err = fmt.Errorf("capacity has %d points, voltage has %d", len(capacity), len(voltage))
		}
		if err != nil {
			logger.Warn("could not extract cycle", "cycle", cycle, "error", err)
			skipped = append(skipped, cycle)
			continue
		}

		table.Series = append(table.Series, CycleSeries{
			Cycle:    cycle,
			Capacity: capacity,
			Voltage:  voltage,
		})
	}

	return table, skipped, nil
}
