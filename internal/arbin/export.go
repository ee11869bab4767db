package arbin

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Separator used by ExportCSV.
const Separator = ';'

var (
	normalHeader = []string{
		"Data_Point", "Test_Time", "Step_Time", "Step_Index", "Cycle_Index",
		"Current", "Voltage", "Charge_Capacity", "Discharge_Capacity",
		"Charge_Energy", "Discharge_Energy",
	}
	summaryHeader = []string{
		"Cycle_Index", "Data_Point", "Test_Time",
		"Charge_Capacity", "Discharge_Capacity",
		"Charge_Capacity(mAh/g)", "Discharge_Capacity(mAh/g)",
		"Coulombic_Efficiency(percentage)",
	}
	stepsHeader = []string{
		"cycle", "step", "type", "point_first", "point_last",
		"voltage_first", "voltage_last", "voltage_min", "voltage_max",
		"current_avr", "charge_delta", "discharge_delta",
	}
)

// ExportCSV writes the raw data and, when computed, the summary and step
// tables into dir as {base}_normal.csv, {base}_summary.csv and
// {base}_steps.csv. It returns the written paths.
func (f *File) ExportCSV(dir string) ([]string, error) {
	if !f.loaded {
		return nil, ErrNotLoaded
	}

	base := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
	var written []string

	normal := make([][]string, 0, len(f.records))
	for _, r := range f.records {
		normal = append(normal, []string{
			strconv.FormatInt(r.DataPoint, 10),
			FormatFloat(r.TestTime), FormatFloat(r.StepTime),
			strconv.Itoa(r.StepIndex), strconv.Itoa(r.CycleIndex),
			FormatFloat(r.Current), FormatFloat(r.Voltage),
			FormatFloat(r.ChargeCapacity), FormatFloat(r.DischargeCapacity),
			FormatFloat(r.ChargeEnergy), FormatFloat(r.DischargeEnergy),
		})
	}
	path := filepath.Join(dir, base+"_normal.csv")
	if err := writeTable(path, normalHeader, normal); err != nil {
		return written, err
	}
	written = append(written, path)

	if f.summary != nil {
		rows := make([][]string, 0, len(f.summary))
		for _, s := range f.summary {
			rows = append(rows, []string{
				strconv.Itoa(s.Cycle), strconv.FormatInt(s.DataPoint, 10), FormatFloat(s.TestTime),
				FormatFloat(s.ChargeCapacity), FormatFloat(s.DischargeCapacity),
				FormatFloat(s.SpecificChargeCapacity), FormatFloat(s.SpecificDischargeCapacity),
				FormatFloat(s.CoulombicEfficiency),
			})
		}
		path := filepath.Join(dir, base+"_summary.csv")
		if err := writeTable(path, summaryHeader, rows); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if f.steps != nil {
		rows := make([][]string, 0, len(f.steps))
		for _, s := range f.steps {
			rows = append(rows, []string{
				strconv.Itoa(s.Cycle), strconv.Itoa(s.Step), s.Type,
				strconv.FormatInt(s.PointFirst, 10), strconv.FormatInt(s.PointLast, 10),
				FormatFloat(s.VoltageFirst), FormatFloat(s.VoltageLast),
				FormatFloat(s.VoltageMin), FormatFloat(s.VoltageMax),
				FormatFloat(s.CurrentMean),
				FormatFloat(s.ChargeDelta), FormatFloat(s.DischargeDelta),
			})
		}
		path := filepath.Join(dir, base+"_steps.csv")
		if err := writeTable(path, stepsHeader, rows); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	f.logger.Info("raw data exported", "dir", dir, "files", len(written))
	return written, nil
}

// FormatFloat renders v in its shortest decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeTable(path string, header []string, rows [][]string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(file)
	w.Comma = Separator
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
