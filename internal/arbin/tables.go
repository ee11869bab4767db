package arbin

import (
	"fmt"
	"math"
	"sort"
)

// currentTolerance is the current (A) below which a step counts as rest.
const currentTolerance = 1e-6

// Step types.
const (
	StepCharge    = "charge"
	StepDischarge = "discharge"
	StepRest      = "rest"
)

// SummaryRow aggregates one cycle.
type SummaryRow struct {
	Cycle     int
	DataPoint int64 // last data point of the cycle
	TestTime  float64

	// Capacities are the largest values the cycler reported within the cycle (Ah).
	ChargeCapacity    float64
	DischargeCapacity float64

	// Specific capacities in mAh/g.
	SpecificChargeCapacity    float64
	SpecificDischargeCapacity float64

	// CoulombicEfficiency is discharge/charge in percent, 0 without charge.
	CoulombicEfficiency float64
}

// StepRow describes one contiguous (cycle, step) run.
type StepRow struct {
	Cycle          int
	Step           int
	Type           string
	PointFirst     int64
	PointLast      int64
	VoltageFirst   float64
	VoltageLast    float64
	VoltageMin     float64
	VoltageMax     float64
	CurrentMean    float64
	ChargeDelta    float64
	DischargeDelta float64
}

// SetMass sets the active material mass in mg.
func (f *File) SetMass(mass float64) {
	f.mass = mass
}

// Mass returns the active material mass in mg.
func (f *File) Mass() float64 {
	return f.mass
}

// specific converts Ah to mAh/g for the current mass.
func (f *File) specific(ah float64) float64 {
	return ah * 1e6 / f.mass
}

// MakeSummary computes the per-cycle summary. Requires Load and a positive mass.
func (f *File) MakeSummary() error {
	if !f.loaded {
		return ErrNotLoaded
	}
	if f.mass <= 0 {
		return fmt.Errorf("%w: mass %g mg", ErrMassNotSet, f.mass)
	}

	var summary []SummaryRow
	index := make(map[int]int)
	for _, r := range f.records {
		i, ok := index[r.CycleIndex]
		if !ok {
			i = len(summary)
			index[r.CycleIndex] = i
			summary = append(summary, SummaryRow{Cycle: r.CycleIndex})
		}
		row := &summary[i]
		row.DataPoint = r.DataPoint
		row.TestTime = r.TestTime
		row.ChargeCapacity = math.Max(row.ChargeCapacity, r.ChargeCapacity)
		row.DischargeCapacity = math.Max(row.DischargeCapacity, r.DischargeCapacity)
	}

	for i := range summary {
		row := &summary[i]
		row.SpecificChargeCapacity = f.specific(row.ChargeCapacity)
		row.SpecificDischargeCapacity = f.specific(row.DischargeCapacity)
		if row.ChargeCapacity > 0 {
			row.CoulombicEfficiency = 100 * row.DischargeCapacity / row.ChargeCapacity
		}
	}

	f.summary = summary
	f.logger.Debug("summary created", "cycles", len(summary))
	return nil
}

// Summary returns the table built by MakeSummary.
func (f *File) Summary() []SummaryRow {
	return f.summary
}

// CreateStepTable splits the data into contiguous (cycle, step) runs.
func (f *File) CreateStepTable() error {
	if !f.loaded {
		return ErrNotLoaded
	}

	var steps []StepRow
	var first Record
	var currentSum float64
	n := 0

	flush := func(last Record) {
		mean := currentSum / float64(n)
		row := &steps[len(steps)-1]
		row.PointLast = last.DataPoint
		row.VoltageLast = last.Voltage
		row.CurrentMean = mean
		row.Type = stepType(mean)
		row.ChargeDelta = last.ChargeCapacity - first.ChargeCapacity
		row.DischargeDelta = last.DischargeCapacity - first.DischargeCapacity
	}

	for i, r := range f.records {
		if n == 0 || r.CycleIndex != first.CycleIndex || r.StepIndex != first.StepIndex {
			if n > 0 {
				flush(f.records[i-1])
			}
			first = r
			currentSum = 0
			n = 0
			steps = append(steps, StepRow{
				Cycle:        r.CycleIndex,
				Step:         r.StepIndex,
				PointFirst:   r.DataPoint,
				VoltageFirst: r.Voltage,
				VoltageMin:   r.Voltage,
				VoltageMax:   r.Voltage,
			})
		}
		row := &steps[len(steps)-1]
		row.VoltageMin = math.Min(row.VoltageMin, r.Voltage)
		row.VoltageMax = math.Max(row.VoltageMax, r.Voltage)
		currentSum += r.Current
		n++
	}
	if n > 0 {
		flush(f.records[len(f.records)-1])
	}

	f.steps = steps
	f.logger.Debug("step table created", "steps", len(steps))
	return nil
}

// Steps returns the table built by CreateStepTable.
func (f *File) Steps() []StepRow {
	return f.steps
}

func stepType(current float64) string {
	switch {
	case current > currentTolerance:
		return StepCharge
	case current < -currentTolerance:
		return StepDischarge
	default:
		return StepRest
	}
}

// CycleNumbers returns the distinct cycle indexes in ascending order.
func (f *File) CycleNumbers() ([]int, error) {
	if !f.loaded {
		return nil, ErrNotLoaded
	}

	seen := make(map[int]bool)
	var cycles []int
	for _, r := range f.records {
		if !seen[r.CycleIndex] {
			seen[r.CycleIndex] = true
			cycles = append(cycles, r.CycleIndex)
		}
	}
	sort.Ints(cycles)
	return cycles, nil
}

// CapacityVoltage returns the discharge curve followed by the charge curve of
// a cycle. Capacity is in mAh/g when a mass is set and in Ah otherwise.
func (f *File) CapacityVoltage(cycle int) ([]float64, []float64, error) {
	if !f.loaded {
		return nil, nil, ErrNotLoaded
	}

	var dCap, dVolt, cCap, cVolt []float64
	found := false
	for _, r := range f.records {
		if r.CycleIndex != cycle {
			continue
		}
		found = true
		switch {
		case r.Current < -currentTolerance:
			dCap = append(dCap, f.capacity(r.DischargeCapacity))
			dVolt = append(dVolt, r.Voltage)
		case r.Current > currentTolerance:
			cCap = append(cCap, f.capacity(r.ChargeCapacity))
			cVolt = append(cVolt, r.Voltage)
		}
	}
	if !found {
		return nil, nil, fmt.Errorf("%w: %d", ErrCycleNotFound, cycle)
	}
	if len(dCap) == 0 && len(cCap) == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrEmptyCycle, cycle)
	}

	return append(dCap, cCap...), append(dVolt, cVolt...), nil
}

func (f *File) capacity(ah float64) float64 {
	if f.mass > 0 {
		return f.specific(ah)
	}
	return ah
}
