package arbin

import (
	"context"
	"fmt"
)

// TestInfo identifies the test that was loaded.
type TestInfo struct {
	ID      int64
	Name    string
	Channel int
}

// Record is one row of Channel_Normal_Table.
type Record struct {
	DataPoint         int64
	TestTime          float64
	StepTime          float64
	StepIndex         int
	CycleIndex        int
	Current           float64
	Voltage           float64
	ChargeCapacity    float64
	DischargeCapacity float64
	ChargeEnergy      float64
	DischargeEnergy   float64
}

const selectRecords = `
SELECT Data_Point,
       COALESCE(Test_Time, 0), COALESCE(Step_Time, 0),
       Step_Index, Cycle_Index,
       COALESCE(Current, 0), COALESCE(Voltage, 0),
       COALESCE(Charge_Capacity, 0), COALESCE(Discharge_Capacity, 0),
       COALESCE(Charge_Energy, 0), COALESCE(Discharge_Energy, 0)
FROM Channel_Normal_Table
WHERE Test_ID = ?
ORDER BY Data_Point ASC`

// Load reads the first test (lowest Test_ID) and all of its data points.
// Derived tables from a previous Load are discarded.
func (f *File) Load(ctx context.Context) error {
	test, tests, err := f.firstTest(ctx)
	if err != nil {
		return err
	}
	if tests > 1 {
		f.logger.Warn("result file holds several tests, loading the first",
			"file", f.path,
			"tests", tests,
			"test_id", test.ID,
		)
	}

	rows, err := f.query(ctx, selectRecords, test.ID)
	if err != nil {
		return fmt.Errorf("failed to query data points: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.DataPoint, &r.TestTime, &r.StepTime,
			&r.StepIndex, &r.CycleIndex,
			&r.Current, &r.Voltage,
			&r.ChargeCapacity, &r.DischargeCapacity,
			&r.ChargeEnergy, &r.DischargeEnergy,
		); err != nil {
			return fmt.Errorf("failed to scan data point: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate data points: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: test %d has no data points", ErrNoData, test.ID)
	}

	f.test = test
	f.records = records
	f.loaded = true
	f.summary = nil
	f.steps = nil

	f.logger.Info("result file loaded",
		"file", f.path,
		"test", test.Name,
		"data_points", len(records),
	)
	return nil
}

func (f *File) firstTest(ctx context.Context) (TestInfo, int, error) {
	rows, err := f.query(ctx,
		"SELECT Test_ID, COALESCE(Test_Name, ''), COALESCE(Channel_Index, 0) FROM Global_Table ORDER BY Test_ID ASC")
	if err != nil {
		return TestInfo{}, 0, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	var first TestInfo
	count := 0
	for rows.Next() {
		var t TestInfo
		if err := rows.Scan(&t.ID, &t.Name, &t.Channel); err != nil {
			return TestInfo{}, 0, fmt.Errorf("failed to scan test: %w", err)
		}
		if count == 0 {
			first = t
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return TestInfo{}, 0, fmt.Errorf("failed to iterate tests: %w", err)
	}
	if count == 0 {
		return TestInfo{}, 0, fmt.Errorf("%w: %s is empty", ErrNoData, TableGlobal)
	}
	return first, count, nil
}

// Test returns the loaded test.
func (f *File) Test() TestInfo {
	return f.test
}

// Records returns the loaded data points ordered by data point.
func (f *File) Records() []Record {
	return f.records
}
