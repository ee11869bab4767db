package arbin

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cellpy/internal/testutil"
)

// fixtureRecords: cycle 1 rest/discharge/charge, cycle 2 discharge only,
// cycle 3 rest only.
var fixtureRecords = []Record{
	{DataPoint: 1, TestTime: 0, StepIndex: 1, CycleIndex: 1, Current: 0, Voltage: 3.0},
	{DataPoint: 2, TestTime: 10, StepIndex: 2, CycleIndex: 1, Current: -0.001, Voltage: 2.5, DischargeCapacity: 0.0005},
	{DataPoint: 3, TestTime: 20, StepIndex: 2, CycleIndex: 1, Current: -0.001, Voltage: 2.0, DischargeCapacity: 0.001},
	{DataPoint: 4, TestTime: 30, StepIndex: 3, CycleIndex: 1, Current: 0.001, Voltage: 3.5, ChargeCapacity: 0.0004},
	{DataPoint: 5, TestTime: 40, StepIndex: 3, CycleIndex: 1, Current: 0.001, Voltage: 4.0, ChargeCapacity: 0.0009},
	{DataPoint: 6, TestTime: 50, StepIndex: 4, CycleIndex: 2, Current: -0.001, Voltage: 2.4, DischargeCapacity: 0.0008},
	{DataPoint: 7, TestTime: 60, StepIndex: 5, CycleIndex: 3, Current: 0, Voltage: 3.1},
}

// createResultDB writes cell_01.res.sqlite with the given tests; every
// record is attached to the first test.
func createResultDB(t *testing.T, tests []TestInfo, records []Record) string {
	t.Helper()
	return createResultDBAt(t, filepath.Join(t.TempDir(), "cell_01.res.sqlite"), tests, records)
}

func createResultDBAt(t *testing.T, path string, tests []TestInfo, records []Record) string {
	t.Helper()

	resultTests := make([]testutil.ResultTest, 0, len(tests))
	for _, tst := range tests {
		resultTests = append(resultTests, testutil.ResultTest{ID: tst.ID, Name: tst.Name, Channel: tst.Channel})
	}
	rows := make([]testutil.ResultRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, testutil.ResultRow(r))
	}

	testutil.CreateResultDB(t, path, resultTests, rows)
	return path
}

// openFixture opens and loads the standard fixture.
func openFixture(t *testing.T) *File {
	t.Helper()
	path := createResultDB(t, []TestInfo{{ID: 1, Name: "cell_01", Channel: 3}}, fixtureRecords)
	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	f.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}
