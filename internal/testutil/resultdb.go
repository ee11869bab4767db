package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// ResultSchema is the layout of a cycler result database.
const ResultSchema = `
CREATE TABLE Global_Table (
	Test_ID INTEGER PRIMARY KEY,
	Test_Name TEXT,
	Channel_Index INTEGER
);
CREATE TABLE Channel_Normal_Table (
	Test_ID INTEGER NOT NULL,
	Data_Point INTEGER NOT NULL,
	Test_Time REAL,
	Step_Time REAL,
	Step_Index INTEGER,
	Cycle_Index INTEGER,
	Current REAL,
	Voltage REAL,
	Charge_Capacity REAL,
	Discharge_Capacity REAL,
	Charge_Energy REAL,
	Discharge_Energy REAL
);`

// ResultTest is one Global_Table row.
type ResultTest struct {
	ID      int64
	Name    string
	Channel int
}

// ResultRow is one Channel_Normal_Table row.
type ResultRow struct {
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

// CreateResultDB writes a result database at path. Every row is attached to
// the first test.
func CreateResultDB(t testing.TB, path string, tests []ResultTest, rows []ResultRow) {
	t.Helper()
	require.True(t, len(rows) == 0 || len(tests) > 0, "rows need a test to belong to")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ResultSchema)
	require.NoError(t, err)

	for _, tst := range tests {
		_, err = db.Exec("INSERT INTO Global_Table (Test_ID, Test_Name, Channel_Index) VALUES (?, ?, ?)",
			tst.ID, tst.Name, tst.Channel)
		require.NoError(t, err)
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO Channel_Normal_Table
			(Test_ID, Data_Point, Test_Time, Step_Time, Step_Index, Cycle_Index, Current, Voltage,
			 Charge_Capacity, Discharge_Capacity, Charge_Energy, Discharge_Energy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tests[0].ID, r.DataPoint, r.TestTime, r.StepTime, r.StepIndex, r.CycleIndex,
			r.Current, r.Voltage, r.ChargeCapacity, r.DischargeCapacity, r.ChargeEnergy, r.DischargeEnergy)
		require.NoError(t, err)
	}
}
