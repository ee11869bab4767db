// Package arbin reads cycler results from the SQLite rendition of an Arbin
// result file and derives the tables used by the exporters.
//
// The database keeps the cycler's own layout:
//   - Global_Table: one row per test (Test_ID, Test_Name, Channel_Index)
//   - Channel_Normal_Table: one row per data point (Test_ID, Data_Point,
//     Test_Time, Step_Time, Step_Index, Cycle_Index, Current, Voltage,
//     Charge_Capacity, Discharge_Capacity, Charge_Energy, Discharge_Energy)
//
// Converting the vendor .res file to SQLite happens outside this package.
// Files are opened read-only.
//
// Units follow the cycler: A, V, Ah, Wh, s. Mass is given in mg and specific
// capacities are reported in mAh/g.
package arbin
