// Package export turns a cycler result into CSV files.
//
// A run (Exporter.Run) asks the reader to load the file, normalize by mass,
// build its summary and step tables and write its own CSV export. It then
// collects the capacity/voltage series of every cycle and writes them side
// by side into {input}_cycles.csv:
//
//	cap cycle_no 1;voltage cycle_no 1;cap cycle_no 2;voltage cycle_no 2
//	0.1;3;0.1;3
//	0.2;3.1;;
//
// Short columns are padded with empty cells. A cycle the reader cannot
// deliver is skipped and logged; the remaining cycles are still written.
// A missing output directory aborts the run before anything is opened.
//
// Batches of runs are described in YAML (see LoadBatch).
package export
