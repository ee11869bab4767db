// Package prms resolves the cellpy parameter set: where raw data, exported
// data and the cell databases live.
//
// Parameters are layered:
//
//  1. Built-in defaults (see Defaults).
//  2. One parameter file, either given explicitly or discovered by globbing
//     _cellpy_prms*.ini in the search locations curdir, filedir and userdir.
//  3. CELLPY_* environment variables (e.g. CELLPY_DB_PATH).
//
// # Discovery
//
// Locations are scanned in search order. Files named _cellpy_prms_default.ini
// are only used when nothing else matches. Among the other matches the last one
// found wins, so later locations override earlier ones.
//
// # Failure semantics
//
// A discovered file that is missing options or cannot be parsed never fails
// resolution: missing values keep their defaults and a warning is logged. An
// explicitly requested file that does not exist or cannot be parsed is an error
// (ErrConfigNotFound, ErrConfigInvalid).
//
// The file format is INI:
//
//	[Paths]
//	outdatadir: ../outdata
//	resdatadir: ../indata
//	hdf5datadir: ../indata
//	db_path: ../databases
//	filelogdir: ../databases
//
//	[FileNames]
//	db_filename: cellpy_db.xlsx
//	dbc_filename: cellpy_dbc.xlsx
package prms
