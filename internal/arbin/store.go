package arbin

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Tables that must be present in a result database.
const (
	TableGlobal = "Global_Table"
	TableNormal = "Channel_Normal_Table"
)

var requiredTables = []string{TableGlobal, TableNormal}

// File is an opened result database.
// It is not safe for concurrent use.
type File struct {
	path   string
	db     *sql.DB
	logger *slog.Logger

	test    TestInfo
	records []Record
	loaded  bool

	mass    float64
	summary []SummaryRow
	steps   []StepRow
}

// Open opens the result database at path read-only and verifies its layout.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, path)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to result file: %w", err)
	}

	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute %q: %w", "PRAGMA query_only = ON", err)
	}

	if err := verifyTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &File{path: path, db: db, logger: slog.Default()}, nil
}

// SetLogger replaces the logger used for diagnostics.
func (f *File) SetLogger(logger *slog.Logger) {
	if logger != nil {
		f.logger = logger
	}
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Close closes the database connection.
func (f *File) Close() error {
	if f.db == nil {
		return nil
	}
	err := f.db.Close()
	f.db = nil
	return err
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is escaped so
// characters such as '#' and '?' stay part of the file name.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

func verifyTables(db *sql.DB) error {
	for _, table := range requiredTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: %s", ErrMissingTable, table)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect table %s: %w", table, err)
		}
	}
	return nil
}

// query wraps QueryContext so callers fail cleanly after Close.
func (f *File) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if f.db == nil {
		return nil, fmt.Errorf("result file %s is closed", f.path)
	}
	return f.db.QueryContext(ctx, query, args...)
}
