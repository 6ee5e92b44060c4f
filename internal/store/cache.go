// Package store provides a SQLite-backed cache for parsed workbook sheets.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/kepatuhan/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed caching of parsed sheets. Only the raw table
// is stored; compliance results are always recomputed.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size of a cached sheet's file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Key identifies a cached sheet by file and the sheet name that was
// requested for it. An empty Sheet means "the first sheet".
type Key struct {
	Path  string
	Sheet string
}

// GetTrackedSheets returns the file info recorded for every cached sheet.
func (c *Cache) GetTrackedSheets() (map[Key]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, sheet_key, file_mtime_ns, file_size FROM sheets")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[Key]FileInfo)
	for rows.Next() {
		var k Key
		var fi FileInfo
		if err := rows.Scan(&k.Path, &k.Sheet, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[k] = fi
	}
	return result, rows.Err()
}

// SaveTable replaces the cached copy of the sheet identified by k.
func (c *Cache) SaveTable(k Key, t *source.Table, mtimeNs, sizeBytes int64) error {
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("encoding columns: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM sheet_rows WHERE file_path = ? AND sheet_key = ?", k.Path, k.Sheet); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO sheets
		(file_path, sheet_key, sheet_name, columns_json, row_count, file_mtime_ns, file_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		k.Path, k.Sheet, t.Sheet, string(cols), len(t.Rows), mtimeNs, sizeBytes, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO sheet_rows (file_path, sheet_key, row_idx, cells_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		if _, err := stmt.Exec(k.Path, k.Sheet, i, string(cells)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadTable reads a cached sheet. found is false when the sheet is not cached.
func (c *Cache) LoadTable(k Key) (t *source.Table, found bool, err error) {
	var sheetName, colsJSON string
	err = c.db.QueryRow("SELECT sheet_name, columns_json FROM sheets WHERE file_path = ? AND sheet_key = ?",
		k.Path, k.Sheet).Scan(&sheetName, &colsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	t = &source.Table{Source: k.Path, Sheet: sheetName}
	if err := json.Unmarshal([]byte(colsJSON), &t.Columns); err != nil {
		return nil, false, fmt.Errorf("decoding columns: %w", err)
	}

	rows, err := c.db.Query(`SELECT cells_json FROM sheet_rows
		WHERE file_path = ? AND sheet_key = ? ORDER BY row_idx`, k.Path, k.Sheet)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, false, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, false, fmt.Errorf("decoding row: %w", err)
		}
		t.Rows = append(t.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// DeleteFile removes every cached sheet of a file.
func (c *Cache) DeleteFile(path string) error {
	_, err := c.db.Exec("DELETE FROM sheets WHERE file_path = ?", path)
	return err
}

// SheetCount returns the number of cached sheets.
func (c *Cache) SheetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM sheets").Scan(&count)
	return count, err
}
