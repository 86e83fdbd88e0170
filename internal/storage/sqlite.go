package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteMirror keeps a copy of the last saved collection in a local sqlite database.
type SQLiteMirror struct {
	db   *sql.DB
	path string
}

func NewSQLiteMirror(ctx context.Context, path string) (*SQLiteMirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS lab_works (
		position INTEGER PRIMARY KEY,
		id       INTEGER NOT NULL UNIQUE,
		line     TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create lab_works table: %w", err)
	}
	return &SQLiteMirror{db: db, path: path}, nil
}

func (m *SQLiteMirror) Name() string { return "sqlite" }

func (m *SQLiteMirror) Path() string { return m.path }

func (m *SQLiteMirror) Save(ctx context.Context, works []LabWork) (retErr error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lab_works`); err != nil {
		return fmt.Errorf("clear lab_works: %w", err)
	}
	for i, w := range works {
		line, err := EncodeLine(w)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO lab_works(position, id, line) VALUES(?, ?, ?)`, i, w.ID, line); err != nil {
			return fmt.Errorf("insert lab work %d: %w", w.ID, err)
		}
	}
	return tx.Commit()
}

// Snapshot reads the mirrored collection back in saved order, so a save can be
// verified against the database file.
func (m *SQLiteMirror) Snapshot(ctx context.Context) ([]LabWork, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT line FROM lab_works ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select lab works: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return decodeLines(lines)
}

func (m *SQLiteMirror) Close() error {
	return m.db.Close()
}

func decodeLines(lines []string) ([]LabWork, error) {
	works := make([]LabWork, 0, len(lines))
	for i, line := range lines {
		w, err := DecodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("mirrored row %d: %w", i, err)
		}
		works = append(works, w)
	}
	return works, nil
}
