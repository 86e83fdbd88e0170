package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMirror keeps a copy of the last saved collection in the lab_works table.
type PostgresMirror struct {
	pool *pgxpool.Pool
}

func NewPostgresMirror(ctx context.Context, pool *pgxpool.Pool) (*PostgresMirror, error) {
	const query = `
	CREATE TABLE IF NOT EXISTS lab_works (
		position INTEGER PRIMARY KEY,
		id       BIGINT NOT NULL UNIQUE,
		line     TEXT NOT NULL
	);`

	if _, err := pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create lab_works: %w", err)
	}
	return &PostgresMirror{pool: pool}, nil
}

func (m *PostgresMirror) Name() string { return "postgres" }

func (m *PostgresMirror) Save(ctx context.Context, works []LabWork) error {
	const insert = `INSERT INTO lab_works (position, id, line) VALUES ($1, $2, $3);`

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM lab_works;`)
	for i, w := range works {
		line, err := EncodeLine(w)
		if err != nil {
			return err
		}
		batch.Queue(insert, i, w.ID, line)
	}

	err := pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("mirror lab works: %w", err)
	}
	return nil
}

// Snapshot reads the mirrored collection back in saved order, so a save can be
// verified against the table.
func (m *PostgresMirror) Snapshot(ctx context.Context) ([]LabWork, error) {
	const query = `SELECT line FROM lab_works ORDER BY position;`

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select lab works: %w", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan lab works: %w", err)
	}
	return decodeLines(lines)
}

func (m *PostgresMirror) Close() error {
	m.pool.Close()
	return nil
}
