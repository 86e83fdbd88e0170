package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresMirror(t *testing.T) {
	dsn := os.Getenv("LABWORKS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("LABWORKS_TEST_PG_DSN not set")
	}
	ctx := context.Background()

	pool, err := NewStorage(ctx, dsn)
	require.NoError(t, err)
	m, err := NewPostgresMirror(ctx, pool)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Save(ctx, []LabWork{labWork(1, 1, 1, DifficultyNone), labWork(2, 2, 2, DifficultyNormal)}))
	require.NoError(t, m.Save(ctx, []LabWork{labWork(9, 3, 3, DifficultyHopeless)}))

	got, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids(got))
}

func TestNewStorageRejectsBadDSN(t *testing.T) {
	_, err := NewStorage(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
