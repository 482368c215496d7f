package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost:5432/handi?sslmode=disable"))
	assert.True(t, isPostgres("postgresql://localhost/handi"))
	assert.True(t, isPostgres("host=localhost user=postgres dbname=handi"))
	assert.False(t, isPostgres("handi_point.db"))
	assert.False(t, isPostgres(":memory:"))
}

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}
