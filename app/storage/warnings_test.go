package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanth-attr/groupguard/app/storage/engine"
)

func newTestDB(t *testing.T) *engine.SQL {
	t.Helper()
	db, err := engine.NewSqlite(":memory:", "gr1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWarnings_Add(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		count, expiry, err := w.Add(ctx, 1, 100)
		require.NoError(t, err)
		assert.Equal(t, i, count, "no lost increments")
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry, time.Minute)
	}

	// another user starts fresh
	count, _, err := w.Add(ctx, 1, 101)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// same user in another chat starts fresh
	count, _, err = w.Add(ctx, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWarnings_AddAfterClear(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err := w.Add(ctx, 1, 100)
		require.NoError(t, err)
	}
	require.NoError(t, w.Clear(ctx, 1, 100))

	count, _, err := w.Add(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "count restarts after clear")
}

func TestWarnings_AddAfterExpiry(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)

	base := time.Now()
	w.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		_, _, err := w.Add(ctx, 1, 100)
		require.NoError(t, err)
	}

	// the ledger entry expired but was not swept yet
	w.now = func() time.Time { return base.Add(25 * time.Hour) }
	count, _, err := w.Add(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "expired record restarts from 1")
}

func TestWarnings_Count(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)

	count, err := w.Count(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no record means zero")

	base := time.Now()
	w.now = func() time.Time { return base }
	_, _, err = w.Add(ctx, 1, 100)
	require.NoError(t, err)

	count, err = w.Count(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	w.now = func() time.Time { return base.Add(25 * time.Hour) }
	count, err = w.Count(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "expired record reads as zero")
}

func TestWarnings_ClearMissing(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, w.Clear(ctx, 1, 999), "clearing a missing record is a no-op")
}

func TestWarnings_CleanExpired(t *testing.T) {
	ctx := context.Background()
	w, err := NewWarnings(ctx, newTestDB(t), 24*time.Hour)
	require.NoError(t, err)

	base := time.Now()
	w.now = func() time.Time { return base }

	_, _, err = w.Add(ctx, 1, 100)
	require.NoError(t, err)
	_, _, err = w.Add(ctx, 1, 101)
	require.NoError(t, err)

	// nothing expired yet
	removed, err := w.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	w.now = func() time.Time { return base.Add(25 * time.Hour) }
	_, _, err = w.Add(ctx, 1, 102) // fresh record, should survive the sweep
	require.NoError(t, err)

	removed, err = w.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// second run is idempotent
	removed, err = w.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	count, err := w.Count(ctx, 1, 102)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
