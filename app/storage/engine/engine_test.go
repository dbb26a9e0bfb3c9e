package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("empty connection", func(t *testing.T) {
		_, err := New(context.Background(), "", "gr1")
		assert.Error(t, err)
	})

	t.Run("sqlite in-memory", func(t *testing.T) {
		db, err := New(context.Background(), ":memory:", "gr1")
		require.NoError(t, err)
		defer db.Close()
		assert.Equal(t, Sqlite, db.Type())
		assert.Equal(t, "gr1", db.GID())
	})
}

func TestSQL_Adopt(t *testing.T) {
	sqliteDB := &SQL{dbType: Sqlite}
	assert.Equal(t, "SELECT * FROM t WHERE a=? AND b=?", sqliteDB.Adopt("SELECT * FROM t WHERE a=? AND b=?"))

	pgDB := &SQL{dbType: Postgres}
	assert.Equal(t, "SELECT * FROM t WHERE a=$1 AND b=$2", pgDB.Adopt("SELECT * FROM t WHERE a=? AND b=?"))
}

func TestSQL_MakeLock(t *testing.T) {
	sqliteDB := &SQL{dbType: Sqlite}
	_, ok := sqliteDB.MakeLock().(*sync.RWMutex)
	assert.True(t, ok, "sqlite gets a real mutex")

	pgDB := &SQL{dbType: Postgres}
	_, ok = pgDB.MakeLock().(*NoopLocker)
	assert.True(t, ok, "postgres gets a no-op locker")
}

func TestQuery_For(t *testing.T) {
	q := Query{Sqlite: "sqlite variant", Postgres: "postgres variant"}

	s, err := q.For(Sqlite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite variant", s)

	s, err = q.For(Postgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres variant", s)

	_, err = q.For(Unknown)
	assert.Error(t, err)

	same := Same("shared")
	s, err = same.For(Sqlite)
	require.NoError(t, err)
	assert.Equal(t, "shared", s)
}
