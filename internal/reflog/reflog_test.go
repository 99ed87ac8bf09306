package reflog

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLog(t *testing.T) *Log {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	require.NoError(t, err)

	log, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return log
}

func TestReflog(t *testing.T) {
	t.Run("AppendAssignsID", func(t *testing.T) {
		log := setupTestLog(t)

		e, err := log.Append("c1", "", "first")
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "c1", e.Commit)
		assert.Empty(t, e.Parent)
		assert.False(t, e.RecordedAt.IsZero())
	})

	t.Run("EntriesNewestFirst", func(t *testing.T) {
		log := setupTestLog(t)

		_, err := log.Append("c1", "", "first")
		require.NoError(t, err)
		_, err = log.Append("c2", "c1", "second")
		require.NoError(t, err)
		_, err = log.Append("c3", "c2", "third")
		require.NoError(t, err)

		entries, err := log.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "c3", entries[0].Commit)
		assert.Equal(t, "c2", entries[1].Commit)
		assert.Equal(t, "c1", entries[2].Commit)
		assert.Equal(t, "c2", entries[0].Parent)
	})

	t.Run("EmptyLog", func(t *testing.T) {
		log := setupTestLog(t)

		entries, err := log.Entries()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
