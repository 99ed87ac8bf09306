package object

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitto/internal/vcserrors"
)

func newTestStore(t *testing.T) *Store {
	store, err := NewStore(t.TempDir(), 16)
	require.NoError(t, err)
	return store
}

func TestHashContent(t *testing.T) {
	d1 := HashContent([]byte("hello"))
	d2 := HashContent([]byte("hello"))
	d3 := HashContent([]byte("hello world"))

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	assert.Len(t, d1, 40)
}

func TestStore(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		store := newTestStore(t)

		digest, err := store.Put([]byte("hello\nworld\n"))
		require.NoError(t, err)
		assert.Equal(t, HashContent([]byte("hello\nworld\n")), digest)

		content, err := store.Get(digest)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello\nworld\n"), content)
	})

	t.Run("PutIsIdempotent", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewStore(root, 16)
		require.NoError(t, err)

		d1, err := store.Put([]byte("same content"))
		require.NoError(t, err)
		d2, err := store.Put([]byte("same content"))
		require.NoError(t, err)
		assert.Equal(t, d1, d2)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("GetMissing", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Get("0000000000000000000000000000000000000000")
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindNotFound))
	})

	t.Run("Exists", func(t *testing.T) {
		store := newTestStore(t)

		digest, err := store.Put([]byte("here"))
		require.NoError(t, err)

		assert.True(t, store.Exists(digest))
		assert.False(t, store.Exists(HashContent([]byte("not here"))))
		assert.False(t, store.Exists(""))
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewStore(root, 16)
		require.NoError(t, err)

		digest, err := store.Put([]byte("persisted"))
		require.NoError(t, err)

		reopened, err := NewStore(root, 16)
		require.NoError(t, err)
		content, err := reopened.Get(digest)
		require.NoError(t, err)
		assert.Equal(t, []byte("persisted"), content)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		store := newTestStore(t)

		digest, err := store.Put(nil)
		require.NoError(t, err)
		content, err := store.Get(digest)
		require.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("ObjectNamedByDigest", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewStore(root, 16)
		require.NoError(t, err)

		digest, err := store.Put([]byte("on disk"))
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(root, digest))
		require.NoError(t, err)
		assert.Equal(t, []byte("on disk"), raw)
	})
}
