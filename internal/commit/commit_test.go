package commit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitto/internal/object"
	"gitto/internal/vcserrors"
)

func newTestGraph(t *testing.T) (*Graph, *object.Store) {
	dir := t.TempDir()
	objects, err := object.NewStore(filepath.Join(dir, "objects"), 16)
	require.NoError(t, err)

	headPath := filepath.Join(dir, "HEAD")
	require.NoError(t, os.WriteFile(headPath, []byte{}, 0644))

	return NewGraph(objects, headPath, zap.NewNop()), objects
}

func TestGraphCreate(t *testing.T) {
	t.Run("EmptySnapshotFails", func(t *testing.T) {
		g, _ := newTestGraph(t)

		_, err := g.Create("empty", nil, "")
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindNothingToCommit))

		head, err := g.Head()
		require.NoError(t, err)
		assert.Empty(t, head)
	})

	t.Run("AdvancesHead", func(t *testing.T) {
		g, _ := newTestGraph(t)

		c, err := g.Create("first", map[string]string{"a.txt": "d1"}, "")
		require.NoError(t, err)
		require.NotEmpty(t, c.Digest)
		assert.Nil(t, c.Parent)

		head, err := g.Head()
		require.NoError(t, err)
		assert.Equal(t, c.Digest, head)
	})

	t.Run("DigestMatchesStoredBytes", func(t *testing.T) {
		g, objects := newTestGraph(t)

		c, err := g.Create("first", map[string]string{"a.txt": "d1"}, "")
		require.NoError(t, err)

		data, err := objects.Get(c.Digest)
		require.NoError(t, err)
		assert.Equal(t, object.HashContent(data), c.Digest)
	})

	t.Run("CarriesFullSnapshotForward", func(t *testing.T) {
		g, _ := newTestGraph(t)

		a, err := g.Create("first", map[string]string{"x": "d1"}, "")
		require.NoError(t, err)

		b, err := g.Create("second", map[string]string{"y": "d3"}, a.Digest)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"x": "d1", "y": "d3"}, b.Files)
		assert.Equal(t, a.Digest, b.ParentDigest())
	})
}

func TestGraphGet(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		g, _ := newTestGraph(t)

		created, err := g.Create("message", map[string]string{"a.txt": "d1"}, "")
		require.NoError(t, err)

		loaded, err := g.Get(created.Digest)
		require.NoError(t, err)
		assert.Equal(t, created.Message, loaded.Message)
		assert.Equal(t, created.Files, loaded.Files)
		assert.Equal(t, created.Timestamp, loaded.Timestamp)

		_, err = loaded.Time()
		assert.NoError(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		g, _ := newTestGraph(t)

		_, err := g.Get("0000000000000000000000000000000000000000")
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindNotFound))
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		g, objects := newTestGraph(t)

		digest, err := objects.Put([]byte("this is a blob, not a commit"))
		require.NoError(t, err)

		_, err = g.Get(digest)
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindCorruptHistory))
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		g, objects := newTestGraph(t)

		digest, err := objects.Put([]byte(`{"message":"no timestamp"}`))
		require.NoError(t, err)

		_, err = g.Get(digest)
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindCorruptHistory))
	})
}

func TestGraphLog(t *testing.T) {
	t.Run("WalksToRoot", func(t *testing.T) {
		g, _ := newTestGraph(t)

		var digests []string
		parent := ""
		for _, msg := range []string{"first", "second", "third"} {
			c, err := g.Create(msg, map[string]string{"a.txt": "d-" + msg}, parent)
			require.NoError(t, err)
			digests = append(digests, c.Digest)
			parent = c.Digest
		}

		head, err := g.Head()
		require.NoError(t, err)

		history, err := g.Log(head)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "third", history[0].Message)
		assert.Equal(t, "second", history[1].Message)
		assert.Equal(t, "first", history[2].Message)
		assert.Nil(t, history[2].Parent)
		assert.Equal(t, digests[2], history[0].Digest)
	})

	t.Run("EmptyHead", func(t *testing.T) {
		g, _ := newTestGraph(t)

		history, err := g.Log("")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("MissingParentIsCorrupt", func(t *testing.T) {
		g, objects := newTestGraph(t)

		// A commit whose parent was never stored.
		orphan := `{"timestamp":"2024-01-01T00:00:00Z","message":"orphan","files":{"a":"d"},"parent":"ffffffffffffffffffffffffffffffffffffffff"}`
		digest, err := objects.Put([]byte(orphan))
		require.NoError(t, err)

		_, err = g.Log(digest)
		require.Error(t, err)
		assert.True(t, vcserrors.Is(err, vcserrors.KindCorruptHistory))
	})
}
