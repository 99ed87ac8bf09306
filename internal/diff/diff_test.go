package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	engine := NewEngine(3)

	t.Run("IdenticalContent", func(t *testing.T) {
		result := engine.Diff([]byte("a\nb\nc\n"), []byte("a\nb\nc\n"))
		assert.True(t, result.Empty())
		assert.Zero(t, result.Stats.Changes)
	})

	t.Run("SingleLineChange", func(t *testing.T) {
		result := engine.Diff([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"))
		require.Len(t, result.Hunks, 1)

		var types []LineType
		var contents []string
		for _, line := range result.Hunks[0].Lines {
			types = append(types, line.Type)
			contents = append(contents, line.Content)
		}
		assert.Equal(t, []LineType{Context, Deletion, Addition, Context}, types)
		assert.Equal(t, []string{"a", "b", "x", "c"}, contents)

		assert.Equal(t, 1, result.Stats.Additions)
		assert.Equal(t, 1, result.Stats.Deletions)
		assert.Equal(t, 2, result.Stats.Changes)
	})

	t.Run("AppendedLines", func(t *testing.T) {
		result := engine.Diff([]byte("a\n"), []byte("a\nb\nc\n"))
		require.Len(t, result.Hunks, 1)
		assert.Equal(t, 2, result.Stats.Additions)
		assert.Zero(t, result.Stats.Deletions)
	})

	t.Run("RemovedLines", func(t *testing.T) {
		result := engine.Diff([]byte("a\nb\nc\n"), []byte("a\n"))
		require.Len(t, result.Hunks, 1)
		assert.Equal(t, 2, result.Stats.Deletions)
		assert.Zero(t, result.Stats.Additions)
	})

	t.Run("EmptyOldContent", func(t *testing.T) {
		result := engine.Diff(nil, []byte("first\nsecond\n"))
		require.Len(t, result.Hunks, 1)
		assert.Equal(t, 2, result.Stats.Additions)
		assert.Equal(t, 1, result.Hunks[0].NewStart)
		assert.Zero(t, result.Hunks[0].OldLines)
	})

	t.Run("DistantEditsSplitIntoHunks", func(t *testing.T) {
		before := []byte("a\n1\n2\n3\n4\n5\n6\n7\n8\n9\nz\n")
		after := []byte("A\n1\n2\n3\n4\n5\n6\n7\n8\n9\nZ\n")

		result := NewEngine(1).Diff(before, after)
		require.Len(t, result.Hunks, 2)
		assert.Equal(t, 2, result.Stats.Additions)
		assert.Equal(t, 2, result.Stats.Deletions)
	})

	t.Run("ContextWindow", func(t *testing.T) {
		before := []byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n")
		after := []byte("1\n2\n3\n4\nX\n6\n7\n8\n9\n")

		result := NewEngine(2).Diff(before, after)
		require.Len(t, result.Hunks, 1)

		hunk := result.Hunks[0]
		// Two context lines either side of the one changed line.
		require.Len(t, hunk.Lines, 6)
		assert.Equal(t, "3", hunk.Lines[0].Content)
		assert.Equal(t, "7", hunk.Lines[len(hunk.Lines)-1].Content)
		assert.Equal(t, 3, hunk.OldStart)
	})

	t.Run("Format", func(t *testing.T) {
		result := engine.Diff([]byte("a\nb\n"), []byte("a\nc\n"))
		out := result.Format()
		assert.Contains(t, out, "- b")
		assert.Contains(t, out, "+ c")
		assert.Contains(t, out, "@@")
	})
}
