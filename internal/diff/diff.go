// internal/diff/diff.go
package diff

import (
	"bytes"
	"fmt"
)

// Line is a single line-tagged edit.
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

// LineType indicates whether a line was added, removed, or is context.
type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

// Hunk is a continuous run of edits with surrounding context.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// DiffResult contains the complete diff information.
type DiffResult struct {
	Hunks []Hunk
	Stats struct {
		Additions int
		Deletions int
		Changes   int
	}
}

// Empty reports whether the two contents were identical.
func (r *DiffResult) Empty() bool {
	return len(r.Hunks) == 0
}

// Engine produces line-based diffs using a longest-common-subsequence walk.
// Diffs operate on line boundaries only.
type Engine struct {
	contextLines int
}

// NewEngine creates a diff engine emitting the given number of context lines
// around each hunk.
func NewEngine(contextLines int) *Engine {
	return &Engine{
		contextLines: contextLines,
	}
}

// Diff generates a line-by-line diff between two contents.
func (e *Engine) Diff(oldContent, newContent []byte) *DiffResult {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	lcs := e.computeLCS(oldLines, newLines)
	script := e.backtrack(oldLines, newLines, lcs)

	result := &DiffResult{}
	result.Hunks = e.buildHunks(script)

	for _, hunk := range result.Hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case Addition:
				result.Stats.Additions++
			case Deletion:
				result.Stats.Deletions++
			}
		}
	}
	result.Stats.Changes = result.Stats.Additions + result.Stats.Deletions

	return result
}

func splitLines(content []byte) [][]byte {
	if len(content) == 0 {
		return nil
	}
	return bytes.Split(bytes.TrimSuffix(content, []byte{'\n'}), []byte{'\n'})
}

// computeLCS fills the longest-common-subsequence length matrix.
func (e *Engine) computeLCS(oldLines, newLines [][]byte) [][]int {
	matrix := make([][]int, len(oldLines)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(newLines)+1)
	}

	for i := 1; i <= len(oldLines); i++ {
		for j := 1; j <= len(newLines); j++ {
			if bytes.Equal(oldLines[i-1], newLines[j-1]) {
				matrix[i][j] = matrix[i-1][j-1] + 1
			} else {
				matrix[i][j] = max(matrix[i-1][j], matrix[i][j-1])
			}
		}
	}

	return matrix
}

// backtrack walks the matrix from the bottom-right corner and emits the full
// edit script in order, every line tagged.
func (e *Engine) backtrack(oldLines, newLines [][]byte, lcs [][]int) []Line {
	var script []Line

	i, j := len(oldLines), len(newLines)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && bytes.Equal(oldLines[i-1], newLines[j-1]):
			script = append(script, Line{
				Type:    Context,
				Content: string(oldLines[i-1]),
				OldNum:  i,
				NewNum:  j,
			})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			script = append(script, Line{
				Type:    Addition,
				Content: string(newLines[j-1]),
				NewNum:  j,
			})
			j--
		default:
			script = append(script, Line{
				Type:    Deletion,
				Content: string(oldLines[i-1]),
				OldNum:  i,
			})
			i--
		}
	}

	// Reverse into forward order.
	for a, b := 0, len(script)-1; a < b; a, b = a+1, b-1 {
		script[a], script[b] = script[b], script[a]
	}
	return script
}

// buildHunks groups the edit script into hunks, keeping at most contextLines
// of context on each side and splitting where the gap between edits exceeds
// twice that.
func (e *Engine) buildHunks(script []Line) []Hunk {
	var hunks []Hunk
	var current *Hunk
	pendingContext := 0 // context lines collected since the last edit

	flush := func() {
		if current == nil {
			return
		}
		if pendingContext > e.contextLines {
			drop := pendingContext - e.contextLines
			current.Lines = current.Lines[:len(current.Lines)-drop]
			current.OldLines -= drop
			current.NewLines -= drop
		}
		hunks = append(hunks, *current)
		current = nil
		pendingContext = 0
	}

	for idx, line := range script {
		if line.Type == Context {
			if current != nil {
				current.Lines = append(current.Lines, line)
				current.OldLines++
				current.NewLines++
				pendingContext++
				if pendingContext > 2*e.contextLines {
					flush()
				}
			}
			continue
		}

		if current == nil {
			current = &Hunk{}
			start := max(0, idx-e.contextLines)
			for _, ctx := range script[start:idx] {
				if ctx.Type != Context {
					continue
				}
				current.Lines = append(current.Lines, ctx)
				current.OldLines++
				current.NewLines++
			}
			if len(current.Lines) > 0 {
				current.OldStart = current.Lines[0].OldNum
				current.NewStart = current.Lines[0].NewNum
			} else {
				current.OldStart = max(line.OldNum, 1)
				current.NewStart = max(line.NewNum, 1)
			}
		}

		current.Lines = append(current.Lines, line)
		switch line.Type {
		case Addition:
			current.NewLines++
		case Deletion:
			current.OldLines++
		}
		pendingContext = 0
	}
	flush()

	return hunks
}

// Format returns a plain-text representation of the diff.
func (r *DiffResult) Format() string {
	var buf bytes.Buffer

	for _, hunk := range r.Hunks {
		fmt.Fprintf(&buf, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldLines,
			hunk.NewStart, hunk.NewLines)

		for _, line := range hunk.Lines {
			switch line.Type {
			case Addition:
				buf.WriteString("+ ")
			case Deletion:
				buf.WriteString("- ")
			case Context:
				buf.WriteString("  ")
			}
			buf.WriteString(line.Content)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}
