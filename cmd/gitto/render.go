// cmd/gitto/render.go
package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"

	"gitto/internal/diff"
	"gitto/internal/repo"
	"gitto/internal/worktree"
)

func printStatus(state *worktree.Classification) {
	if state.Clean() {
		fmt.Println("nothing to commit, working tree clean")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if len(state.Staged) > 0 {
		fmt.Println("Changes to be committed:")
		for _, path := range sortedPaths(state.Staged) {
			green.Printf("\t%s\n", path)
		}
		fmt.Println()
	}

	if len(state.TrackedChanged) > 0 {
		fmt.Println("Changes not staged for commit:")
		for _, path := range sortedPaths(state.TrackedChanged) {
			red.Printf("\t%s\n", path)
		}
		fmt.Println()
	}

	if len(state.TrackedMissing) > 0 {
		fmt.Println("Deleted files:")
		for _, path := range sortedPaths(state.TrackedMissing) {
			red.Printf("\t%s\n", path)
		}
		fmt.Println()
	}

	if len(state.Untracked) > 0 {
		fmt.Println("Untracked files:")
		for _, path := range sortedPaths(state.Untracked) {
			red.Printf("\t%s\n", path)
		}
	}
}

func printDiffReport(report *repo.DiffReport) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	faint := color.New(color.Faint)

	fmt.Println("Changes from the last commit:")
	for _, file := range report.Files {
		fmt.Println("File:", file.Path)
		if file.NewFile {
			fmt.Println("New file in this commit")
			fmt.Println()
			continue
		}
		if file.Result.Empty() {
			fmt.Println()
			continue
		}

		for _, hunk := range file.Result.Hunks {
			faint.Printf("@@ -%d,%d +%d,%d @@\n",
				hunk.OldStart, hunk.OldLines,
				hunk.NewStart, hunk.NewLines)
			for _, line := range hunk.Lines {
				switch line.Type {
				case diff.Addition:
					green.Printf("+ %s\n", line.Content)
				case diff.Deletion:
					red.Printf("- %s\n", line.Content)
				default:
					faint.Printf("  %s\n", line.Content)
				}
			}
		}
		fmt.Println()
	}
}

func sortedPaths(set map[string]bool) []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
