// internal/repo/operations.go
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"gitto/internal/commit"
	"gitto/internal/diff"
	"gitto/internal/reflog"
	"gitto/internal/vcserrors"
	"gitto/internal/worktree"
)

// AddResult reports what staging did per path.
type AddResult struct {
	Added         []string
	AlreadyStaged []string
}

// Add stages the named paths. "." stages every changed and untracked file.
// A path matching no known classification fails the whole call.
func (r *Repository) Add(paths []string) (*AddResult, error) {
	state, err := r.Status()
	if err != nil {
		return nil, err
	}

	addAll := false
	for _, path := range paths {
		if path == "." {
			addAll = true
			continue
		}
		if !state.Known(r.normalize(path)) {
			return nil, vcserrors.PathNotRecognized("'%s' did not match any files", path)
		}
	}

	result := &AddResult{}

	if addAll {
		for _, path := range sortedKeys(state.TrackedChanged) {
			if err := r.stageFile(path); err != nil {
				return nil, err
			}
			result.Added = append(result.Added, path)
		}
		for _, path := range sortedKeys(state.Untracked) {
			if err := r.stageFile(path); err != nil {
				return nil, err
			}
			result.Added = append(result.Added, path)
		}
		return result, nil
	}

	for _, path := range paths {
		rel := r.normalize(path)
		switch {
		case state.TrackedMissing[rel]:
			return nil, vcserrors.PathNotRecognized("'%s' does not exist on disk", path)
		case state.TrackedChanged[rel] || state.Untracked[rel]:
			if err := r.stageFile(rel); err != nil {
				return nil, err
			}
			result.Added = append(result.Added, rel)
		default:
			result.AlreadyStaged = append(result.AlreadyStaged, rel)
		}
	}
	return result, nil
}

func (r *Repository) stageFile(rel string) error {
	content, err := os.ReadFile(filepath.Join(r.Root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("reading %s: %w", rel, err)
	}

	digest, err := r.Objects.Put(content)
	if err != nil {
		return err
	}
	if err := r.Index.Stage(rel, digest); err != nil {
		return err
	}

	r.Logger.Debug("staged file", zap.String("path", rel), zap.String("digest", digest))
	return nil
}

// UnstageResult reports what unstaging did per path.
type UnstageResult struct {
	Removed   []string
	NotStaged []string
}

// Unstage removes the named paths from the index.
func (r *Repository) Unstage(paths []string) (*UnstageResult, error) {
	result := &UnstageResult{}
	for _, path := range paths {
		rel := r.normalize(path)
		removed, err := r.Index.Unstage(rel)
		if err != nil {
			return nil, err
		}
		if removed {
			result.Removed = append(result.Removed, rel)
		} else {
			result.NotStaged = append(result.NotStaged, rel)
		}
	}
	return result, nil
}

// RestoreResult reports what restoring did per path.
type RestoreResult struct {
	Restored   []string
	NoChanges  []string
	NotTracked []string
}

// Restore rewrites tracked files with changes (or deleted tracked files) back
// to their last committed content.
func (r *Repository) Restore(paths []string) (*RestoreResult, error) {
	latest, err := r.LatestCommit()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, vcserrors.NotFound("no commit found")
	}

	state, err := r.Status()
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}
	for _, path := range paths {
		rel := r.normalize(path)
		switch {
		case state.TrackedChanged[rel] || state.TrackedMissing[rel]:
			if err := r.restoreFile(rel, latest); err != nil {
				return nil, err
			}
			result.Restored = append(result.Restored, rel)
		case state.TrackedUnchanged[rel]:
			result.NoChanges = append(result.NoChanges, rel)
		case state.Known(rel):
			result.NotTracked = append(result.NotTracked, rel)
		default:
			return nil, vcserrors.PathNotRecognized("'%s' did not match any files", path)
		}
	}
	return result, nil
}

func (r *Repository) restoreFile(rel string, latest *commit.Commit) error {
	digest, ok := latest.Files[rel]
	if !ok {
		return vcserrors.PathNotRecognized("'%s' is not in the last commit", rel)
	}

	content, err := r.Objects.Get(digest)
	if err != nil {
		return err
	}

	target := filepath.Join(r.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("restoring %s: %w", rel, err)
	}

	r.Logger.Debug("restored file", zap.String("path", rel), zap.String("digest", digest))
	return nil
}

// Commit turns the current index snapshot into a new commit, advances HEAD,
// records the move in the reflog, and clears the index.
func (r *Repository) Commit(message string) (*commit.Commit, error) {
	head, err := r.Graph.Head()
	if err != nil {
		return nil, err
	}

	c, err := r.Graph.Create(message, r.Index.Snapshot(), head)
	if err != nil {
		return nil, err
	}

	// The reflog is advisory; a failure here must not undo the commit.
	if rl, err := reflog.Open(reflogDir(r.Root)); err != nil {
		r.Logger.Warn("opening reflog", zap.Error(err))
	} else {
		if _, err := rl.Append(c.Digest, head, message); err != nil {
			r.Logger.Warn("appending reflog entry", zap.Error(err))
		}
		if err := rl.Close(); err != nil {
			r.Logger.Warn("closing reflog", zap.Error(err))
		}
	}

	if err := r.Index.Clear(); err != nil {
		return nil, err
	}
	return c, nil
}

// Status classifies every path under the repository root.
func (r *Repository) Status() (*worktree.Classification, error) {
	latest, err := r.LatestCommit()
	if err != nil {
		return nil, err
	}
	return r.Scanner.Classify(r.Index.Snapshot(), latest)
}

// Log returns the commit history from HEAD back to the root commit, newest
// first. An empty history is not an error.
func (r *Repository) Log() ([]*commit.Commit, error) {
	head, err := r.Graph.Head()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}
	return r.Graph.Log(head)
}

// Reflog returns the recorded HEAD advances, newest first.
func (r *Repository) Reflog() ([]reflog.Entry, error) {
	rl, err := reflog.Open(reflogDir(r.Root))
	if err != nil {
		return nil, err
	}
	defer rl.Close()
	return rl.Entries()
}

// FileDiff is the rendered change for one file of a commit.
type FileDiff struct {
	Path    string
	NewFile bool
	Result  *diff.DiffResult
}

// DiffReport describes a commit against its parent.
type DiffReport struct {
	Commit      *commit.Commit
	FirstCommit bool
	Files       []FileDiff
}

// ShowDiff compares the given commit with its parent, file by file. Files
// absent from the parent's file-set are reported as new rather than diffed.
func (r *Repository) ShowDiff(digest string) (*DiffReport, error) {
	c, err := r.Graph.Get(digest)
	if err != nil {
		return nil, err
	}

	report := &DiffReport{Commit: c}
	if c.Parent == nil {
		report.FirstCommit = true
		return report, nil
	}

	parent, err := r.Graph.Get(c.ParentDigest())
	if err != nil {
		if vcserrors.Is(err, vcserrors.KindNotFound) {
			return nil, vcserrors.CorruptHistory("parent commit %s not found", c.ParentDigest())
		}
		return nil, err
	}

	for _, path := range sortedKeys(c.Files) {
		content, err := r.Objects.Get(c.Files[path])
		if err != nil {
			return nil, err
		}

		parentDigest, ok := parent.Files[path]
		if !ok {
			report.Files = append(report.Files, FileDiff{Path: path, NewFile: true})
			continue
		}

		parentContent, err := r.Objects.Get(parentDigest)
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, FileDiff{
			Path:   path,
			Result: r.engine.Diff(parentContent, content),
		})
	}
	return report, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
