// internal/worktree/scanner.go
package worktree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"gitto/internal/commit"
	"gitto/internal/object"
)

// Classification holds the derived state of every path under the repository
// root. A staged path whose on-disk content drifted after staging appears in
// both Staged and TrackedChanged; every other path lands in exactly one set.
type Classification struct {
	Staged           map[string]bool
	TrackedUnchanged map[string]bool
	TrackedChanged   map[string]bool
	TrackedMissing   map[string]bool
	Untracked        map[string]bool
}

func newClassification() *Classification {
	return &Classification{
		Staged:           make(map[string]bool),
		TrackedUnchanged: make(map[string]bool),
		TrackedChanged:   make(map[string]bool),
		TrackedMissing:   make(map[string]bool),
		Untracked:        make(map[string]bool),
	}
}

// Clean reports whether there is nothing staged and nothing changed.
func (c *Classification) Clean() bool {
	return len(c.Staged) == 0 &&
		len(c.TrackedChanged) == 0 &&
		len(c.TrackedMissing) == 0 &&
		len(c.Untracked) == 0
}

// Known reports whether path fell into any classification.
func (c *Classification) Known(path string) bool {
	return c.Staged[path] ||
		c.TrackedUnchanged[path] ||
		c.TrackedChanged[path] ||
		c.TrackedMissing[path] ||
		c.Untracked[path]
}

// Scanner classifies working-tree files against the index and the latest
// commit. Files are always read by their full path resolved against the
// repository root.
type Scanner struct {
	root    string
	objects *object.Store
	logger  *zap.Logger
}

func NewScanner(root string, objects *object.Store, logger *zap.Logger) *Scanner {
	return &Scanner{
		root:    root,
		objects: objects,
		logger:  logger,
	}
}

// Classify derives the state of every path from the index snapshot and the
// latest commit. Output is stable for identical filesystem state, index, and
// HEAD.
func (s *Scanner) Classify(indexSnapshot map[string]string, latest *commit.Commit) (*Classification, error) {
	result := newClassification()

	for path := range indexSnapshot {
		result.Staged[path] = true
	}

	// Committed files not staged again: compare on-disk digest with the
	// committed one. A read failure means the file was deleted after commit.
	if latest != nil {
		for path, committed := range latest.Files {
			if result.Staged[path] {
				continue
			}
			digest, err := s.hashFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					result.TrackedMissing[path] = true
					continue
				}
				return nil, err
			}
			if digest == committed {
				result.TrackedUnchanged[path] = true
			} else {
				result.TrackedChanged[path] = true
			}
		}
	}

	// Staged files whose content drifted after staging are also changed.
	for path, staged := range indexSnapshot {
		digest, err := s.hashFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				result.TrackedMissing[path] = true
				continue
			}
			return nil, err
		}
		if digest != staged {
			result.TrackedChanged[path] = true
		}
	}

	// Everything else on disk: untracked unless its content is already in
	// the object store.
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ControlDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		if result.Known(rel) {
			return nil
		}

		digest, err := s.hashFile(rel)
		if err != nil {
			return err
		}
		if !s.objects.Exists(digest) {
			result.Untracked[rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking working tree: %w", err)
	}

	s.logger.Debug("classified working tree",
		zap.Int("staged", len(result.Staged)),
		zap.Int("changed", len(result.TrackedChanged)),
		zap.Int("missing", len(result.TrackedMissing)),
		zap.Int("untracked", len(result.Untracked)))
	return result, nil
}

func (s *Scanner) hashFile(rel string) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return object.HashContent(content), nil
}

// ControlDir is the repository metadata directory excluded from scans.
const ControlDir = ".gitto"
