// internal/watch/watcher.go
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gitto/internal/repo"
	"gitto/internal/worktree"
)

// Watcher re-classifies the working tree whenever it changes, logging the
// resulting state. Repository operations still run from a single goroutine;
// fsnotify only feeds it events.
type Watcher struct {
	repo    *repo.Repository
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	ignore  map[string]bool
}

func New(r *repo.Repository, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		repo:    r,
		watcher: fsw,
		logger:  logger,
		ignore: map[string]bool{
			worktree.ControlDir: true,
			".git":              true,
			"node_modules":      true,
			"vendor":            true,
		},
	}

	if err := w.addDirs(); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.repo.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignore[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.repo.Root, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.ignore[part] {
			return true
		}
	}
	return false
}

// Run blocks handling events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	w.report()

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New directories need watching too.
				w.watcher.Add(event.Name)
			}
			w.logger.Debug("working tree event",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			w.report()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) report() {
	state, err := w.repo.Status()
	if err != nil {
		w.logger.Warn("classifying working tree", zap.Error(err))
		return
	}
	w.logger.Info("working tree state",
		zap.Strings("staged", sorted(state.Staged)),
		zap.Strings("changed", sorted(state.TrackedChanged)),
		zap.Strings("missing", sorted(state.TrackedMissing)),
		zap.Strings("untracked", sorted(state.Untracked)))
}

func sorted(set map[string]bool) []string {
	var paths []string
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
