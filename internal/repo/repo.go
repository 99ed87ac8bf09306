// internal/repo/repo.go
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"gitto/internal/commit"
	"gitto/internal/config"
	"gitto/internal/diff"
	"gitto/internal/index"
	"gitto/internal/logging"
	"gitto/internal/object"
	"gitto/internal/vcserrors"
	"gitto/internal/worktree"
)

// Repository is the explicit handle every operation goes through. HEAD, the
// index, and the object store are only reached via this handle, never through
// ambient paths. One process owns the repository root for the duration of a
// command; there is no cross-process locking.
type Repository struct {
	Root    string
	Objects *object.Store
	Index   *index.Index
	Graph   *commit.Graph
	Scanner *worktree.Scanner
	Config  *config.Config
	Logger  *zap.Logger

	engine *diff.Engine
}

func controlDir(root string) string {
	return filepath.Join(root, worktree.ControlDir)
}

func objectsDir(root string) string {
	return filepath.Join(controlDir(root), "objects")
}

func indexPath(root string) string {
	return filepath.Join(controlDir(root), "index")
}

func headPath(root string) string {
	return filepath.Join(controlDir(root), "HEAD")
}

func reflogDir(root string) string {
	return filepath.Join(controlDir(root), "reflog")
}

// Init creates the control-metadata directory with an empty object store,
// index, and HEAD. Re-running it on an initialized repository changes nothing.
func Init(dir string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	if _, err := os.Stat(controlDir(root)); err == nil {
		return root, vcserrors.AlreadyInitialized("repository already initialized in %s", root)
	}

	if err := os.MkdirAll(objectsDir(root), 0755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(headPath(root), []byte{}, 0644); err != nil {
		return "", fmt.Errorf("creating HEAD: %w", err)
	}
	if err := os.WriteFile(indexPath(root), []byte("{}"), 0644); err != nil {
		return "", fmt.Errorf("creating index: %w", err)
	}

	return root, nil
}

// FindRoot searches the directory ancestry of startDir for the
// control-metadata directory.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(controlDir(dir)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", vcserrors.NotARepository("not a gitto repository (or any of the parent directories)")
		}
		dir = parent
	}
}

// Open loads the repository rooted at root. The logger is built from the
// repository config.
func Open(root string) (*Repository, error) {
	cfg, err := config.Load(controlDir(root))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	objects, err := object.NewStore(objectsDir(root), cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	ix, err := index.Load(indexPath(root))
	if err != nil {
		return nil, err
	}

	return &Repository{
		Root:    root,
		Objects: objects,
		Index:   ix,
		Graph:   commit.NewGraph(objects, headPath(root), logger),
		Scanner: worktree.NewScanner(root, objects, logger),
		Config:  cfg,
		Logger:  logger,
		engine:  diff.NewEngine(cfg.ContextLines),
	}, nil
}

// LatestCommit returns the commit HEAD points to, or nil when there are no
// commits yet.
func (r *Repository) LatestCommit() (*commit.Commit, error) {
	head, err := r.Graph.Head()
	if err != nil {
		return nil, err
	}
	if head == "" {
		return nil, nil
	}
	return r.Graph.Get(head)
}

// normalize turns a caller-supplied path into the repository-relative slash
// form used as an index key.
func (r *Repository) normalize(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(r.Root, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(path))
}
