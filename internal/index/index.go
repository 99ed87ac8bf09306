// internal/index/index.go
package index

import (
	"encoding/json"
	"fmt"
	"os"
)

// Index is the staging area: a mapping from repository-relative path to the
// digest staged for the next commit. Every mutation persists synchronously,
// so the mapping survives process restarts.
type Index struct {
	path    string
	entries map[string]string
}

// Load reads the persisted index. The index file is created by Init, so a
// missing file is an error here.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	return &Index{
		path:    path,
		entries: entries,
	}, nil
}

// Stage upserts path -> digest and persists.
func (ix *Index) Stage(path, digest string) error {
	ix.entries[path] = digest
	return ix.persist()
}

// Unstage removes path if present and reports whether it was present.
func (ix *Index) Unstage(path string) (bool, error) {
	if _, ok := ix.entries[path]; !ok {
		return false, nil
	}
	delete(ix.entries, path)
	return true, ix.persist()
}

// Snapshot returns a copy of the current mapping.
func (ix *Index) Snapshot() map[string]string {
	snapshot := make(map[string]string, len(ix.entries))
	for path, digest := range ix.entries {
		snapshot[path] = digest
	}
	return snapshot
}

// Clear empties the mapping. Called after a successful commit.
func (ix *Index) Clear() error {
	ix.entries = make(map[string]string)
	return ix.persist()
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

func (ix *Index) persist() error {
	data, err := json.Marshal(ix.entries)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := os.WriteFile(ix.path, data, 0644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}
