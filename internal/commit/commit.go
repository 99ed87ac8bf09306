// internal/commit/commit.go
package commit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitto/internal/object"
	"gitto/internal/vcserrors"
)

// Commit is an immutable snapshot record. Field order fixes the key order of
// the serialized form, and the commit's digest is computed over those exact
// bytes, so re-marshaling a loaded commit reproduces its digest.
type Commit struct {
	Timestamp string            `json:"timestamp"`
	Message   string            `json:"message"`
	Files     map[string]string `json:"files"`
	Parent    *string           `json:"parent"`

	// Digest is the commit's own identity key, not part of the record.
	Digest string `json:"-"`
}

// ParentDigest returns the parent digest or "" for a root commit.
func (c *Commit) ParentDigest() string {
	if c.Parent == nil {
		return ""
	}
	return *c.Parent
}

// Time parses the commit timestamp.
func (c *Commit) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, c.Timestamp)
}

// Graph holds the linear commit history: records in the object store, linked
// by parent digests, with HEAD naming the latest commit. HEAD transitions are
// strictly append-only; Create is the only mutator.
type Graph struct {
	objects  *object.Store
	headPath string
	logger   *zap.Logger
}

func NewGraph(objects *object.Store, headPath string, logger *zap.Logger) *Graph {
	return &Graph{
		objects:  objects,
		headPath: headPath,
		logger:   logger,
	}
}

// Head returns the latest commit digest, or "" when there are no commits.
func (g *Graph) Head() (string, error) {
	data, err := os.ReadFile(g.headPath)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Create builds a commit from the staged file-set overlaid on the parent's
// file-set, so every commit carries the full snapshot. It stores the record
// under its own digest and advances HEAD. Fails when nothing is staged.
func (g *Graph) Create(message string, staged map[string]string, parent string) (*Commit, error) {
	if len(staged) == 0 {
		return nil, vcserrors.NothingToCommit("nothing to commit")
	}

	files := make(map[string]string)
	if parent != "" {
		parentCommit, err := g.Get(parent)
		if err != nil {
			return nil, err
		}
		for path, digest := range parentCommit.Files {
			files[path] = digest
		}
	}
	for path, digest := range staged {
		files[path] = digest
	}

	c := &Commit{
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   message,
		Files:     files,
	}
	if parent != "" {
		c.Parent = &parent
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding commit: %w", err)
	}

	digest, err := g.objects.Put(data)
	if err != nil {
		return nil, fmt.Errorf("storing commit: %w", err)
	}
	c.Digest = digest

	if err := os.WriteFile(g.headPath, []byte(digest), 0644); err != nil {
		return nil, fmt.Errorf("advancing HEAD: %w", err)
	}

	g.logger.Debug("commit created",
		zap.String("digest", digest),
		zap.String("parent", parent),
		zap.Int("files", len(files)))
	return c, nil
}

// Get loads the commit stored under digest. A record that does not decode as
// a commit, or lacks required fields, is CorruptHistory rather than trusted
// on shape.
func (g *Graph) Get(digest string) (*Commit, error) {
	data, err := g.objects.Get(digest)
	if err != nil {
		if vcserrors.Is(err, vcserrors.KindNotFound) {
			return nil, vcserrors.NotFound("commit %s not found", digest)
		}
		return nil, err
	}

	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, vcserrors.CorruptHistory("object %s is not a commit record", digest)
	}
	if c.Timestamp == "" || c.Files == nil {
		return nil, vcserrors.CorruptHistory("commit %s is missing required fields", digest)
	}

	c.Digest = digest
	return &c, nil
}

// Log follows parent pointers from head back to the root commit, newest
// first. A parent digest missing from the object store is CorruptHistory.
func (g *Graph) Log(head string) ([]*Commit, error) {
	var history []*Commit

	for digest := head; digest != ""; {
		c, err := g.Get(digest)
		if err != nil {
			if vcserrors.Is(err, vcserrors.KindNotFound) && digest != head {
				return nil, vcserrors.CorruptHistory("parent commit %s not found", digest)
			}
			return nil, err
		}
		history = append(history, c)
		digest = c.ParentDigest()
	}

	return history, nil
}
