// internal/object/store.go
package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"gitto/internal/vcserrors"
)

const DefaultCacheSize = 256

// HashContent returns the hex digest identifying content. Two byte-identical
// inputs always produce the same digest.
func HashContent(content []byte) string {
	h := sha1.Sum(content)
	return hex.EncodeToString(h[:])
}

// Store is a content-addressed blob store backed by flat files named by
// digest. Entries are append-only and never deleted.
type Store struct {
	root  string
	cache *lru.Cache[string, []byte]
}

func NewStore(root string, cacheSize int) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating object directory: %w", err)
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating object cache: %w", err)
	}

	return &Store{
		root:  root,
		cache: cache,
	}, nil
}

// Put writes content under its digest and returns the digest. Writing the
// same content twice is a no-op.
func (s *Store) Put(content []byte) (string, error) {
	if content == nil {
		content = []byte{}
	}

	digest := HashContent(content)
	path := filepath.Join(s.root, digest)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, content, 0644); err != nil {
			return "", fmt.Errorf("writing object %s: %w", digest, err)
		}
	}

	s.cache.Add(digest, content)
	return digest, nil
}

func (s *Store) Get(digest string) ([]byte, error) {
	if content, ok := s.cache.Get(digest); ok {
		return content, nil
	}

	content, err := os.ReadFile(filepath.Join(s.root, digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vcserrors.NotFound("object %s not found", digest)
		}
		return nil, fmt.Errorf("reading object %s: %w", digest, err)
	}

	s.cache.Add(digest, content)
	return content, nil
}

// Exists reports whether an entry is stored under digest.
func (s *Store) Exists(digest string) bool {
	if digest == "" {
		return false
	}
	if s.cache.Contains(digest) {
		return true
	}

	_, err := os.Stat(filepath.Join(s.root, digest))
	return err == nil
}
