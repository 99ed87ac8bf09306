// internal/reflog/reflog.go
package reflog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const entryPrefix = "head:"

// Entry records one HEAD advance.
type Entry struct {
	ID         string    `json:"id"`
	Commit     string    `json:"commit"`
	Parent     string    `json:"parent,omitempty"`
	Message    string    `json:"message"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Log is an append-only record of HEAD movements, stored in badger under the
// control-metadata directory. Keys are zero-padded sequence numbers so
// iteration order is append order.
type Log struct {
	db  *badger.DB
	seq *badger.Sequence
}

// Open opens (or creates) the reflog database at dir.
func Open(dir string) (*Log, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening reflog database: %w", err)
	}
	return New(db)
}

// New wraps an already-open database. Used by tests with an in-memory DB.
func New(db *badger.DB) (*Log, error) {
	seq, err := db.GetSequence([]byte("reflog-seq"), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening reflog sequence: %w", err)
	}
	return &Log{db: db, seq: seq}, nil
}

func (l *Log) Close() error {
	if err := l.seq.Release(); err != nil {
		l.db.Close()
		return err
	}
	return l.db.Close()
}

// Append records a HEAD advance. The entry ID is assigned here.
func (l *Log) Append(commit, parent, message string) (*Entry, error) {
	e := &Entry{
		ID:         uuid.New().String(),
		Commit:     commit,
		Parent:     parent,
		Message:    message,
		RecordedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling reflog entry: %w", err)
	}

	n, err := l.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("advancing reflog sequence: %w", err)
	}
	key := []byte(fmt.Sprintf("%s%020d", entryPrefix, n))

	err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("writing reflog entry: %w", err)
	}
	return e, nil
}

// Entries returns all recorded HEAD advances, newest first.
func (l *Log) Entries() ([]Entry, error) {
	var entries []Entry

	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(entryPrefix)
		// Seek past the last possible key in the prefix range.
		seekTo := append([]byte{}, prefix...)
		seekTo = append(seekTo, 0xFF)

		for it.Seek(seekTo); it.ValidForPrefix(prefix); it.Next() {
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing reflog entries: %w", err)
	}
	return entries, nil
}
