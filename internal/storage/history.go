package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"vibe-dj/internal/ai"
)

var historyBucket = []byte("history")

// Entry is one successful resolution: the theme and what it produced.
// The queue itself is never restored from here; this is a log, not
// playlist persistence.
type Entry struct {
	RequestID  string    `json:"requestId"`
	Theme      string    `json:"theme"`
	Songs      []ai.Song `json:"songs"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

type HistoryStore struct {
	db *bbolt.DB
}

func OpenHistory(dir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage directory: %w", err)
	}
	options := &bbolt.Options{Timeout: 1 * time.Second}
	db, err := bbolt.Open(filepath.Join(dir, "history.db"), 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("could not open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create history bucket: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func historyKey(t time.Time, requestID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", t.UTC().Format(time.RFC3339Nano), requestID))
}

func (s *HistoryStore) Add(entry Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		if entry.ResolvedAt.IsZero() {
			entry.ResolvedAt = time.Now()
		}
		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("error serializing history entry: %w", err)
		}
		return b.Put(historyKey(entry.ResolvedAt, entry.RequestID), value)
	})
}

// Recent returns up to limit entries, newest first.
func (s *HistoryStore) Recent(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket)
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("error deserializing history entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
