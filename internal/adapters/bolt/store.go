// Package bolt persists the history snapshot in a local bbolt key-value
// store.
package bolt

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/smartprint/comanda/internal/domain"
)

const (
	bucketName = "comanda"
	keyOrders  = "orders"
	keyCounter = "counter"
)

// Store implements ports.HistoryStore over a bbolt file. The database is
// opened per operation; saves happen at most once per delivered order, so
// keeping a handle open buys nothing and a crashed process never leaves a
// lock behind.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file is
// created on first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved snapshot. A missing file, bucket or key yields an
// empty snapshot and nil error (first run). Unreadable or malformed
// content yields an error; callers fail soft.
func (s *Store) Load() (domain.HistorySnapshot, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return domain.HistorySnapshot{}, nil
	}

	db, err := s.open()
	if err != nil {
		return domain.HistorySnapshot{}, fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	var snapshot domain.HistorySnapshot
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return nil
		}

		if raw := b.Get([]byte(keyOrders)); raw != nil {
			if err := json.Unmarshal(raw, &snapshot.Entries); err != nil {
				return fmt.Errorf("decode orders: %w", err)
			}
		}
		if raw := b.Get([]byte(keyCounter)); raw != nil {
			n, err := strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("decode counter: %w", err)
			}
			snapshot.NextOrderID = n
		}
		return nil
	})
	if err != nil {
		return domain.HistorySnapshot{}, err
	}
	return snapshot, nil
}

// Save persists the snapshot in a single read-write transaction: the
// entry list under one key, the counter under the other.
func (s *Store) Save(snapshot domain.HistorySnapshot) error {
	db, err := s.open()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	entries, err := json.Marshal(snapshot.Entries)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	counter := strconv.FormatInt(snapshot.NextOrderID, 10)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(keyOrders), entries); err != nil {
			return err
		}
		return b.Put([]byte(keyCounter), []byte(counter))
	})
}

func (s *Store) open() (*bolt.DB, error) {
	return bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second})
}
