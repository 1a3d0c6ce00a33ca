// Package snapshot persists a per-session copy of the list stores so a
// restart can paint the UI before the first network round-trip completes.
// It is a convenience cache, never a source of truth: the first successful
// fetch supersedes whatever was loaded from here.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pverberg/frontdesk/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketRooms         = []byte("rooms")
	bucketBookings      = []byte("bookings")
	bucketNotifications = []byte("notifications")
)

// entry is the serialized form of one cached list.
type entry struct {
	Items      json.RawMessage `json:"items"`
	TotalCount int             `json:"total_count"`
	SavedAt    int64           `json:"saved_at"`
}

// Store is a bbolt-backed session snapshot cache. A missing or stale file
// is tolerated; every accessor degrades to a cache miss.
type Store struct {
	db *bolt.DB
	mu sync.Mutex
}

// Open creates or opens the snapshot database under baseDir. An empty
// baseDir yields a no-op store (no persistence). The server URL is hashed
// into the path so snapshots from different backends never mix.
func Open(baseDir, serverURL string) (*Store, error) {
	if baseDir == "" {
		return &Store{}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "frontdesk.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRooms, bucketBookings, bucketNotifications} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) get(bucket []byte, dest interface{}) (int, bool) {
	if s.db == nil {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte("list")); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return 0, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || len(e.Items) == 0 {
		return 0, false
	}
	if err := json.Unmarshal(e.Items, dest); err != nil {
		return 0, false
	}
	return e.TotalCount, true
}

func (s *Store) set(bucket []byte, items interface{}, totalCount int) error {
	if s.db == nil {
		return nil
	}

	itemsBytes, err := json.Marshal(items)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{
		Items:      itemsBytes,
		TotalCount: totalCount,
		SavedAt:    time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte("list"), data)
	})
}

// LoadRooms returns the cached room list, if any.
func (s *Store) LoadRooms() ([]domain.Room, int, bool) {
	var rooms []domain.Room
	total, ok := s.get(bucketRooms, &rooms)
	return rooms, total, ok
}

// SaveRooms caches the room list.
func (s *Store) SaveRooms(rooms []domain.Room, totalCount int) error {
	return s.set(bucketRooms, rooms, totalCount)
}

// LoadBookings returns the cached booking list, if any.
func (s *Store) LoadBookings() ([]domain.Booking, int, bool) {
	var bookings []domain.Booking
	total, ok := s.get(bucketBookings, &bookings)
	return bookings, total, ok
}

// SaveBookings caches the booking list.
func (s *Store) SaveBookings(bookings []domain.Booking, totalCount int) error {
	return s.set(bucketBookings, bookings, totalCount)
}

// LoadNotifications returns the cached notification list, if any.
func (s *Store) LoadNotifications() ([]domain.Notification, int, bool) {
	var notifications []domain.Notification
	total, ok := s.get(bucketNotifications, &notifications)
	return notifications, total, ok
}

// SaveNotifications caches the notification list.
func (s *Store) SaveNotifications(notifications []domain.Notification, totalCount int) error {
	return s.set(bucketNotifications, notifications, totalCount)
}

// InvalidateAll wipes every cached list.
func (s *Store) InvalidateAll() {
	if s.db == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketRooms, bucketBookings, bucketNotifications} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
