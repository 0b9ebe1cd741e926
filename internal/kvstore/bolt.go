package kvstore

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bucketName = []byte("shopizen")

// BoltStore persists blobs in a single-file bbolt database with one bucket.
type BoltStore struct {
	db *bolt.DB

	mu       sync.RWMutex
	onChange []func(key string)
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kvstore: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string, out interface{}) (bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("kvstore: get %s: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt blob resets the collection to empty.
		zap.L().Warn("kvstore: corrupt blob ignored", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *BoltStore) Put(key string, val interface{}) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("kvstore: marshal %s: %w", key, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("kvstore: put %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

func (s *BoltStore) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("kvstore: delete %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

func (s *BoltStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: keys %s: %w", prefix, err)
	}
	return keys, nil
}

func (s *BoltStore) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *BoltStore) notify(key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.onChange {
		fn(key)
	}
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var (
	_ Store    = (*BoltStore)(nil)
	_ Notifier = (*BoltStore)(nil)
)
