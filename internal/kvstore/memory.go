package kvstore

import (
	"strings"
	"sync"
)

// MemoryStore implements the same contract as BoltStore without a file,
// including whole-blob JSON serialization so round-trip behavior matches.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	onChange []func(key string)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string, out interface{}) (bool, error) {
	s.mu.RLock()
	raw, found := s.data[key]
	s.mu.RUnlock()
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Put(key string, val interface{}) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	s.notify(key)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	s.notify(key)
	return nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// PutRaw stores bytes verbatim, bypassing the codec. Used by tests to
// simulate a corrupted blob.
func (s *MemoryStore) PutRaw(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	s.notify(key)
}

func (s *MemoryStore) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *MemoryStore) notify(key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.onChange {
		fn(key)
	}
}

func (s *MemoryStore) Close() error { return nil }

var (
	_ Store    = (*MemoryStore)(nil)
	_ Notifier = (*MemoryStore)(nil)
)
