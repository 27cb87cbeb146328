package sessions

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-teams-profile/internal/errors"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store that lives for the lifetime of the process
type MemoryStore struct {
	id     string
	values map[string]string
	limit  int // max number of keys, 0 is unlimited
	lock   sync.RWMutex
}

// MemoryStoreOption configures a MemoryStore
type MemoryStoreOption func(*MemoryStore)

// WithKeyLimit bounds the number of keys the store accepts
func WithKeyLimit(limit int) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.limit = limit
	}
}

// NewMemoryStore creates an empty session store with a fresh session ID
func NewMemoryStore(options ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		id:     uuid.NewString(),
		values: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ID identifies the session. It is only used for log correlation
func (s *MemoryStore) ID() string {
	return s.id
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	if key == "" {
		return errors.ErrKeyRequired
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.values[key]; !exists && s.limit > 0 && len(s.values) >= s.limit {
		return errors.Wrapf(errors.ErrStorageFull, "set %q", key)
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.values, key)
}

// Clear drops every key, ending the session's stored state
func (s *MemoryStore) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values = make(map[string]string)
}
