package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = memoryObject{
		contentType: contentType,
		data:        copied,
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object with key %s", key)
	}
	return obj.data, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return "memory://" + key
}

func (s *MemoryStore) SignedURL(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	return fmt.Sprintf("memory://%s?expires=%d", key, time.Now().Add(lifetime).Unix()), nil
}

// ContentType returns the content type an object was stored with, for test
// assertions.
func (s *MemoryStore) ContentType(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key].contentType
}

// Keys returns all stored keys, for test assertions.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
