package memory

import (
	"context"
	"sync"
)

// Object is one stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryBlobStore is an in-memory blob store used in tests and local runs.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryBlobStore creates an empty store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string]Object)}
}

// Put stores an object and returns a synthetic URL.
func (s *MemoryBlobStore) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = Object{ContentType: contentType, Data: copied}
	return "memory://" + key, nil
}

// Get returns a stored object.
func (s *MemoryBlobStore) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
