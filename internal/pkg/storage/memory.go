package storage

import (
	"context"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps blobs in process memory. Used by tests and local runs
// without S3 credentials.
type MemoryStore struct {
	mu       sync.RWMutex
	objects  map[string]memObject
	endpoint string
	bucket   string

	// FailPut forces Put to return this error when set.
	FailPut error
}

func NewMemoryStore(endpoint, bucket string) *MemoryStore {
	return &MemoryStore{
		objects:  make(map[string]memObject),
		endpoint: endpoint,
		bucket:   bucket,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut != nil {
		return s.FailPut
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = memObject{data: cp, contentType: contentType}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) URL(key string) string {
	return PublicURL(s.endpoint, s.bucket, key)
}

// Get returns a stored blob and its content type.
func (s *MemoryStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
