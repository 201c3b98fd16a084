package store

import (
	"context"
	"sync"
)

type blob struct {
	data        []byte
	contentType string
}

type MemStore struct {
	mu sync.RWMutex
	m  map[string]blob
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]blob{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.m[key]
	if !ok {
		return nil, "", false, nil
	}

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, b.contentType, true, nil
}

func (s *MemStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = blob{data: cp, contentType: contentType}
	return nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
