package blobstore

import (
	"context"
	"sync"
)

// CachingStore wraps a BlobStore and caches whole blobs on read. Snapshots
// are immutable and read whole, so there is no block granularity: one entry
// per blob name, invalidated on Put and Delete.
type CachingStore struct {
	inner      BlobStore
	maxEntries int

	mu    sync.Mutex
	blobs map[string][]byte
	order []string
}

// NewCachingStore creates a read cache in front of inner, holding at most
// maxEntries blobs. maxEntries defaults to 8 if <= 0.
func NewCachingStore(inner BlobStore, maxEntries int) *CachingStore {
	if maxEntries <= 0 {
		maxEntries = 8
	}
	return &CachingStore{
		inner:      inner,
		maxEntries: maxEntries,
		blobs:      make(map[string][]byte),
	}
}

// Put writes through to the inner store and invalidates the cached blob.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Get returns the cached blob, falling back to the inner store on a miss.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	if data, ok := s.blobs[name]; ok {
		s.mu.Unlock()
		copied := make([]byte, len(data))
		copy(copied, data)
		return copied, nil
	}
	s.mu.Unlock()

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.store(name, data)
	return data, nil
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through; listings are not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) store(name string, data []byte) {
	copied := make([]byte, len(data))
	copy(copied, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[name]; !ok {
		// Evict the oldest entry once full.
		if len(s.order) >= s.maxEntries {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.blobs, oldest)
		}
		s.order = append(s.order, name)
	}
	s.blobs[name] = copied
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[name]; !ok {
		return
	}
	delete(s.blobs, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
