package storage

import (
	"context"
	"strconv"
	"sync"
)

// MemoryDocumentStore is the in-memory variant. Ids come from a monotonic
// counter and nothing survives the process.
type MemoryDocumentStore struct {
	mu          sync.Mutex
	collections map[string][]Document
	nextID      uint64
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string][]Document)}
}

func (s *MemoryDocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Document{ID: doc.ID, Body: cloneBody(doc.Body)})
	}
	return out, nil
}

func (s *MemoryDocumentStore) Create(ctx context.Context, collection string, body []byte) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := strconv.FormatUint(s.nextID, 10)
	s.collections[collection] = append(s.collections[collection], Document{ID: id, Body: cloneBody(body)})
	return id, nil
}

func (s *MemoryDocumentStore) Replace(ctx context.Context, collection, id string, body []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Body = cloneBody(body)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID == id {
			s.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
