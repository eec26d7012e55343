// Package memstore provides the in-memory document store used by tests and
// single-node deployments.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/ingestd/docstore"
)

type collection struct {
	spec docstore.CollectionSpec
	seq  int64
	docs map[string]docstore.Doc
}

// Store is an in-memory docstore.Store. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Collection implements docstore.Store.
func (s *Store) Collection(ctx context.Context, name string) (docstore.CollectionSpec, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return docstore.CollectionSpec{}, false, nil
	}
	return col.spec, true, nil
}

// CreateCollection implements docstore.Store.
func (s *Store) CreateCollection(ctx context.Context, name string, spec docstore.CollectionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("collection [%s] already exists", name)
	}
	s.collections[name] = &collection{spec: spec, docs: make(map[string]docstore.Doc)}
	return nil
}

// Put implements docstore.Store.
func (s *Store) Put(ctx context.Context, name, id string, source []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection [%s] does not exist", name)
	}
	col.seq++
	stored := make([]byte, len(source))
	copy(stored, source)
	col.docs[id] = docstore.Doc{ID: id, Version: col.seq, Source: stored}
	return col.seq, nil
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, name, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return false, nil
	}
	if _, ok := col.docs[id]; !ok {
		return false, nil
	}
	delete(col.docs, id)
	return true, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, name, id string) (docstore.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[name]
	if !ok {
		return docstore.Doc{}, false, nil
	}
	doc, ok := col.docs[id]
	return doc, ok, nil
}

// Scroll implements docstore.Store. Documents are visited in id order over
// a point-in-time copy of the collection.
func (s *Store) Scroll(ctx context.Context, name string, batchSize int, fn func(docstore.Doc) error) error {
	s.mu.RLock()
	col, ok := s.collections[name]
	if !ok {
		s.mu.RUnlock()
		return nil
	}
	docs := make([]docstore.Doc, 0, len(col.docs))
	for _, doc := range col.docs {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}
