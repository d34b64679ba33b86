package cache

import (
	"context"
	"log/slog"
	"sync"

	"taskboard/internal/domain/repository"
)

// Stats counts cache lookups
type Stats struct {
	Hits   uint64
	Misses uint64
}

// DocumentStore caches query results per owner in front of another store.
// Writes through this store invalidate the owner's entry; changes made
// elsewhere must be reported with Invalidate.
type DocumentStore struct {
	inner   repository.DocumentStore
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string][]repository.TaskDocument
	// bumped on every invalidation; a query result is only stored when
	// the owner's generation did not move while it was read
	generations map[string]uint64
	stats       Stats
}

// NewDocumentStore wraps inner with a query cache
func NewDocumentStore(inner repository.DocumentStore, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		inner:       inner,
		logger:      logger.With("component", "cache"),
		entries:     make(map[string][]repository.TaskDocument),
		generations: make(map[string]uint64),
	}
}

// Query serves the owner's documents from cache when possible
func (s *DocumentStore) Query(ctx context.Context, ownerID string) ([]repository.TaskDocument, error) {
	s.mu.Lock()
	if docs, ok := s.entries[ownerID]; ok {
		s.stats.Hits++
		s.mu.Unlock()
		return copyDocuments(docs), nil
	}
	s.stats.Misses++
	generation := s.generations[ownerID]
	s.mu.Unlock()

	docs, err := s.inner.Query(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generations[ownerID] == generation {
		s.entries[ownerID] = copyDocuments(docs)
	}
	s.mu.Unlock()

	return docs, nil
}

// Insert writes through and invalidates the owner's entry
func (s *DocumentStore) Insert(ctx context.Context, ownerID string, doc repository.TaskDocument) (string, error) {
	defer s.Invalidate(ownerID)
	return s.inner.Insert(ctx, ownerID, doc)
}

// Patch writes through and invalidates the owner's entry
func (s *DocumentStore) Patch(ctx context.Context, ownerID, docID string, fields repository.FieldSet) error {
	defer s.Invalidate(ownerID)
	return s.inner.Patch(ctx, ownerID, docID, fields)
}

// Remove writes through and invalidates the owner's entry
func (s *DocumentStore) Remove(ctx context.Context, ownerID, docID string) error {
	defer s.Invalidate(ownerID)
	return s.inner.Remove(ctx, ownerID, docID)
}

// Invalidate drops the cached documents of one owner
func (s *DocumentStore) Invalidate(ownerID string) {
	s.mu.Lock()
	_, had := s.entries[ownerID]
	delete(s.entries, ownerID)
	s.generations[ownerID]++
	s.mu.Unlock()

	if had {
		s.logger.Debug("cache invalidated", "owner", ownerID)
	}
}

// Stats returns the lookup counters
func (s *DocumentStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func copyDocuments(docs []repository.TaskDocument) []repository.TaskDocument {
	out := make([]repository.TaskDocument, len(docs))
	for i, doc := range docs {
		out[i] = doc
		if doc.StartDate != nil {
			t := *doc.StartDate
			out[i].StartDate = &t
		}
		if doc.EndDate != nil {
			t := *doc.EndDate
			out[i].EndDate = &t
		}
	}
	return out
}

var _ repository.DocumentStore = (*DocumentStore)(nil)
