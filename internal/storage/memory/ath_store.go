package memory

import (
	"context"
	"sync"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// ATHStore is an in-memory implementation of storage.ATHStore.
type ATHStore struct {
	mu      sync.RWMutex
	current map[string]*domain.ATHRecord // keyed by mint
	history []*domain.ATHHistoryEntry
}

// NewATHStore creates a new in-memory ATH store.
func NewATHStore() *ATHStore {
	return &ATHStore{
		current: make(map[string]*domain.ATHRecord),
	}
}

// Compile-time interface check.
var _ storage.ATHStore = (*ATHStore)(nil)

// GetCurrentATH retrieves the current maximum for mint.
func (s *ATHStore) GetCurrentATH(_ context.Context, mint string) (*domain.ATHRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.current[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}

	recordCopy := *rec
	return &recordCopy, nil
}

// UpsertCurrentATH replaces the stored maximum only when rec.PriceSol is
// strictly greater. Comparison and write happen under one lock.
func (s *ATHStore) UpsertCurrentATH(_ context.Context, rec *domain.ATHRecord) (bool, error) {
	if rec == nil || rec.Mint == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.current[rec.Mint]; ok && rec.PriceSol <= existing.PriceSol {
		return false, nil
	}

	recordCopy := *rec
	s.current[rec.Mint] = &recordCopy
	return true, nil
}

// InsertATHHistory appends one history row.
func (s *ATHStore) InsertATHHistory(_ context.Context, entry *domain.ATHHistoryEntry) error {
	if entry == nil || entry.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *entry
	s.history = append(s.history, &entryCopy)
	return nil
}

// HistoryForMint returns all history rows for mint in insertion order.
// Test helper.
func (s *ATHStore) HistoryForMint(mint string) []*domain.ATHHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ATHHistoryEntry
	for _, e := range s.history {
		if e.Mint == mint {
			entryCopy := *e
			result = append(result, &entryCopy)
		}
	}
	return result
}
