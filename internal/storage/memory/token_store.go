package memory

import (
	"context"
	"sync"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*domain.TokenRecord // keyed by mint
	trades map[string]int                 // trade count per mint
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]*domain.TokenRecord),
		trades: make(map[string]int),
	}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// SaveCreateTokenEvent records a newly created token. Re-saving a known mint
// returns the existing record unchanged.
func (s *TokenStore) SaveCreateTokenEvent(_ context.Context, ev *domain.CreateEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.Mint == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tokens[ev.Mint]; ok {
		recordCopy := *existing
		return &recordCopy, nil
	}

	rec := &domain.TokenRecord{
		Mint:         ev.Mint,
		BondingCurve: ev.BondingCurve,
		Creator:      ev.Creator,
		Name:         ev.Name,
		Symbol:       ev.Symbol,
		URI:          ev.URI,
		Signature:    ev.Signature,
		Slot:         ev.Slot,
		Timestamp:    ev.Timestamp,
	}
	s.tokens[ev.Mint] = rec

	recordCopy := *rec
	return &recordCopy, nil
}

// SaveTradeEvent records a trade against a known token.
func (s *TokenStore) SaveTradeEvent(_ context.Context, ev *domain.TradeEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.Mint == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[ev.Mint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	s.trades[ev.Mint]++

	recordCopy := *rec
	return &recordCopy, nil
}

// SaveGraduationEvent marks the token as graduated.
func (s *TokenStore) SaveGraduationEvent(_ context.Context, ev *domain.GraduationEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.TokenMint == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[ev.TokenMint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	rec.Graduated = true

	recordCopy := *rec
	return &recordCopy, nil
}

// ExistsCreatedToken reports whether a create event for mint has been persisted.
func (s *TokenStore) ExistsCreatedToken(_ context.Context, mint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[mint]
	return ok, nil
}

// GetTokenByMint retrieves a token record. Returns ErrNotFound if not exists.
func (s *TokenStore) GetTokenByMint(_ context.Context, mint string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tokens[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}

	recordCopy := *rec
	return &recordCopy, nil
}

// CountAllTokens returns the number of persisted tokens.
func (s *TokenStore) CountAllTokens(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.tokens)), nil
}

// TradeCount returns the number of trades recorded for mint. Test helper.
func (s *TokenStore) TradeCount(mint string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.trades[mint]
}
