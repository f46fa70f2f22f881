package postgres

import (
	"context"
	"fmt"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// ATHStore implements storage.ATHStore using PostgreSQL.
type ATHStore struct {
	pool *Pool
}

// NewATHStore creates a new ATHStore.
func NewATHStore(pool *Pool) *ATHStore {
	return &ATHStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ATHStore = (*ATHStore)(nil)

// GetCurrentATH retrieves the current maximum for mint.
func (s *ATHStore) GetCurrentATH(ctx context.Context, mint string) (*domain.ATHRecord, error) {
	query := `
		SELECT mint, price_sol, price_usd, signature, slot, timestamp_ms
		FROM token_ath
		WHERE mint = $1
	`

	var rec domain.ATHRecord
	err := s.pool.QueryRow(ctx, query, mint).Scan(
		&rec.Mint,
		&rec.PriceSol,
		&rec.PriceUsd,
		&rec.Signature,
		&rec.Slot,
		&rec.Timestamp,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get current ath: %w", err)
	}
	return &rec, nil
}

// UpsertCurrentATH writes rec only when its price_sol strictly exceeds the
// stored value. The guard runs inside the statement, so concurrent writers
// for the same mint cannot regress the maximum.
func (s *ATHStore) UpsertCurrentATH(ctx context.Context, rec *domain.ATHRecord) (bool, error) {
	if rec == nil || rec.Mint == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_ath (mint, price_sol, price_usd, signature, slot, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (mint) DO UPDATE SET
			price_sol    = EXCLUDED.price_sol,
			price_usd    = EXCLUDED.price_usd,
			signature    = EXCLUDED.signature,
			slot         = EXCLUDED.slot,
			timestamp_ms = EXCLUDED.timestamp_ms
		WHERE token_ath.price_sol < EXCLUDED.price_sol
	`

	tag, err := s.pool.Exec(ctx, query,
		rec.Mint,
		rec.PriceSol,
		rec.PriceUsd,
		rec.Signature,
		rec.Slot,
		rec.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("upsert current ath: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertATHHistory appends one history row.
func (s *ATHStore) InsertATHHistory(ctx context.Context, entry *domain.ATHHistoryEntry) error {
	if entry == nil || entry.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_ath_history (mint, price_sol, signature, slot, timestamp_ms)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.Mint,
		entry.PriceSol,
		entry.Signature,
		entry.Slot,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert ath history: %w", err)
	}
	return nil
}

// GetATHHistory retrieves all history rows for mint ordered by timestamp ASC.
func (s *ATHStore) GetATHHistory(ctx context.Context, mint string) ([]*domain.ATHHistoryEntry, error) {
	query := `
		SELECT mint, price_sol, signature, slot, timestamp_ms
		FROM token_ath_history
		WHERE mint = $1
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get ath history: %w", err)
	}
	defer rows.Close()

	var result []*domain.ATHHistoryEntry
	for rows.Next() {
		var e domain.ATHHistoryEntry
		if err := rows.Scan(&e.Mint, &e.PriceSol, &e.Signature, &e.Slot, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan ath history row: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ath history rows: %w", err)
	}
	return result, nil
}
