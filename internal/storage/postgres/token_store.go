package postgres

import (
	"context"
	"fmt"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// SaveCreateTokenEvent records a newly created token. A concurrent or
// repeated save of the same mint is not an error; the stored record wins.
func (s *TokenStore) SaveCreateTokenEvent(ctx context.Context, ev *domain.CreateEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.Mint == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO tokens (
			mint, bonding_curve, creator, name, symbol, uri, signature, slot, timestamp_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (mint) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		ev.Mint,
		ev.BondingCurve,
		ev.Creator,
		ev.Name,
		ev.Symbol,
		ev.URI,
		ev.Signature,
		ev.Slot,
		ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}

	return s.GetTokenByMint(ctx, ev.Mint)
}

// SaveTradeEvent records a trade against a known token and returns the
// token's record.
func (s *TokenStore) SaveTradeEvent(ctx context.Context, ev *domain.TradeEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.Mint == "" {
		return nil, storage.ErrInvalidInput
	}

	rec, err := s.GetTokenByMint(ctx, ev.Mint)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO trades (
			mint, action, user_address, sol_amount, token_amount,
			virtual_sol_reserves, virtual_token_reserves,
			real_sol_reserves, real_token_reserves,
			signature, slot, timestamp_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.pool.Exec(ctx, query,
		ev.Mint,
		string(ev.Action),
		ev.User,
		ev.SolAmount,
		ev.TokenAmount,
		ev.VirtualSolReserves,
		ev.VirtualTokenReserves,
		ev.RealSolReserves,
		ev.RealTokenReserves,
		ev.Signature,
		ev.Slot,
		ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trade: %w", err)
	}
	return rec, nil
}

// SaveGraduationEvent records a graduation and marks the token as graduated.
func (s *TokenStore) SaveGraduationEvent(ctx context.Context, ev *domain.GraduationEvent) (*domain.TokenRecord, error) {
	if ev == nil || ev.TokenMint == "" {
		return nil, storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE tokens SET graduated = TRUE WHERE mint = $1`, ev.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("mark token graduated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}

	query := `
		INSERT INTO graduations (
			mint, bonding_curve, pool_authority, wsol_mint,
			lamports, sol_amount, signature, slot, timestamp_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.pool.Exec(ctx, query,
		ev.TokenMint,
		ev.BondingCurve,
		ev.PoolAuthority,
		ev.WSOLMint,
		int64(ev.Lamports),
		ev.SolAmount,
		ev.Signature,
		ev.Slot,
		ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert graduation: %w", err)
	}

	return s.GetTokenByMint(ctx, ev.TokenMint)
}

// ExistsCreatedToken reports whether a create event for mint has been persisted.
func (s *TokenStore) ExistsCreatedToken(ctx context.Context, mint string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tokens WHERE mint = $1)`, mint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check token exists: %w", err)
	}
	return exists, nil
}

// GetTokenByMint retrieves a token record. Returns ErrNotFound if not exists.
func (s *TokenStore) GetTokenByMint(ctx context.Context, mint string) (*domain.TokenRecord, error) {
	query := `
		SELECT mint, bonding_curve, creator, name, symbol, uri,
		       signature, slot, timestamp_ms, graduated
		FROM tokens
		WHERE mint = $1
	`

	var rec domain.TokenRecord
	err := s.pool.QueryRow(ctx, query, mint).Scan(
		&rec.Mint,
		&rec.BondingCurve,
		&rec.Creator,
		&rec.Name,
		&rec.Symbol,
		&rec.URI,
		&rec.Signature,
		&rec.Slot,
		&rec.Timestamp,
		&rec.Graduated,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by mint: %w", err)
	}
	return &rec, nil
}

// CountAllTokens returns the number of persisted tokens.
func (s *TokenStore) CountAllTokens(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tokens`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return count, nil
}
