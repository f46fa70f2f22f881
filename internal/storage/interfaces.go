package storage

import (
	"context"

	"pumpstream/internal/domain"
)

// TokenStore provides access to token, trade and graduation persistence.
type TokenStore interface {
	// SaveCreateTokenEvent records a newly created token and returns its
	// persisted record. Re-saving an already known mint is not an error;
	// the existing record is returned unchanged.
	SaveCreateTokenEvent(ctx context.Context, ev *domain.CreateEvent) (*domain.TokenRecord, error)

	// SaveTradeEvent records a trade against a known token and returns the
	// token's record. Returns ErrNotFound when the mint was never created.
	SaveTradeEvent(ctx context.Context, ev *domain.TradeEvent) (*domain.TokenRecord, error)

	// SaveGraduationEvent records a graduation and marks the token as
	// graduated. Returns the updated token record, or ErrNotFound when the
	// mint was never created.
	SaveGraduationEvent(ctx context.Context, ev *domain.GraduationEvent) (*domain.TokenRecord, error)

	// ExistsCreatedToken reports whether a create event for mint has been
	// persisted.
	ExistsCreatedToken(ctx context.Context, mint string) (bool, error)

	// GetTokenByMint retrieves a token record. Returns ErrNotFound if not exists.
	GetTokenByMint(ctx context.Context, mint string) (*domain.TokenRecord, error)

	// CountAllTokens returns the number of persisted tokens.
	CountAllTokens(ctx context.Context) (int64, error)
}

// ATHStore provides access to per-mint all-time-high price persistence.
type ATHStore interface {
	// GetCurrentATH retrieves the current maximum for mint.
	// Returns ErrNotFound when the mint has no recorded maximum yet.
	GetCurrentATH(ctx context.Context, mint string) (*domain.ATHRecord, error)

	// UpsertCurrentATH conditionally replaces the current maximum for
	// rec.Mint. The write applies only when rec.PriceSol is strictly
	// greater than the stored value (or no value exists); the comparison
	// and the write are atomic. Returns whether the write applied.
	UpsertCurrentATH(ctx context.Context, rec *domain.ATHRecord) (bool, error)

	// InsertATHHistory appends one history row. History is append-only.
	InsertATHHistory(ctx context.Context, entry *domain.ATHHistoryEntry) error
}

// EventArchive is an optional column-store sink for high-volume event
// archival. Implementations must tolerate duplicate rows.
type EventArchive interface {
	ArchiveTrade(ctx context.Context, ev *domain.TradeEvent) error
	ArchiveGraduation(ctx context.Context, ev *domain.GraduationEvent) error
}
