// Package stats maintains pipeline-wide counters and publishes periodic
// snapshots on stats:update.
package stats

import (
	"context"
	"time"
)

// Counters is the shared mutable state behind the stats snapshot. All
// workers write to the same counter set, so implementations must be safe
// for concurrent use across processes where the backend allows it.
type Counters interface {
	// IncrTokensCreated bumps the tokens-created-since-start counter.
	IncrTokensCreated(ctx context.Context) error

	// IncrTotalTransactions bumps the processed-transactions counter.
	IncrTotalTransactions(ctx context.Context) error

	// RecordTrade adds one trade observation at ts. id must be unique per
	// observation so same-millisecond trades are all retained.
	RecordTrade(ctx context.Context, id string, ts time.Time) error

	// PruneTrades drops trade observations strictly older than cutoff.
	PruneTrades(ctx context.Context, cutoff time.Time) error

	// CountTradesBetween counts trade observations in [from, to].
	CountTradesBetween(ctx context.Context, from, to time.Time) (int64, error)

	// TokensCreated reads the tokens-created-since-start counter.
	TokensCreated(ctx context.Context) (int64, error)

	// TotalTransactions reads the processed-transactions counter.
	TotalTransactions(ctx context.Context) (int64, error)

	// CachedDBCount reads the cached database row count. ok is false when
	// the cache entry is missing or expired.
	CachedDBCount(ctx context.Context) (count int64, ok bool, err error)

	// SetCachedDBCount stores the database row count with a ttl.
	SetCachedDBCount(ctx context.Context, count int64, ttl time.Duration) error
}
