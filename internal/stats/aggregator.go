package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pumpstream/internal/domain"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/storage"
)

const (
	tradeWindow    = 60 * time.Second
	rateWindow     = 1 * time.Second
	pruneInterval  = 5 * time.Second
	publishEvery   = 1 * time.Second
	dbCountCacheTTL = 10 * time.Second
)

// Aggregator turns counter state into StatsSnapshot values and keeps the
// trade window pruned. One aggregator runs per worker process; counters are
// shared, so concurrent aggregators stay consistent.
type Aggregator struct {
	counters  Counters
	tokens    storage.TokenStore
	publisher pubsub.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// AggregatorOptions configures an Aggregator.
type AggregatorOptions struct {
	Counters  Counters
	Tokens    storage.TokenStore
	Publisher pubsub.Publisher
	Logger    *zap.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		counters:  opts.Counters,
		tokens:    opts.Tokens,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// RecordTokenCreated counts one processed create event.
func (a *Aggregator) RecordTokenCreated(ctx context.Context) error {
	if err := a.counters.IncrTokensCreated(ctx); err != nil {
		return err
	}
	return a.recordTransaction(ctx)
}

// RecordTrade counts one processed trade event.
func (a *Aggregator) RecordTrade(ctx context.Context) error {
	return a.recordTransaction(ctx)
}

// RecordGraduation counts one processed graduation event.
func (a *Aggregator) RecordGraduation(ctx context.Context) error {
	return a.recordTransaction(ctx)
}

// recordTransaction increments the shared transaction counter and stamps a
// uniquely keyed window entry. Every transaction kind feeds the sliding
// window behind the per-second rate, not just trades.
func (a *Aggregator) recordTransaction(ctx context.Context) error {
	if err := a.counters.IncrTotalTransactions(ctx); err != nil {
		return err
	}
	return a.counters.RecordTrade(ctx, uuid.NewString(), a.now())
}

// Snapshot assembles the current statistics view. The database row count is
// cached for a short period so every publish does not hit the database.
func (a *Aggregator) Snapshot(ctx context.Context) (*domain.StatsSnapshot, error) {
	tokensCreated, err := a.counters.TokensCreated(ctx)
	if err != nil {
		return nil, fmt.Errorf("read tokens created: %w", err)
	}
	totalTx, err := a.counters.TotalTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read total transactions: %w", err)
	}

	now := a.now()
	tradesPerSec, err := a.counters.CountTradesBetween(ctx, now.Add(-rateWindow), now)
	if err != nil {
		return nil, fmt.Errorf("count recent trades: %w", err)
	}

	dbCount, ok, err := a.counters.CachedDBCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cached db count: %w", err)
	}
	if !ok {
		dbCount, err = a.tokens.CountAllTokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		if err := a.counters.SetCachedDBCount(ctx, dbCount, dbCountCacheTTL); err != nil {
			return nil, fmt.Errorf("cache db count: %w", err)
		}
	}

	return &domain.StatsSnapshot{
		EventsInDB:              dbCount,
		TokensCreatedSinceStart: tokensCreated,
		TotalTransactions:       totalTx,
		TradesPerSecond:         tradesPerSec,
	}, nil
}

// PruneWindow drops trade observations older than the sliding window.
func (a *Aggregator) PruneWindow(ctx context.Context) error {
	return a.counters.PruneTrades(ctx, a.now().Add(-tradeWindow))
}

// PublishSnapshot computes and publishes one snapshot on stats:update.
func (a *Aggregator) PublishSnapshot(ctx context.Context) error {
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return err
	}
	return a.publisher.Publish(ctx, pubsub.ChannelStatsUpdate, snap)
}

// Run drives the prune and publish loops until ctx is cancelled. Snapshots
// publish unconditionally every tick, even when nothing changed; the
// gateway relies on the steady cadence as a liveness signal.
func (a *Aggregator) Run(ctx context.Context) {
	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()
	publishTicker := time.NewTicker(publishEvery)
	defer publishTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pruneTicker.C:
			if err := a.PruneWindow(ctx); err != nil && ctx.Err() == nil {
				a.logger.Warn("prune trade window", zap.Error(err))
			}
		case <-publishTicker.C:
			if err := a.PublishSnapshot(ctx); err != nil && ctx.Err() == nil {
				a.logger.Warn("publish stats snapshot", zap.Error(err))
			}
		}
	}
}
