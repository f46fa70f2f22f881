// Package consumer turns raw log-notification jobs into persisted, published
// pipeline events.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pumpstream/internal/ath"
	"pumpstream/internal/domain"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/pumpfun"
	"pumpstream/internal/solana"
	"pumpstream/internal/stats"
	"pumpstream/internal/storage"
)

const (
	maxFetchAttempts = 3
	fetchBackoffUnit = 1500 * time.Millisecond
)

// sleepFunc waits for d or until ctx is cancelled. Injected in tests.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Consumer classifies, decodes and persists one job at a time. It holds no
// per-job state, so a single Consumer is shared by all workers in the pool.
type Consumer struct {
	rpc       solana.RPCClient
	tokens    storage.TokenStore
	aths      storage.ATHStore
	archive   storage.EventArchive
	tracker   *ath.Tracker
	stats     *stats.Aggregator
	publisher pubsub.Publisher
	logger    *zap.Logger

	createDecoder *pumpfun.CreateDecoder
	tradeDecoder  *pumpfun.TradeDecoder
	gradDecoder   *pumpfun.GraduationDecoder

	sleep sleepFunc
}

// Options configures a Consumer. ATH, Archive, Tracker and Stats are
// optional; the pipeline runs without the corresponding side effects when
// nil.
type Options struct {
	ProgramID string
	RPC       solana.RPCClient
	Tokens    storage.TokenStore
	ATH       storage.ATHStore
	Archive   storage.EventArchive
	Tracker   *ath.Tracker
	Stats     *stats.Aggregator
	Publisher pubsub.Publisher
	Logger    *zap.Logger
}

// New creates a Consumer.
func New(opts Options) *Consumer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Consumer{
		rpc:           opts.RPC,
		tokens:        opts.Tokens,
		aths:          opts.ATH,
		archive:       opts.Archive,
		tracker:       opts.Tracker,
		stats:         opts.Stats,
		publisher:     opts.Publisher,
		logger:        opts.Logger,
		createDecoder: pumpfun.NewCreateDecoder(opts.ProgramID, opts.Logger),
		tradeDecoder:  pumpfun.NewTradeDecoder(opts.Logger),
		gradDecoder:   pumpfun.NewGraduationDecoder(opts.ProgramID, opts.Logger),
		sleep:         sleepContext,
	}
}

// Process runs one job to its terminal result.
func (c *Consumer) Process(ctx context.Context, job *domain.RawJob) Result {
	res := c.process(ctx, job)

	switch res.Status {
	case StatusFailed:
		c.logger.Error("job failed",
			zap.String("signature", job.Signature),
			zap.String("reason", res.Reason),
			zap.String("message", res.Message))
	case StatusSkipped:
		c.logger.Debug("job skipped",
			zap.String("signature", job.Signature),
			zap.String("reason", res.Reason))
	}
	return res
}

func (c *Consumer) process(ctx context.Context, job *domain.RawJob) Result {
	switch pumpfun.Classify(job.Logs) {
	case domain.EventCreate:
		return c.processCreate(ctx, job)
	case domain.EventTrade:
		return c.processTrade(ctx, job)
	case domain.EventGraduation:
		return c.processGraduation(ctx, job)
	default:
		return skipped(ReasonUnhandledEventType)
	}
}

func (c *Consumer) processCreate(ctx context.Context, job *domain.RawJob) Result {
	tx, res, ok := c.fetchTransaction(ctx, job.Signature)
	if !ok {
		return res
	}

	ev := c.createDecoder.Decode(tx, job)
	if ev == nil {
		return skipped(ReasonParsingFailed)
	}

	rec, err := c.tokens.SaveCreateTokenEvent(ctx, ev)
	if err != nil {
		return failed(ReasonStorageError, fmt.Errorf("save create event: %w", err))
	}

	if c.stats != nil {
		if err := c.stats.RecordTokenCreated(ctx); err != nil {
			c.logger.Warn("record token created", zap.Error(err))
		}
	}

	payload := &TokenCreated{Token: rec}
	if c.aths != nil {
		// A brand-new token usually has no maximum yet; that is not an
		// error, the payload just omits it.
		cur, err := c.aths.GetCurrentATH(ctx, rec.Mint)
		switch {
		case err == nil:
			payload.ATH = cur
		case !errors.Is(err, storage.ErrNotFound):
			c.logger.Warn("load current ath", zap.String("mint", rec.Mint), zap.Error(err))
		}
	}

	c.publish(ctx, pubsub.ChannelTokenCreated, payload)
	return processed()
}

func (c *Consumer) processTrade(ctx context.Context, job *domain.RawJob) Result {
	ev := c.tradeDecoder.Decode(job)
	if ev.Mint == "" {
		return skipped(ReasonParsingFailed)
	}

	// Trades for tokens whose creation we never saw carry no context worth
	// persisting; drop them instead of inserting orphan rows.
	exists, err := c.tokens.ExistsCreatedToken(ctx, ev.Mint)
	if err != nil {
		return failed(ReasonStorageError, fmt.Errorf("check token exists: %w", err))
	}
	if !exists {
		return skipped(ReasonTokenNotObserved)
	}

	if _, err := c.tokens.SaveTradeEvent(ctx, ev); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return skipped(ReasonTokenNotObserved)
		}
		return failed(ReasonStorageError, fmt.Errorf("save trade event: %w", err))
	}

	if c.archive != nil {
		if err := c.archive.ArchiveTrade(ctx, ev); err != nil {
			c.logger.Warn("archive trade", zap.Error(err))
		}
	}
	if c.stats != nil {
		if err := c.stats.RecordTrade(ctx); err != nil {
			c.logger.Warn("record trade", zap.Error(err))
		}
	}
	if c.tracker != nil {
		if err := c.tracker.ObserveTrade(ctx, ev); err != nil {
			c.logger.Warn("observe trade for ath", zap.Error(err))
		}
	}

	c.publish(ctx, pubsub.ChannelTradeDetected, ev)
	return processed()
}

func (c *Consumer) processGraduation(ctx context.Context, job *domain.RawJob) Result {
	ev := c.gradDecoder.Decode(job)
	if ev == nil {
		return skipped(ReasonParsingFailed)
	}

	rec, err := c.tokens.SaveGraduationEvent(ctx, ev)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return skipped(ReasonTokenNotObserved)
		}
		return failed(ReasonStorageError, fmt.Errorf("save graduation event: %w", err))
	}

	if c.archive != nil {
		if err := c.archive.ArchiveGraduation(ctx, ev); err != nil {
			c.logger.Warn("archive graduation", zap.Error(err))
		}
	}
	if c.stats != nil {
		if err := c.stats.RecordGraduation(ctx); err != nil {
			c.logger.Warn("record graduation", zap.Error(err))
		}
	}

	c.publish(ctx, pubsub.ChannelTokenGraduated, &TokenGraduated{
		GraduationEvent: ev,
		TokenData:       rec,
	})
	return processed()
}

// fetchTransaction retrieves the transaction behind a create job. Rate
// limits back off linearly and give up after maxFetchAttempts; any other
// RPC error fails the job immediately. ok is false when res carries the
// terminal result instead.
func (c *Consumer) fetchTransaction(ctx context.Context, signature string) (tx *solana.Transaction, res Result, ok bool) {
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		tx, err := c.rpc.GetTransaction(ctx, signature)
		if err != nil {
			var rateLimited *solana.RateLimitedError
			if !errors.As(err, &rateLimited) {
				return nil, failed(ReasonRPCError, fmt.Errorf("get transaction %s: %w", signature, err)), false
			}
			if attempt == maxFetchAttempts-1 {
				break
			}
			delay := time.Duration(attempt+1) * fetchBackoffUnit
			c.logger.Debug("rate limited, backing off",
				zap.String("signature", signature),
				zap.Duration("delay", delay))
			if err := c.sleep(ctx, delay); err != nil {
				return nil, failed(ReasonRPCError, err), false
			}
			continue
		}
		if tx == nil {
			return nil, skipped(ReasonParsingFailed), false
		}
		return tx, Result{}, true
	}
	return nil, skipped(ReasonParsingFailed), false
}

func (c *Consumer) publish(ctx context.Context, channel string, payload any) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, channel, payload); err != nil {
		c.logger.Warn("publish event", zap.String("channel", channel), zap.Error(err))
	}
}
