package stats

import (
	"context"
	"sync"
	"time"
)

// MemoryCounters is an in-memory Counters implementation for tests and
// single-process runs.
type MemoryCounters struct {
	mu                sync.Mutex
	tokensCreated     int64
	totalTransactions int64
	trades            map[string]int64 // id -> unix ms

	dbCount        int64
	dbCountExpires time.Time
	now            func() time.Time
}

// NewMemoryCounters creates empty counters. now defaults to time.Now.
func NewMemoryCounters(now func() time.Time) *MemoryCounters {
	if now == nil {
		now = time.Now
	}
	return &MemoryCounters{
		trades: make(map[string]int64),
		now:    now,
	}
}

// Compile-time interface check.
var _ Counters = (*MemoryCounters)(nil)

func (c *MemoryCounters) IncrTokensCreated(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokensCreated++
	return nil
}

func (c *MemoryCounters) IncrTotalTransactions(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalTransactions++
	return nil
}

func (c *MemoryCounters) RecordTrade(_ context.Context, id string, ts time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trades[id] = ts.UnixMilli()
	return nil
}

func (c *MemoryCounters) PruneTrades(_ context.Context, cutoff time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	limit := cutoff.UnixMilli()
	for id, ms := range c.trades {
		if ms < limit {
			delete(c.trades, id)
		}
	}
	return nil
}

func (c *MemoryCounters) CountTradesBetween(_ context.Context, from, to time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fromMs, toMs := from.UnixMilli(), to.UnixMilli()
	var n int64
	for _, ms := range c.trades {
		if ms >= fromMs && ms <= toMs {
			n++
		}
	}
	return n, nil
}

func (c *MemoryCounters) TokensCreated(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokensCreated, nil
}

func (c *MemoryCounters) TotalTransactions(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalTransactions, nil
}

func (c *MemoryCounters) CachedDBCount(_ context.Context) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dbCountExpires.IsZero() || c.now().After(c.dbCountExpires) {
		return 0, false, nil
	}
	return c.dbCount, true, nil
}

func (c *MemoryCounters) SetCachedDBCount(_ context.Context, count int64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dbCount = count
	c.dbCountExpires = c.now().Add(ttl)
	return nil
}

// TradeCount returns the number of retained trade observations. Test helper.
func (c *MemoryCounters) TradeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.trades)
}
