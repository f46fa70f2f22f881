package stats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpstream/internal/domain"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/pubsub/stub"
	"pumpstream/internal/storage/memory"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAggregator(t *testing.T) (*Aggregator, *MemoryCounters, *memory.TokenStore, *stub.Publisher, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	counters := NewMemoryCounters(clock.Now)
	tokens := memory.NewTokenStore()
	pub := stub.NewPublisher()

	agg := NewAggregator(AggregatorOptions{
		Counters:  counters,
		Tokens:    tokens,
		Publisher: pub,
		Now:       clock.Now,
	})
	return agg, counters, tokens, pub, clock
}

func TestAggregator_EmptySnapshot(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator(t)

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.StatsSnapshot{}, snap)
}

func TestAggregator_CountsEvents(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.RecordTokenCreated(ctx))
	require.NoError(t, agg.RecordTrade(ctx))
	require.NoError(t, agg.RecordTrade(ctx))
	require.NoError(t, agg.RecordGraduation(ctx))

	snap, err := agg.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.TokensCreatedSinceStart)
	assert.Equal(t, int64(4), snap.TotalTransactions)
	assert.Equal(t, int64(4), snap.TradesPerSecond)
}

func TestAggregator_AllTransactionKindsFeedWindow(t *testing.T) {
	agg, counters, _, _, _ := newTestAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.RecordTokenCreated(ctx))
	require.NoError(t, agg.RecordTrade(ctx))
	require.NoError(t, agg.RecordGraduation(ctx))

	// Creates and graduations stamp window entries like trades do.
	assert.Equal(t, 3, counters.TradeCount())
}

func TestAggregator_TradesPerSecondWindow(t *testing.T) {
	agg, _, _, _, clock := newTestAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.RecordTrade(ctx))
	require.NoError(t, agg.RecordTrade(ctx))

	// Rate counts only the trailing second.
	clock.Advance(1500 * time.Millisecond)
	require.NoError(t, agg.RecordTrade(ctx))

	snap, err := agg.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.TradesPerSecond)
}

func TestAggregator_PruneWindow(t *testing.T) {
	agg, counters, _, _, clock := newTestAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.RecordTrade(ctx))
	clock.Advance(30 * time.Second)
	require.NoError(t, agg.RecordTrade(ctx))
	clock.Advance(45 * time.Second)

	// First trade is now 75s old, second 45s old.
	require.NoError(t, agg.PruneWindow(ctx))
	assert.Equal(t, 1, counters.TradeCount())
}

func TestAggregator_DBCountCached(t *testing.T) {
	agg, _, tokens, _, clock := newTestAggregator(t)
	ctx := context.Background()

	_, err := tokens.SaveCreateTokenEvent(ctx, &domain.CreateEvent{Mint: "mint1", Signature: "s"})
	require.NoError(t, err)

	snap, err := agg.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.EventsInDB)

	// A second token within the cache window is not seen yet.
	_, err = tokens.SaveCreateTokenEvent(ctx, &domain.CreateEvent{Mint: "mint2", Signature: "s"})
	require.NoError(t, err)

	snap, err = agg.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.EventsInDB)

	// After expiry the count is refreshed.
	clock.Advance(11 * time.Second)
	snap, err = agg.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.EventsInDB)
}

func TestAggregator_PublishSnapshot(t *testing.T) {
	agg, _, _, pub, _ := newTestAggregator(t)
	ctx := context.Background()

	require.NoError(t, agg.RecordTokenCreated(ctx))
	require.NoError(t, agg.PublishSnapshot(ctx))

	msgs := pub.Messages(pubsub.ChannelStatsUpdate)
	require.Len(t, msgs, 1)

	var snap domain.StatsSnapshot
	require.NoError(t, json.Unmarshal(msgs[0], &snap))
	assert.Equal(t, int64(1), snap.TokensCreatedSinceStart)
}

func TestAggregator_RunStopsOnCancel(t *testing.T) {
	agg, _, _, _, _ := newTestAggregator(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		agg.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
