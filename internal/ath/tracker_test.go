package ath

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpstream/internal/domain"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/pubsub/stub"
	"pumpstream/internal/storage/memory"
)

func tradeWithReserves(mint string, vSol, vTok float64, slot int64) *domain.TradeEvent {
	return &domain.TradeEvent{
		Mint:                 mint,
		Action:               domain.ActionBuy,
		VirtualSolReserves:   vSol,
		VirtualTokenReserves: vTok,
		Signature:            "sig",
		Slot:                 slot,
		Timestamp:            1704067200000,
		Complete:             true,
	}
}

func TestTracker_FirstTradeSetsATH(t *testing.T) {
	store := memory.NewATHStore()
	pub := stub.NewPublisher()
	tracker := NewTracker(store, pub, 200, nil)
	ctx := context.Background()

	// 30 SOL / 1e9 tokens = 3e-8 SOL per token, 0.03 SOL per million.
	err := tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 30, 1e9, 100))
	require.NoError(t, err)

	rec, err := store.GetCurrentATH(ctx, "mint1")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, rec.PriceSol, 1e-12)
	require.NotNil(t, rec.PriceUsd)
	assert.InDelta(t, 6.0, *rec.PriceUsd, 1e-9)

	msgs := pub.Messages(pubsub.ChannelTokenATHUpdated)
	require.Len(t, msgs, 1)

	var update Update
	require.NoError(t, json.Unmarshal(msgs[0], &update))
	assert.Equal(t, "mint1", update.Mint)
	assert.InDelta(t, 0.03, update.PriceSol, 1e-12)
	assert.Equal(t, "$6.00", update.FormattedUsd)

	require.Len(t, store.HistoryForMint("mint1"), 1)
}

func TestTracker_LowerPriceDoesNotPublish(t *testing.T) {
	store := memory.NewATHStore()
	pub := stub.NewPublisher()
	tracker := NewTracker(store, pub, 200, nil)
	ctx := context.Background()

	require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 40, 1e9, 100)))
	require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 35, 1e9, 101)))

	assert.Equal(t, 1, pub.Count(pubsub.ChannelTokenATHUpdated))
	assert.Len(t, store.HistoryForMint("mint1"), 1)

	rec, err := store.GetCurrentATH(ctx, "mint1")
	require.NoError(t, err)
	assert.InDelta(t, 0.04, rec.PriceSol, 1e-12)
}

func TestTracker_RisingPricesAccumulateHistory(t *testing.T) {
	store := memory.NewATHStore()
	pub := stub.NewPublisher()
	tracker := NewTracker(store, pub, 200, nil)
	ctx := context.Background()

	for i, vSol := range []float64{30, 32, 36} {
		require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", vSol, 1e9, int64(100+i))))
	}

	assert.Equal(t, 3, pub.Count(pubsub.ChannelTokenATHUpdated))
	assert.Len(t, store.HistoryForMint("mint1"), 3)
}

func TestTracker_ZeroReservesIgnored(t *testing.T) {
	store := memory.NewATHStore()
	pub := stub.NewPublisher()
	tracker := NewTracker(store, pub, 200, nil)
	ctx := context.Background()

	require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 30, 0, 100)))
	require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 0, 1e9, 101)))

	_, err := store.GetCurrentATH(ctx, "mint1")
	assert.Error(t, err)
	assert.Equal(t, 0, pub.Count(pubsub.ChannelTokenATHUpdated))
}

func TestTracker_NoUsdRate(t *testing.T) {
	store := memory.NewATHStore()
	pub := stub.NewPublisher()
	tracker := NewTracker(store, pub, 0, nil)
	ctx := context.Background()

	require.NoError(t, tracker.ObserveTrade(ctx, tradeWithReserves("mint1", 30, 1e9, 100)))

	rec, err := store.GetCurrentATH(ctx, "mint1")
	require.NoError(t, err)
	assert.Nil(t, rec.PriceUsd)

	msgs := pub.Messages(pubsub.ChannelTokenATHUpdated)
	require.Len(t, msgs, 1)
	assert.NotContains(t, string(msgs[0]), "priceUsd")
}

func TestFormatUsd(t *testing.T) {
	assert.Equal(t, "$6.00", formatUsd(6.0))
	assert.Equal(t, "$0.02", formatUsd(0.021))
	assert.Equal(t, "$0.0000123", formatUsd(0.0000123))
	assert.Equal(t, "$0", formatUsd(0))
}
