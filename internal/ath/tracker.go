// Package ath maintains per-token all-time-high prices derived from
// bonding-curve trades.
package ath

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pumpstream/internal/domain"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/storage"
)

// tokensPerUnit converts the reserve ratio into a per-million-token price.
const tokensPerUnit = 1e6

// Update is the payload published on token:athUpdated when a trade sets a
// new maximum.
type Update struct {
	Mint         string   `json:"mint"`
	PriceSol     float64  `json:"priceSol"`
	PriceUsd     *float64 `json:"priceUsd,omitempty"`
	FormattedUsd string   `json:"formattedUsd,omitempty"`
	Timestamp    int64    `json:"timestamp"`
}

// Tracker derives spot prices from trade reserve snapshots and records new
// maxima. The store performs the compare-and-set, so concurrent trades for
// one mint cannot regress the maximum.
type Tracker struct {
	store      storage.ATHStore
	publisher  pubsub.Publisher
	solUsdRate float64
	logger     *zap.Logger
}

// NewTracker creates a Tracker. solUsdRate of zero disables USD prices.
func NewTracker(store storage.ATHStore, publisher pubsub.Publisher, solUsdRate float64, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:      store,
		publisher:  publisher,
		solUsdRate: solUsdRate,
		logger:     logger,
	}
}

// ObserveTrade checks whether ev sets a new maximum for its mint and, if so,
// persists it and publishes an Update. Trades with empty or zero reserve
// snapshots carry no price information and are ignored.
func (t *Tracker) ObserveTrade(ctx context.Context, ev *domain.TradeEvent) error {
	if ev == nil || ev.Mint == "" {
		return nil
	}
	if ev.VirtualSolReserves <= 0 || ev.VirtualTokenReserves <= 0 {
		return nil
	}

	priceSol := ev.VirtualSolReserves / ev.VirtualTokenReserves * tokensPerUnit

	rec := &domain.ATHRecord{
		Mint:      ev.Mint,
		PriceSol:  priceSol,
		Signature: ev.Signature,
		Slot:      ev.Slot,
		Timestamp: ev.Timestamp,
	}
	if t.solUsdRate > 0 {
		usd := priceSol * t.solUsdRate
		rec.PriceUsd = &usd
	}

	applied, err := t.store.UpsertCurrentATH(ctx, rec)
	if err != nil {
		return fmt.Errorf("upsert ath for %s: %w", ev.Mint, err)
	}
	if !applied {
		return nil
	}

	entry := &domain.ATHHistoryEntry{
		Mint:      rec.Mint,
		PriceSol:  rec.PriceSol,
		Signature: rec.Signature,
		Slot:      rec.Slot,
		Timestamp: rec.Timestamp,
	}
	if err := t.store.InsertATHHistory(ctx, entry); err != nil {
		return fmt.Errorf("insert ath history for %s: %w", ev.Mint, err)
	}

	update := Update{
		Mint:      rec.Mint,
		PriceSol:  rec.PriceSol,
		PriceUsd:  rec.PriceUsd,
		Timestamp: rec.Timestamp,
	}
	if rec.PriceUsd != nil {
		update.FormattedUsd = formatUsd(*rec.PriceUsd)
	}

	if err := t.publisher.Publish(ctx, pubsub.ChannelTokenATHUpdated, update); err != nil {
		return fmt.Errorf("publish ath update for %s: %w", ev.Mint, err)
	}

	t.logger.Debug("new all-time high",
		zap.String("mint", rec.Mint),
		zap.Float64("price_sol", rec.PriceSol))
	return nil
}

// formatUsd renders a USD price for display. Micro-cap token prices need
// more precision than the usual two decimals.
func formatUsd(v float64) string {
	if v >= 0.01 {
		return fmt.Sprintf("$%.2f", v)
	}
	s := strings.TrimRight(fmt.Sprintf("%.10f", v), "0")
	s = strings.TrimSuffix(s, ".")
	return "$" + s
}
