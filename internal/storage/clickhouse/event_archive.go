package clickhouse

import (
	"context"
	"fmt"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

// EventArchive implements storage.EventArchive on top of ClickHouse.
// MergeTree tolerates duplicate rows, so retried jobs are safe to re-archive.
type EventArchive struct {
	conn *Conn
}

// NewEventArchive creates a new EventArchive.
func NewEventArchive(conn *Conn) *EventArchive {
	return &EventArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.EventArchive = (*EventArchive)(nil)

// ArchiveTrade appends one trade row.
func (a *EventArchive) ArchiveTrade(ctx context.Context, ev *domain.TradeEvent) error {
	if ev == nil || ev.Mint == "" {
		return storage.ErrInvalidInput
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO trade_archive (
			mint, action, user_address, sol_amount, token_amount,
			virtual_sol_reserves, virtual_token_reserves,
			signature, slot, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare trade batch: %w", err)
	}

	err = batch.Append(
		ev.Mint, string(ev.Action), ev.User,
		ev.SolAmount, ev.TokenAmount,
		ev.VirtualSolReserves, ev.VirtualTokenReserves,
		ev.Signature, uint64(ev.Slot), uint64(ev.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append trade: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send trade batch: %w", err)
	}
	return nil
}

// ArchiveGraduation appends one graduation row.
func (a *EventArchive) ArchiveGraduation(ctx context.Context, ev *domain.GraduationEvent) error {
	if ev == nil || ev.TokenMint == "" {
		return storage.ErrInvalidInput
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO graduation_archive (
			mint, bonding_curve, pool_authority, wsol_mint,
			lamports, sol_amount, signature, slot, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare graduation batch: %w", err)
	}

	err = batch.Append(
		ev.TokenMint, ev.BondingCurve, ev.PoolAuthority, ev.WSOLMint,
		ev.Lamports, ev.SolAmount,
		ev.Signature, uint64(ev.Slot), uint64(ev.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append graduation: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send graduation batch: %w", err)
	}
	return nil
}
