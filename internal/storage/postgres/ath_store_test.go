package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpstream/internal/domain"
	"pumpstream/internal/storage"
)

func testATHRecord(mint string, priceSol float64, slot int64) *domain.ATHRecord {
	return &domain.ATHRecord{
		Mint:      mint,
		PriceSol:  priceSol,
		PriceUsd:  ptr(priceSol * 200),
		Signature: "ath-sig",
		Slot:      slot,
		Timestamp: 1704067200000,
	}
}

func TestATHStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewATHStore(pool)
	ctx := context.Background()

	_, err := store.GetCurrentATH(ctx, "mintA")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	applied, err := store.UpsertCurrentATH(ctx, testATHRecord("mintA", 0.5, 100))
	require.NoError(t, err)
	assert.True(t, applied, "first upsert must apply")

	got, err := store.GetCurrentATH(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.PriceSol)
	require.NotNil(t, got.PriceUsd)
	assert.Equal(t, 100.0, *got.PriceUsd)
}

func TestATHStore_MonotonicGuard(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewATHStore(pool)
	ctx := context.Background()

	applied, err := store.UpsertCurrentATH(ctx, testATHRecord("mintA", 1.0, 100))
	require.NoError(t, err)
	assert.True(t, applied)

	// Lower and equal prices never apply.
	applied, err = store.UpsertCurrentATH(ctx, testATHRecord("mintA", 0.7, 101))
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = store.UpsertCurrentATH(ctx, testATHRecord("mintA", 1.0, 102))
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = store.UpsertCurrentATH(ctx, testATHRecord("mintA", 1.8, 103))
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := store.GetCurrentATH(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 1.8, got.PriceSol)
	assert.Equal(t, int64(103), got.Slot)
}

func TestATHStore_ConcurrentUpsertsSameMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewATHStore(pool)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	appliedCount := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := store.UpsertCurrentATH(ctx, testATHRecord("mintA", 2.0, 200))
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				appliedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, appliedCount, "only one racing writer may win at the same price")

	got, err := store.GetCurrentATH(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.PriceSol)
}

func TestATHStore_History(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewATHStore(pool)
	ctx := context.Background()

	for i, price := range []float64{1.0, 1.5, 2.0} {
		entry := &domain.ATHHistoryEntry{
			Mint:      "mintA",
			PriceSol:  price,
			Signature: "ath-sig",
			Slot:      int64(100 + i),
			Timestamp: int64(1704067200000 + i*1000),
		}
		require.NoError(t, store.InsertATHHistory(ctx, entry))
	}

	history, err := store.GetATHHistory(ctx, "mintA")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 1.0, history[0].PriceSol)
	assert.Equal(t, 2.0, history[2].PriceSol)

	history, err = store.GetATHHistory(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, history)
}
