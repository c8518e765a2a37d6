package postgres

import (
	"context"
	"testing"

	"github.com/hellix17/cosmic-tracker/data/repository"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHolding(symbol string, shares int64) model.PortfolioHolding {
	return model.PortfolioHolding{
		Symbol:            symbol,
		Shares:            decimal.NewFromInt(shares),
		ReferencePrice:    decimal.NewFromFloat(150.5),
		DividendPerShare:  decimal.NewFromFloat(0.24),
		NextDividendDate:  model.NextDividendUnknown,
		DividendFrequency: model.FrequencyQuarterly,
	}
}

func TestHoldingsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	store := setupTestStore(t)
	defer store.cleanup(t)

	t.Run("load on empty table", func(t *testing.T) {
		store.truncateAll(t)

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("upsert then load round trip", func(t *testing.T) {
		store.truncateAll(t)

		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 10)))

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, holdings, 1)

		got := holdings[0]
		assert.Equal(t, "AAPL", got.Symbol)
		assert.True(t, got.Shares.Equal(decimal.NewFromInt(10)))
		assert.True(t, got.ReferencePrice.Equal(decimal.NewFromFloat(150.5)))
		assert.Equal(t, model.FrequencyQuarterly, got.DividendFrequency)
	})

	t.Run("upsert replaces the existing row", func(t *testing.T) {
		store.truncateAll(t)

		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 10)))
		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 15)))

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.True(t, holdings[0].Shares.Equal(decimal.NewFromInt(15)))
	})

	t.Run("holdings are scoped per user", func(t *testing.T) {
		store.truncateAll(t)

		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 10)))
		require.NoError(t, store.Upsert(ctx, "user-2", testHolding("MSFT", 5)))

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
	})

	t.Run("get holding", func(t *testing.T) {
		store.truncateAll(t)

		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 10)))

		holding, err := store.GetHolding(ctx, "user-1", "AAPL")
		require.NoError(t, err)
		assert.True(t, holding.Shares.Equal(decimal.NewFromInt(10)))

		_, err = store.GetHolding(ctx, "user-1", "MSFT")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store.truncateAll(t)

		require.NoError(t, store.Upsert(ctx, "user-1", testHolding("AAPL", 10)))
		require.NoError(t, store.Delete(ctx, "user-1", "AAPL"))
		require.NoError(t, store.Delete(ctx, "user-1", "AAPL"))

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("load ends a transaction consistently", func(t *testing.T) {
		store.truncateAll(t)

		err := store.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := store.Upsert(txCtx, "user-1", testHolding("AAPL", 10)); err != nil {
				return err
			}
			return store.Upsert(txCtx, "user-1", testHolding("MSFT", 5))
		})
		require.NoError(t, err)

		holdings, err := store.Load(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, holdings, 2)
	})
}
