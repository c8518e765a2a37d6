package sqlite

import (
	"context"
	"testing"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Sqlite {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSqlite(db)
}

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

func TestSqliteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("load on empty table", func(t *testing.T) {
		store := newTestStore(t)

		holdings, err := store.Load(ctx, "ignored")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("upsert then load round trip", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("AAPL", 10)))

		holdings, err := store.Load(ctx, "ignored")
		require.NoError(t, err)
		require.Len(t, holdings, 1)

		got := holdings[0]
		assert.Equal(t, "AAPL", got.Symbol)
		assert.True(t, got.Shares.Equal(decimal.NewFromInt(10)))
		assert.True(t, got.ReferencePrice.Equal(decimal.NewFromFloat(150.5)))
		assert.True(t, got.DividendPerShare.Equal(decimal.NewFromFloat(0.24)))
		assert.Equal(t, model.NextDividendUnknown, got.NextDividendDate)
		assert.Equal(t, model.FrequencyQuarterly, got.DividendFrequency)
	})

	t.Run("upsert replaces the existing row", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("AAPL", 10)))
		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("AAPL", 15)))

		holdings, err := store.Load(ctx, "ignored")
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.True(t, holdings[0].Shares.Equal(decimal.NewFromInt(15)))
	})

	t.Run("load orders by symbol", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("MSFT", 1)))
		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("AAPL", 1)))

		holdings, err := store.Load(ctx, "ignored")
		require.NoError(t, err)
		require.Len(t, holdings, 2)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.Equal(t, "MSFT", holdings[1].Symbol)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := newTestStore(t)

		require.NoError(t, store.Upsert(ctx, "ignored", testHolding("AAPL", 10)))
		require.NoError(t, store.Delete(ctx, "ignored", "AAPL"))
		require.NoError(t, store.Delete(ctx, "ignored", "AAPL"))

		holdings, err := store.Load(ctx, "ignored")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
