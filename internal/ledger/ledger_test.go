package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	holdings map[string]model.PortfolioHolding
	failNext error
}

func newFakeStore() *fakeStore {
	return &fakeStore{holdings: make(map[string]model.PortfolioHolding)}
}

func (s *fakeStore) Load(_ context.Context, _ string) ([]model.PortfolioHolding, error) {
	if s.failNext != nil {
		return nil, s.failNext
	}
	out := make([]model.PortfolioHolding, 0, len(s.holdings))
	for _, h := range s.holdings {
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeStore) Upsert(_ context.Context, _ string, holding model.PortfolioHolding) error {
	if s.failNext != nil {
		return s.failNext
	}
	s.holdings[holding.Symbol] = holding
	return nil
}

func (s *fakeStore) Delete(_ context.Context, _ string, symbol string) error {
	if s.failNext != nil {
		return s.failNext
	}
	delete(s.holdings, symbol)
	return nil
}

func snapshot(symbol string, price float64, dividend float64, freq model.DividendFrequency) model.StockSnapshot {
	return model.StockSnapshot{
		Symbol:            symbol,
		CompanyName:       symbol,
		LatestPrice:       decimal.NewFromFloat(price),
		DividendPerShare:  decimal.NewFromFloat(dividend),
		NextDividendDate:  model.NextDividendUnknown,
		DividendFrequency: freq,
	}
}

func newTestLedger(t *testing.T) (*Ledger, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	l, err := Load(context.Background(), "user-1", store)
	require.NoError(t, err)
	return l, store
}

func TestAddOrIncrease(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive delta", func(t *testing.T) {
		l, _ := newTestLedger(t)

		_, err := l.AddOrIncrease(ctx, decimal.Zero, snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		assert.ErrorIs(t, err, ErrInvalidShareCount)

		_, err = l.AddOrIncrease(ctx, decimal.NewFromInt(-5), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		assert.ErrorIs(t, err, ErrInvalidShareCount)
	})

	t.Run("creates a new holding", func(t *testing.T) {
		l, store := newTestLedger(t)

		holding, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("aapl", 150, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)

		assert.Equal(t, "AAPL", holding.Symbol)
		assert.Equal(t, "10", holding.Shares.String())
		assert.Equal(t, "150", holding.ReferencePrice.String())

		stored, ok := store.holdings["AAPL"]
		require.True(t, ok)
		assert.Equal(t, "10", stored.Shares.String())
	})

	t.Run("repeat add sums shares and overwrites reference price", func(t *testing.T) {
		l, _ := newTestLedger(t)

		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)

		holding, err := l.AddOrIncrease(ctx, decimal.NewFromInt(5), snapshot("AAPL", 160, 0.25, model.FrequencyQuarterly))
		require.NoError(t, err)

		assert.Equal(t, "15", holding.Shares.String())
		assert.Equal(t, "160", holding.ReferencePrice.String())
		assert.Equal(t, "0.25", holding.DividendPerShare.String())
	})

	t.Run("store failure leaves the ledger unchanged", func(t *testing.T) {
		l, store := newTestLedger(t)
		storeErr := errors.New("connection refused")
		store.failNext = storeErr

		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		assert.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, storeErr)

		_, ok := l.Holding("AAPL")
		assert.False(t, ok)
	})
}

func TestSetShares(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the count leaving price untouched", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)

		require.NoError(t, l.SetShares(ctx, "AAPL", decimal.NewFromInt(3)))

		holding, ok := l.Holding("AAPL")
		require.True(t, ok)
		assert.Equal(t, "3", holding.Shares.String())
		assert.Equal(t, "150", holding.ReferencePrice.String())
	})

	t.Run("zero or negative removes the holding", func(t *testing.T) {
		l, store := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)

		require.NoError(t, l.SetShares(ctx, "AAPL", decimal.Zero))

		_, ok := l.Holding("AAPL")
		assert.False(t, ok)
		_, ok = store.holdings["AAPL"]
		assert.False(t, ok)
	})

	t.Run("missing symbol with positive count", func(t *testing.T) {
		l, _ := newTestLedger(t)
		assert.ErrorIs(t, l.SetShares(ctx, "AAPL", decimal.NewFromInt(3)), ErrHoldingNotFound)
	})

	t.Run("missing symbol with zero count is a no-op", func(t *testing.T) {
		l, _ := newTestLedger(t)
		assert.NoError(t, l.SetShares(ctx, "AAPL", decimal.Zero))
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	l, store := newTestLedger(t)
	_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
	require.NoError(t, err)

	require.NoError(t, l.Remove(ctx, "aapl"))
	_, ok := l.Holding("AAPL")
	assert.False(t, ok)
	_, ok = store.holdings["AAPL"]
	assert.False(t, ok)

	// removing again stays silent
	assert.NoError(t, l.Remove(ctx, "AAPL"))
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()

	t.Run("empty portfolio reports zeroes", func(t *testing.T) {
		l, _ := newTestLedger(t)

		assert.True(t, l.TotalValue().IsZero())
		assert.True(t, l.TotalProjectedAnnualDividend().IsZero())
		assert.Empty(t, l.Distribution())
		assert.Equal(t, 0, l.Summary().HoldingsCount)
	})

	t.Run("total value sums shares times reference price", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(2), snapshot("AAPL", 149, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)

		assert.Equal(t, "298", l.TotalValue().String())
	})

	t.Run("projected annual dividend applies frequency multiplier", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("O", 55, 0.26, model.FrequencyMonthly))
		require.NoError(t, err)
		_, err = l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("AAPL", 150, 0.24, model.FrequencyQuarterly))
		require.NoError(t, err)
		_, err = l.AddOrIncrease(ctx, decimal.NewFromInt(10), snapshot("XX", 20, 1.0, model.FrequencyUnknown))
		require.NoError(t, err)

		// 10*0.26*12 + 10*0.24*4 + nothing for unknown
		assert.Equal(t, "40.8", l.TotalProjectedAnnualDividend().String())
	})

	t.Run("distribution percentages sum to 100", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(1), snapshot("AAPL", 300, 0, model.FrequencyUnknown))
		require.NoError(t, err)
		_, err = l.AddOrIncrease(ctx, decimal.NewFromInt(1), snapshot("MSFT", 100, 0, model.FrequencyUnknown))
		require.NoError(t, err)

		dist := l.Distribution()
		require.Len(t, dist, 2)
		assert.Equal(t, "AAPL", dist[0].Symbol)
		assert.Equal(t, "75", dist[0].Percent.String())
		assert.Equal(t, "MSFT", dist[1].Symbol)
		assert.Equal(t, "25", dist[1].Percent.String())
	})

	t.Run("zero total value yields zero percentages", func(t *testing.T) {
		l, _ := newTestLedger(t)
		_, err := l.AddOrIncrease(ctx, decimal.NewFromInt(5), snapshot("XYZ", 0, 0, model.FrequencyUnknown))
		require.NoError(t, err)

		dist := l.Distribution()
		require.Len(t, dist, 1)
		assert.True(t, dist[0].Percent.IsZero())
	})
}

func TestLoadSeedsFromStore(t *testing.T) {
	store := newFakeStore()
	store.holdings["AAPL"] = model.PortfolioHolding{
		Symbol:            "AAPL",
		Shares:            decimal.NewFromInt(7),
		ReferencePrice:    decimal.NewFromInt(150),
		DividendFrequency: model.FrequencyQuarterly,
	}

	l, err := Load(context.Background(), "user-1", store)
	require.NoError(t, err)

	holding, ok := l.Holding("AAPL")
	require.True(t, ok)
	assert.Equal(t, "7", holding.Shares.String())
}

func TestLoadStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failNext = errors.New("connection refused")

	_, err := Load(context.Background(), "user-1", store)
	assert.ErrorIs(t, err, ErrStoreFailure)
}
