// Package ledger owns the in-memory portfolio state for one user session.
// Every mutation is written through to the backing store before it is
// committed to memory, so the durable copy never lags the session view.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// minShares is the smallest accepted position or delta (fractional shares allowed).
var minShares = decimal.NewFromFloat(0.01)

var percentScale = decimal.NewFromInt(100)

// Store is the persistence collaborator. It may be a remote per-user table or
// a local single-user file; the ledger behaves identically against either.
type Store interface {
	Load(ctx context.Context, userID string) ([]model.PortfolioHolding, error)
	Upsert(ctx context.Context, userID string, holding model.PortfolioHolding) error
	Delete(ctx context.Context, userID string, symbol string) error
}

// Ledger maps symbol to holding for one user. Operations are compound
// read-modify-write on the map, so a single mutex guards all of them.
type Ledger struct {
	mu       sync.Mutex
	userID   string
	store    Store
	holdings map[string]model.PortfolioHolding
}

// Load constructs a ledger seeded from the store. Called once at session start.
func Load(ctx context.Context, userID string, store Store) (*Ledger, error) {
	stored, err := store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	holdings := make(map[string]model.PortfolioHolding, len(stored))
	for _, h := range stored {
		h.Symbol = canonicalSymbol(h.Symbol)
		holdings[h.Symbol] = h
	}

	return &Ledger{userID: userID, store: store, holdings: holdings}, nil
}

// AddOrIncrease merges a purchase into the ledger. For an existing symbol the
// share counts add up while the reference price and dividend fields are
// overwritten with the incoming snapshot's values (latest-trade policy, not
// average cost basis). Rejects non-positive deltas.
func (l *Ledger) AddOrIncrease(ctx context.Context, sharesDelta decimal.Decimal, snap model.StockSnapshot) (model.PortfolioHolding, error) {
	if sharesDelta.LessThan(minShares) {
		return model.PortfolioHolding{}, ErrInvalidShareCount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	symbol := canonicalSymbol(snap.Symbol)

	holding := model.PortfolioHolding{
		Symbol:            symbol,
		Shares:            sharesDelta,
		ReferencePrice:    snap.LatestPrice,
		DividendPerShare:  snap.DividendPerShare,
		NextDividendDate:  snap.NextDividendDate,
		DividendFrequency: snap.DividendFrequency,
	}

	if existing, ok := l.holdings[symbol]; ok {
		holding.Shares = existing.Shares.Add(sharesDelta)
	}

	if err := l.store.Upsert(ctx, l.userID, holding); err != nil {
		return model.PortfolioHolding{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	l.holdings[symbol] = holding

	return holding, nil
}

// SetShares replaces the share count in place, leaving price and dividend
// fields untouched. A count at or below zero deletes the holding.
func (l *Ledger) SetShares(ctx context.Context, symbol string, shares decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol = canonicalSymbol(symbol)

	if shares.LessThanOrEqual(decimal.Zero) {
		return l.deleteLocked(ctx, symbol)
	}

	holding, ok := l.holdings[symbol]
	if !ok {
		return ErrHoldingNotFound
	}

	holding.Shares = shares

	if err := l.store.Upsert(ctx, l.userID, holding); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	l.holdings[symbol] = holding

	return nil
}

// Remove deletes the holding if present. Removing an absent symbol is a no-op.
func (l *Ledger) Remove(ctx context.Context, symbol string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.deleteLocked(ctx, canonicalSymbol(symbol))
}

func (l *Ledger) deleteLocked(ctx context.Context, symbol string) error {
	if _, ok := l.holdings[symbol]; !ok {
		return nil
	}

	if err := l.store.Delete(ctx, l.userID, symbol); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	delete(l.holdings, symbol)

	return nil
}

// Holding returns one entry by symbol.
func (l *Ledger) Holding(symbol string) (model.PortfolioHolding, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.holdings[canonicalSymbol(symbol)]
	return h, ok
}

// Holdings returns all entries ordered by symbol.
func (l *Ledger) Holdings() []model.PortfolioHolding {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.holdingsLocked()
}

func (l *Ledger) holdingsLocked() []model.PortfolioHolding {
	holdings := make([]model.PortfolioHolding, 0, len(l.holdings))
	for _, h := range l.holdings {
		holdings = append(holdings, h)
	}

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})

	return holdings
}

// TotalValue is recomputed on every call, never cached across mutations.
func (l *Ledger) TotalValue() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.totalValueLocked()
}

func (l *Ledger) totalValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, h := range l.holdings {
		total = total.Add(h.MarketValue())
	}
	return total
}

// TotalProjectedAnnualDividend sums shares × dividend-per-share × frequency
// multiplier over all holdings. Unknown frequency contributes nothing.
func (l *Ledger) TotalProjectedAnnualDividend() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, h := range l.holdings {
		total = total.Add(h.ProjectedAnnualDividend())
	}
	return total
}

// Distribution returns each holding's percentage of total portfolio value,
// ordered by symbol. When the total is zero every slice reports 0% so that
// no division-by-zero artifact reaches presentation.
func (l *Ledger) Distribution() []model.DistributionSlice {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.totalValueLocked()

	slices := make([]model.DistributionSlice, 0, len(l.holdings))
	for _, h := range l.holdingsLocked() {
		value := h.MarketValue()
		percent := decimal.Zero
		if !total.IsZero() {
			percent = value.Div(total).Mul(percentScale)
		}
		slices = append(slices, model.DistributionSlice{
			Symbol:  h.Symbol,
			Value:   value,
			Percent: percent,
		})
	}

	return slices
}

// Summary bundles the derived aggregates for presentation.
func (l *Ledger) Summary() model.PortfolioSummary {
	return model.PortfolioSummary{
		TotalValue:              l.TotalValue(),
		ProjectedAnnualDividend: l.TotalProjectedAnnualDividend(),
		HoldingsCount:           len(l.Holdings()),
	}
}

func canonicalSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
