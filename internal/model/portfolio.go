package model

import (
	"github.com/shopspring/decimal"
)

// PortfolioHolding is a ledger entry representing accumulated shares of one symbol.
type PortfolioHolding struct {
	Symbol            string            `json:"symbol"`
	Shares            decimal.Decimal   `json:"shares"`
	ReferencePrice    decimal.Decimal   `json:"referencePrice"`
	DividendPerShare  decimal.Decimal   `json:"dividendPerShare"`
	NextDividendDate  string            `json:"nextDividendDate"`
	DividendFrequency DividendFrequency `json:"dividendFrequency"`
}

func (h PortfolioHolding) MarketValue() decimal.Decimal {
	return h.Shares.Mul(h.ReferencePrice)
}

func (h PortfolioHolding) ProjectedAnnualDividend() decimal.Decimal {
	mult := h.DividendFrequency.AnnualMultiplier()
	if mult == 0 {
		return decimal.Zero
	}
	return h.Shares.Mul(h.DividendPerShare).Mul(decimal.NewFromInt(mult))
}

type PortfolioSummary struct {
	TotalValue              decimal.Decimal `json:"totalValue"`
	ProjectedAnnualDividend decimal.Decimal `json:"projectedAnnualDividend"`
	HoldingsCount           int             `json:"holdingsCount"`
}

// DistributionSlice is one holding's share of the whole portfolio value.
type DistributionSlice struct {
	Symbol  string          `json:"symbol"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

type PortfolioView struct {
	Summary      PortfolioSummary    `json:"summary"`
	Holdings     []PortfolioHolding  `json:"holdings"`
	Distribution []DistributionSlice `json:"distribution"`
}
