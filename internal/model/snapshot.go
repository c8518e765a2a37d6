package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NextDividendUnknown is the sentinel stored when no upcoming payment date is known.
const NextDividendUnknown = "unknown"

type DividendFrequency string

const (
	FrequencyMonthly      DividendFrequency = "monthly"
	FrequencyQuarterly    DividendFrequency = "quarterly"
	FrequencySemiAnnually DividendFrequency = "semi-annually"
	FrequencyAnnually     DividendFrequency = "annually"
	FrequencyUnknown      DividendFrequency = "unknown"
)

// AnnualMultiplier converts a per-payment dividend amount into an annualized projection.
func (f DividendFrequency) AnnualMultiplier() int64 {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencySemiAnnually:
		return 2
	case FrequencyAnnually:
		return 1
	default:
		return 0
	}
}

type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Close     decimal.Decimal `json:"close"`
}

// StockSnapshot is one normalized quote+history+dividend result for a symbol.
// It is immutable once built: constructed by the normalizer, consumed into a
// ledger holding or discarded on the next search.
type StockSnapshot struct {
	Symbol            string            `json:"symbol"`
	CompanyName       string            `json:"companyName"`
	PricePoints       []PricePoint      `json:"pricePoints"`
	LatestPrice       decimal.Decimal   `json:"latestPrice"`
	DividendPerShare  decimal.Decimal   `json:"dividendPerShare"`
	NextDividendDate  string            `json:"nextDividendDate"`
	DividendFrequency DividendFrequency `json:"dividendFrequency"`
}

type SearchMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}
