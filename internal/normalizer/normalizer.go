// Package normalizer converts vendor-specific market data responses into the
// canonical model.StockSnapshot. One entry point per vendor shape, all feeding
// the same builder: price series forced to ascending chronological order,
// latest price derived from the last point, dividend fields classified or
// synthesized.
package normalizer

import (
	"sort"
	"strings"
	"time"

	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/model/docModel"
	"github.com/hellix17/cosmic-tracker/internal/model/finnhubModel"
	"github.com/hellix17/cosmic-tracker/internal/model/yahooModel"
	"github.com/shopspring/decimal"
)

const isoDate = "2006-01-02"

// syntheticYield is the placeholder policy applied when no dividend feed is
// available: 2% of the latest close, paid quarterly. It is not a live yield;
// it was carried over from the first prototypes for output compatibility.
var syntheticYield = decimal.NewFromFloat(0.02)

// FromFinnhub builds a snapshot from the flat-array Finnhub feed. The quote
// and profile identify the symbol, candles supply the history and the
// dividend list (newest first) supplies payment dates and amounts.
func FromFinnhub(
	symbol string,
	quote finnhubModel.Quote,
	profile finnhubModel.CompanyProfile,
	candles finnhubModel.Candles,
	dividends []finnhubModel.Dividend,
) (model.StockSnapshot, error) {
	symbol = canonicalSymbol(symbol)

	// an empty profile object is finnhub's "unknown symbol" answer
	if profile.Name == "" && profile.Ticker == "" {
		return model.StockSnapshot{}, ErrInvalidSymbol
	}

	points := make([]model.PricePoint, 0, len(candles.Close))
	for i, closePrice := range candles.Close {
		if i >= len(candles.Timestamps) || closePrice == 0 {
			continue
		}
		points = append(points, model.PricePoint{
			Timestamp: time.Unix(candles.Timestamps[i], 0).UTC(),
			Close:     decimal.NewFromFloat(closePrice),
		})
	}

	snap, err := buildSnapshot(symbol, profile.Name, points)
	if err != nil {
		return model.StockSnapshot{}, err
	}

	applyDividends(&snap, dividendEventsFromFinnhub(dividends))

	return snap, nil
}

// FromYahooChart builds a snapshot from the nested Yahoo v8 chart envelope.
// Yahoo carries no dividend feed here, so the synthetic fallback always applies.
func FromYahooChart(resp yahooModel.ChartResponse) (model.StockSnapshot, error) {
	if len(resp.Chart.Result) == 0 {
		return model.StockSnapshot{}, ErrInvalidSymbol
	}

	result := resp.Chart.Result[0]
	symbol := canonicalSymbol(result.Meta.Symbol)
	if symbol == "" {
		return model.StockSnapshot{}, ErrInvalidSymbol
	}

	if len(result.Indicators.Quote) == 0 {
		return model.StockSnapshot{}, ErrDataUnavailable
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]model.PricePoint, 0, len(closes))
	for i, closePrice := range closes {
		if i >= len(result.Timestamp) || closePrice == 0 {
			continue
		}
		points = append(points, model.PricePoint{
			Timestamp: time.Unix(result.Timestamp[i], 0).UTC(),
			Close:     decimal.NewFromFloat(closePrice),
		})
	}

	snap, err := buildSnapshot(symbol, result.Meta.LongName, points)
	if err != nil {
		return model.StockSnapshot{}, err
	}

	applyDividends(&snap, nil)

	return snap, nil
}

// FromStockDocument builds a snapshot from the cached row-store document the
// early prototypes persisted. Its chart section arrives newest-first.
func FromStockDocument(doc docModel.StockDocument) (model.StockSnapshot, error) {
	symbol := canonicalSymbol(doc.Symbol)
	if symbol == "" {
		return model.StockSnapshot{}, ErrInvalidSymbol
	}

	name := doc.Price.LongName
	if name == "" {
		name = doc.Price.ShortName
	}

	var points []model.PricePoint
	if len(doc.Chart.Result) > 0 && len(doc.Chart.Result[0].Indicators.Quote) > 0 {
		result := doc.Chart.Result[0]
		closes := result.Indicators.Quote[0].Close
		points = make([]model.PricePoint, 0, len(closes))
		for i, closePrice := range closes {
			if i >= len(result.Timestamp) || closePrice == 0 {
				continue
			}
			points = append(points, model.PricePoint{
				Timestamp: time.Unix(result.Timestamp[i], 0).UTC(),
				Close:     decimal.NewFromFloat(closePrice),
			})
		}
	}

	snap, err := buildSnapshot(symbol, name, points)
	if err != nil {
		return model.StockSnapshot{}, err
	}

	applyDividends(&snap, dividendEventsFromDoc(doc.DividendHistory))

	return snap, nil
}

// buildSnapshot validates and orders the price series and fills the identity
// fields. Dividend fields are left for applyDividends.
func buildSnapshot(symbol, companyName string, points []model.PricePoint) (model.StockSnapshot, error) {
	if len(points) == 0 {
		return model.StockSnapshot{}, ErrDataUnavailable
	}

	// vendors disagree on ordering; charts and latest-price derivation
	// both require ascending
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	if companyName == "" {
		companyName = symbol
	}

	return model.StockSnapshot{
		Symbol:      symbol,
		CompanyName: companyName,
		PricePoints: points,
		LatestPrice: points[len(points)-1].Close,
	}, nil
}

type dividendEvent struct {
	date    time.Time
	payDate time.Time
	amount  decimal.Decimal
}

// applyDividends fills the dividend fields from past payment events, or falls
// back to the synthetic quarterly placeholder when no feed is available.
func applyDividends(snap *model.StockSnapshot, events []dividendEvent) {
	if len(events) == 0 {
		snap.DividendPerShare = synthesizeQuarterlyDividend(snap.LatestPrice)
		snap.NextDividendDate = model.NextDividendUnknown
		snap.DividendFrequency = model.FrequencyQuarterly
		return
	}

	// newest first for the classifier
	sort.Slice(events, func(i, j int) bool {
		return events[i].date.After(events[j].date)
	})

	dates := make([]time.Time, 0, len(events))
	for _, ev := range events {
		dates = append(dates, ev.date)
	}

	snap.DividendPerShare = events[0].amount
	snap.DividendFrequency = ClassifyFrequency(dates)
	snap.NextDividendDate = nextPayDate(events)
}

// synthesizeQuarterlyDividend is the supply-unknown placeholder path: 2% of
// the latest close divided over four payments. A real dividend feed should
// replace it.
func synthesizeQuarterlyDividend(latestPrice decimal.Decimal) decimal.Decimal {
	return latestPrice.Mul(syntheticYield).Div(decimal.NewFromInt(4))
}

func nextPayDate(events []dividendEvent) string {
	now := time.Now().UTC()
	next := time.Time{}
	for _, ev := range events {
		if ev.payDate.IsZero() || !ev.payDate.After(now) {
			continue
		}
		if next.IsZero() || ev.payDate.Before(next) {
			next = ev.payDate
		}
	}
	if next.IsZero() {
		return model.NextDividendUnknown
	}
	return next.Format(isoDate)
}

func dividendEventsFromFinnhub(dividends []finnhubModel.Dividend) []dividendEvent {
	events := make([]dividendEvent, 0, len(dividends))
	for _, d := range dividends {
		date, err := time.Parse(isoDate, d.Date)
		if err != nil {
			continue
		}
		ev := dividendEvent{date: date, amount: decimal.NewFromFloat(d.Amount)}
		if payDate, err := time.Parse(isoDate, d.PayDate); err == nil {
			ev.payDate = payDate
		}
		events = append(events, ev)
	}
	return events
}

func dividendEventsFromDoc(history []docModel.DividendEvent) []dividendEvent {
	events := make([]dividendEvent, 0, len(history))
	for _, d := range history {
		date, err := time.Parse(isoDate, d.Date)
		if err != nil {
			continue
		}
		events = append(events, dividendEvent{date: date, amount: decimal.NewFromFloat(d.Amount)})
	}
	return events
}

func canonicalSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
