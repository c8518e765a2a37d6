package trackerService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hellix17/cosmic-tracker/internal/externalApi"
	"github.com/hellix17/cosmic-tracker/internal/ledger"
	"github.com/hellix17/cosmic-tracker/internal/model"
	"github.com/hellix17/cosmic-tracker/internal/model/finnhubModel"
	"github.com/hellix17/cosmic-tracker/internal/model/yahooModel"
	"github.com/hellix17/cosmic-tracker/internal/normalizer"
	"github.com/hellix17/cosmic-tracker/internal/service"
	"github.com/hellix17/cosmic-tracker/utils"
	"github.com/shopspring/decimal"
)

const (
	historyYears  = 1
	dividendYears = 3

	yahooChartRange    = "1y"
	yahooChartInterval = "1d"
)

type MarketApi interface {
	GetQuote(ctx context.Context, symbol string) (finnhubModel.Quote, error)
	GetCompanyProfile(ctx context.Context, symbol string) (finnhubModel.CompanyProfile, error)
	GetCandles(ctx context.Context, symbol string, from, to time.Time) (finnhubModel.Candles, error)
	GetDividends(ctx context.Context, symbol string, from, to time.Time) ([]finnhubModel.Dividend, error)
	SearchStocks(ctx context.Context, query string) ([]finnhubModel.SearchItem, error)
}

type ChartApi interface {
	GetChart(ctx context.Context, symbol, chartRange, interval string) (yahooModel.ChartResponse, error)
}

type Cache interface {
	GetSnapshot(ctx context.Context, symbol string) (model.StockSnapshot, error)
	SetSnapshot(ctx context.Context, snap model.StockSnapshot) error
}

type SearchSession interface {
	NextSearchSeq(ctx context.Context, userID string) (int64, error)
	CurrentSearchSeq(ctx context.Context, userID string) (int64, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, view model.PortfolioView) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type TrackerService struct {
	store        ledger.Store
	cache        Cache
	session      SearchSession
	marketApi    MarketApi
	chartApi     ChartApi
	reportGen    ReportGenerator
	cloudStorage CloudStorage

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

func New(
	store ledger.Store,
	cache Cache,
	session SearchSession,
	marketApi MarketApi,
	chartApi ChartApi,
	reportGen ReportGenerator,
	cloudStorage CloudStorage,
) *TrackerService {
	return &TrackerService{
		store:        store,
		cache:        cache,
		session:      session,
		marketApi:    marketApi,
		chartApi:     chartApi,
		reportGen:    reportGen,
		cloudStorage: cloudStorage,
		ledgers:      make(map[string]*ledger.Ledger),
	}
}

// ledgerFor returns the user's ledger, loading it from the store on first use.
func (s *TrackerService) ledgerFor(ctx context.Context, userID string) (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.ledgers[userID]; ok {
		return l, nil
	}

	l, err := ledger.Load(ctx, userID, s.store)
	if err != nil {
		return nil, err
	}
	s.ledgers[userID] = l
	return l, nil
}

// SearchStocks resolves a free-text query against the market API. The returned
// sequence number marks this request as the user's latest search; snapshot
// lookups carrying an older sequence are rejected as superseded.
func (s *TrackerService) SearchStocks(ctx context.Context, userID, query string) ([]model.SearchMatch, int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.SearchStocks"

	slog.Debug("SearchStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		slog.Debug("SearchStocks finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	}()

	seq, err := s.session.NextSearchSeq(ctx, userID)
	if err != nil {
		slog.Error("got error from session.NextSearchSeq", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, 0, err
	}

	items, err := s.marketApi.SearchStocks(ctx, query)
	if err != nil {
		slog.Error("got error from marketApi.SearchStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, 0, err
	}

	matches := make([]model.SearchMatch, 0, len(items))
	for _, item := range items {
		matches = append(matches, model.SearchMatch{
			Symbol: item.Symbol,
			Name:   item.Description,
			Type:   item.Type,
		})
	}

	return matches, seq, nil
}

// GetStockSnapshot returns the normalized snapshot for a symbol. A positive
// searchSeq ties the lookup to a search request; when a newer search has
// started since, the result is dropped with ErrSuperseded so a slow response
// can never overwrite the latest selection. Pass zero to skip the check.
func (s *TrackerService) GetStockSnapshot(ctx context.Context, userID, symbol string, searchSeq int64) (model.StockSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.GetStockSnapshot"

	slog.Debug("GetStockSnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetStockSnapshot finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	snap, err := s.cache.GetSnapshot(ctx, symbol)
	if err != nil {
		snap, err = s.fetchSnapshot(ctx, symbol)
		if err != nil {
			return model.StockSnapshot{}, err
		}

		go func() {
			if err := s.cache.SetSnapshot(context.WithoutCancel(ctx), snap); err != nil {
				slog.Error("got error from cache.SetSnapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			}
		}()
	}

	if searchSeq > 0 {
		current, err := s.session.CurrentSearchSeq(ctx, userID)
		if err != nil {
			slog.Error("got error from session.CurrentSearchSeq", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.StockSnapshot{}, err
		}
		if current != searchSeq {
			slog.Debug("snapshot superseded by newer search", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("searchSeq", searchSeq), slog.Int64("current", current))
			return model.StockSnapshot{}, service.ErrSuperseded
		}
	}

	return snap, nil
}

// fetchSnapshot pulls quote, profile, candles and dividends from the market
// API and normalizes them. When the candle feed has no data for the symbol
// the chart API serves as price-history fallback.
func (s *TrackerService) fetchSnapshot(ctx context.Context, symbol string) (model.StockSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.fetchSnapshot"

	quote, err := s.marketApi.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.StockSnapshot{}, service.ErrNotFound
		}
		slog.Error("got error from marketApi.GetQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockSnapshot{}, err
	}

	profile, err := s.marketApi.GetCompanyProfile(ctx, symbol)
	if err != nil && !errors.Is(err, externalApi.ErrNotFound) {
		slog.Error("got error from marketApi.GetCompanyProfile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockSnapshot{}, err
	}

	now := time.Now()

	candles, err := s.marketApi.GetCandles(ctx, symbol, now.AddDate(-historyYears, 0, 0), now)
	if err != nil {
		if !errors.Is(err, externalApi.ErrNoData) {
			slog.Error("got error from marketApi.GetCandles", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.StockSnapshot{}, err
		}
		return s.fetchSnapshotFromChart(ctx, symbol)
	}

	dividends, err := s.marketApi.GetDividends(ctx, symbol, now.AddDate(-dividendYears, 0, 0), now)
	if err != nil {
		slog.Error("got error from marketApi.GetDividends", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockSnapshot{}, err
	}

	snap, err := normalizer.FromFinnhub(symbol, quote, profile, candles, dividends)
	if err != nil {
		if errors.Is(err, normalizer.ErrInvalidSymbol) || errors.Is(err, normalizer.ErrDataUnavailable) {
			return model.StockSnapshot{}, service.ErrNotFound
		}
		return model.StockSnapshot{}, err
	}

	return snap, nil
}

func (s *TrackerService) fetchSnapshotFromChart(ctx context.Context, symbol string) (model.StockSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.fetchSnapshotFromChart"

	slog.Debug("falling back to chart api", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := s.chartApi.GetChart(ctx, symbol, yahooChartRange, yahooChartInterval)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.StockSnapshot{}, service.ErrNotFound
		}
		slog.Error("got error from chartApi.GetChart", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockSnapshot{}, err
	}

	snap, err := normalizer.FromYahooChart(resp)
	if err != nil {
		if errors.Is(err, normalizer.ErrInvalidSymbol) || errors.Is(err, normalizer.ErrDataUnavailable) {
			return model.StockSnapshot{}, service.ErrNotFound
		}
		return model.StockSnapshot{}, err
	}

	return snap, nil
}

// AddToPortfolio adds shares of a symbol to the user's portfolio, fetching a
// fresh snapshot so the holding carries the current price and dividend data.
func (s *TrackerService) AddToPortfolio(ctx context.Context, userID, symbol string, shares decimal.Decimal) (model.PortfolioHolding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.AddToPortfolio"

	slog.Debug("AddToPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("shares", shares.String()))
	defer func() {
		slog.Debug("AddToPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	snap, err := s.GetStockSnapshot(ctx, userID, symbol, 0)
	if err != nil {
		return model.PortfolioHolding{}, err
	}

	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		slog.Error("got error loading ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioHolding{}, err
	}

	holding, err := l.AddOrIncrease(ctx, shares, snap)
	if err != nil {
		slog.Error("got error from ledger.AddOrIncrease", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioHolding{}, err
	}

	return holding, nil
}

// SetShares replaces the share count of an existing holding. Zero or negative
// removes it.
func (s *TrackerService) SetShares(ctx context.Context, userID, symbol string, shares decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.SetShares"

	slog.Debug("SetShares start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("shares", shares.String()))
	defer func() {
		slog.Debug("SetShares finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		slog.Error("got error loading ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := l.SetShares(ctx, symbol, shares); err != nil {
		if !errors.Is(err, ledger.ErrHoldingNotFound) {
			slog.Error("got error from ledger.SetShares", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return err
	}

	return nil
}

// RemoveFromPortfolio deletes a holding. Removing an absent symbol is a no-op.
func (s *TrackerService) RemoveFromPortfolio(ctx context.Context, userID, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.RemoveFromPortfolio"

	slog.Debug("RemoveFromPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RemoveFromPortfolio finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		slog.Error("got error loading ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := l.Remove(ctx, symbol); err != nil {
		slog.Error("got error from ledger.Remove", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// GetPortfolio returns the user's holdings together with totals and the value
// distribution.
func (s *TrackerService) GetPortfolio(ctx context.Context, userID string) (model.PortfolioView, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	l, err := s.ledgerFor(ctx, userID)
	if err != nil {
		slog.Error("got error loading ledger", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioView{}, err
	}

	return model.PortfolioView{
		Summary:      l.Summary(),
		Holdings:     l.Holdings(),
		Distribution: l.Distribution(),
	}, nil
}

// ExportPortfolio renders the portfolio report. When cloud storage is
// configured the file is uploaded and a download link returned alongside the
// raw bytes.
func (s *TrackerService) ExportPortfolio(ctx context.Context, userID string) (fileBytes []byte, filename, downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.ExportPortfolio"

	slog.Debug("ExportPortfolio start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ExportPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	view, err := s.GetPortfolio(ctx, userID)
	if err != nil {
		return nil, "", "", err
	}

	fileBytes, ext, err := s.reportGen.Generate(ctx, view)
	if err != nil {
		slog.Error("got error from reportGen.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", "", err
	}

	filename = fmt.Sprintf("portfolio_%s%s", time.Now().Format("2006-01-02_15-04-05"), ext)

	if s.cloudStorage != nil {
		downloadLink, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
		if err != nil {
			slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", "", err
		}
	}

	return fileBytes, filename, downloadLink, nil
}

// RefreshHeldQuotes re-fetches snapshots for every symbol held in a loaded
// ledger and rewrites the cache, keeping dashboard prices warm between user
// requests. Failures on individual symbols are logged and skipped.
func (s *TrackerService) RefreshHeldQuotes(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TrackerService.RefreshHeldQuotes"

	slog.Debug("RefreshHeldQuotes start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshHeldQuotes finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	symbols := make(map[string]struct{})
	s.mu.Lock()
	for _, l := range s.ledgers {
		for _, holding := range l.Holdings() {
			symbols[holding.Symbol] = struct{}{}
		}
	}
	s.mu.Unlock()

	for symbol := range symbols {
		snap, err := s.fetchSnapshot(ctx, symbol)
		if err != nil {
			slog.Error("failed to refresh quote", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
			continue
		}
		if err := s.cache.SetSnapshot(ctx, snap); err != nil {
			slog.Error("got error from cache.SetSnapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		}
	}

	return nil
}
