package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hellix17/cosmic-tracker/config"
	"github.com/hellix17/cosmic-tracker/internal/externalApi"
	"github.com/hellix17/cosmic-tracker/internal/model/finnhubModel"
	"github.com/hellix17/cosmic-tracker/utils"
)

const (
	candleResolutionDaily = "D"
	candleStatusOK        = "ok"
	candleStatusNoData    = "no_data"
)

type FinnhubApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Finnhub.Url).
		SetQueryParam("token", cfg.API.Finnhub.Token)
	return &FinnhubApi{client: client}
}

func (a *FinnhubApi) GetQuote(ctx context.Context, symbol string) (finnhubModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start FinnhubApi.GetQuote request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get("/quote")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.Quote{}, err
	}

	if resp.IsError() {
		return finnhubModel.Quote{}, fmt.Errorf("finnhub /quote status %d", resp.StatusCode())
	}

	quote := finnhubModel.Quote{}
	err = json.Unmarshal(resp.Body(), &quote)
	if err != nil {
		slog.Error("can't unmarshall response into finnhubModel.Quote", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.Quote{}, err
	}

	// finnhub answers all-zero quotes for unknown symbols
	if quote.Current == 0 && quote.PrevClose == 0 {
		return finnhubModel.Quote{}, externalApi.ErrNotFound
	}

	slog.Debug("FinnhubApi.GetQuote request complete", slog.String("rqID", rqID))

	return quote, nil
}

func (a *FinnhubApi) GetCompanyProfile(ctx context.Context, symbol string) (finnhubModel.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start FinnhubApi.GetCompanyProfile request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get("/stock/profile2")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.CompanyProfile{}, err
	}

	if resp.IsError() {
		return finnhubModel.CompanyProfile{}, fmt.Errorf("finnhub /stock/profile2 status %d", resp.StatusCode())
	}

	profile := finnhubModel.CompanyProfile{}
	err = json.Unmarshal(resp.Body(), &profile)
	if err != nil {
		slog.Error("can't unmarshall response into finnhubModel.CompanyProfile", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.CompanyProfile{}, err
	}

	if profile.Name == "" && profile.Ticker == "" {
		return finnhubModel.CompanyProfile{}, externalApi.ErrNotFound
	}

	slog.Debug("FinnhubApi.GetCompanyProfile request complete", slog.String("rqID", rqID))

	return profile, nil
}

func (a *FinnhubApi) GetCandles(ctx context.Context, symbol string, from, to time.Time) (finnhubModel.Candles, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	params := map[string]string{
		"symbol":     symbol,
		"resolution": candleResolutionDaily,
		"from":       strconv.FormatInt(from.Unix(), 10),
		"to":         strconv.FormatInt(to.Unix(), 10),
	}

	slog.Debug("start FinnhubApi.GetCandles request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get("/stock/candle")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.Candles{}, err
	}

	if resp.IsError() {
		return finnhubModel.Candles{}, fmt.Errorf("finnhub /stock/candle status %d", resp.StatusCode())
	}

	candles := finnhubModel.Candles{}
	err = json.Unmarshal(resp.Body(), &candles)
	if err != nil {
		slog.Error("can't unmarshall response into finnhubModel.Candles", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return finnhubModel.Candles{}, err
	}

	if candles.Status == candleStatusNoData || len(candles.Close) == 0 {
		return finnhubModel.Candles{}, externalApi.ErrNoData
	}

	if candles.Status != candleStatusOK {
		return finnhubModel.Candles{}, fmt.Errorf("finnhub /stock/candle status field %q", candles.Status)
	}

	slog.Debug("FinnhubApi.GetCandles request complete", slog.String("rqID", rqID))

	return candles, nil
}

func (a *FinnhubApi) GetDividends(ctx context.Context, symbol string, from, to time.Time) ([]finnhubModel.Dividend, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	params := map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}

	slog.Debug("start FinnhubApi.GetDividends request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get("/stock/dividend")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("finnhub /stock/dividend status %d", resp.StatusCode())
	}

	var dividends []finnhubModel.Dividend
	err = json.Unmarshal(resp.Body(), &dividends)
	if err != nil {
		slog.Error("can't unmarshall response into []finnhubModel.Dividend", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("FinnhubApi.GetDividends request complete", slog.String("rqID", rqID))

	return dividends, nil
}

func (a *FinnhubApi) SearchStocks(ctx context.Context, query string) ([]finnhubModel.SearchItem, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start FinnhubApi.SearchStocks request", slog.String("rqID", rqID), slog.String("query", query))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("q", query).
		Get("/search")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("finnhub /search status %d", resp.StatusCode())
	}

	searchResult := finnhubModel.SearchResult{}
	err = json.Unmarshal(resp.Body(), &searchResult)
	if err != nil {
		slog.Error("can't unmarshall response into finnhubModel.SearchResult", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	slog.Debug("FinnhubApi.SearchStocks request complete", slog.String("rqID", rqID))

	return searchResult.Result, nil
}
