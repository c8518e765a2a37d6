package yahooApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/hellix17/cosmic-tracker/config"
	"github.com/hellix17/cosmic-tracker/internal/externalApi"
	"github.com/hellix17/cosmic-tracker/internal/model/yahooModel"
	"github.com/hellix17/cosmic-tracker/utils"
)

// YahooApi is the fallback chart feed used when the primary vendor has no
// history for a symbol.
type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Yahoo.Url).
		SetHeader("User-Agent", "curl/8")
	return &YahooApi{client: client}
}

func (a *YahooApi) GetChart(ctx context.Context, symbol, chartRange, interval string) (yahooModel.ChartResponse, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	params := map[string]string{
		"range":    chartRange,
		"interval": interval,
	}

	slog.Debug("start YahooApi.GetChart request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get("/v8/finance/chart/" + symbol)

	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return yahooModel.ChartResponse{}, err
	}

	if resp.StatusCode() == 404 {
		return yahooModel.ChartResponse{}, externalApi.ErrNotFound
	}

	if resp.IsError() {
		return yahooModel.ChartResponse{}, fmt.Errorf("yahoo chart status %d", resp.StatusCode())
	}

	chart := yahooModel.ChartResponse{}
	err = json.Unmarshal(resp.Body(), &chart)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.ChartResponse", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return yahooModel.ChartResponse{}, err
	}

	if len(chart.Chart.Result) == 0 {
		return yahooModel.ChartResponse{}, externalApi.ErrNotFound
	}

	slog.Debug("YahooApi.GetChart request complete", slog.String("rqID", rqID))

	return chart, nil
}
