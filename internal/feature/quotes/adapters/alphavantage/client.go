// Package alphavantage provides a client for the Alpha Vantage daily time series API.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

const (
	// ProviderName is the registry name of this provider.
	ProviderName = "alphavantage"
	// DefaultBaseURL is the public Alpha Vantage host.
	DefaultBaseURL = "https://www.alphavantage.co"

	queryPath           = "/query"
	functionDailySeries = "TIME_SERIES_DAILY"
)

// noticeKeys are members Alpha Vantage sends with a 200 status instead of a series.
var noticeKeys = []string{"Error Message", "Note", "Information"}

// Config holds configuration for the Alpha Vantage client.
type Config struct {
	APIKey  string        // API key sent as the apikey parameter
	BaseURL string        // Base URL (e.g., "https://www.alphavantage.co")
	Timeout time.Duration // Per-request timeout
}

// Client fetches daily series from Alpha Vantage.
type Client struct {
	cfg  Config
	http *resty.Client
}

// Client satisfies the usecase's MarketProvider port.
var _ usecase.MarketProvider = (*Client)(nil)

// NewClient creates a Client that sends requests through httpClient.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{cfg: cfg, http: rc}
}

// Name returns ProviderName.
func (c *Client) Name() string {
	return ProviderName
}

// FetchDailySeries requests TIME_SERIES_DAILY for symbol and returns the raw body.
// Transport failures and non-2xx statuses are returned as errors; there is no retry.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string, size entity.OutputSize) (json.RawMessage, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, usecase.ErrEmptySymbol
	}
	if !size.Valid() {
		size = entity.OutputSizeCompact
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   functionDailySeries,
			"symbol":     symbol,
			"outputsize": string(size),
			"apikey":     c.cfg.APIKey,
		}).
		Get(queryPath)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode())
	}

	body := res.Body()
	if !json.Valid(body) {
		return nil, errors.New("alphavantage: response is not valid JSON")
	}
	logNotice(symbol, body)
	return json.RawMessage(body), nil
}

// Normalize converts a payload returned by FetchDailySeries into quotes.
func (c *Client) Normalize(symbol string, raw json.RawMessage) []entity.Quote {
	return ToQuotes(symbol, raw)
}

// logNotice surfaces rate-limit and error notices that arrive with a 200 status.
func logNotice(symbol string, body []byte) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return
	}
	for _, k := range noticeKeys {
		raw, ok := top[k]
		if !ok {
			continue
		}
		var msg string
		_ = json.Unmarshal(raw, &msg)
		slog.Warn("alphavantage returned a notice instead of a series", "symbol", symbol, "kind", k, "message", msg)
	}
}
