// Package quote resolves live market prices from the Twelve Data REST API.
// Trades depend only on the Source interface; any transport error, upstream
// error payload, or malformed response is reported uniformly as ErrUnavailable.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnavailable means the gateway could not supply a usable price.
var ErrUnavailable = errors.New("quote unavailable")

// Source supplies the current price for a symbol.
type Source interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

// APIError is a non-200 transport response from the upstream API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

// UpstreamError is an explicit error payload returned with HTTP 200, the way
// Twelve Data reports bad symbols and rate limits.
type UpstreamError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (%d): %s", e.Code, e.Message)
}

// NewClient wraps httpClient, which carries the configured request timeout.
// There is no retry: a slow or failed upstream call fails the request once.
func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://api.twelvedata.com"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)
	fullURL := c.host + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if upstream := parseUpstreamError(body); upstream != nil {
		return nil, upstream
	}
	return body, nil
}

func parseUpstreamError(body []byte) *UpstreamError {
	var e UpstreamError
	if err := json.Unmarshal(body, &e); err != nil {
		return nil
	}
	if e.Status == "error" && e.Code != 0 {
		return &e
	}
	return nil
}

// GetQuote returns the raw quote payload for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (json.RawMessage, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("symbol", symbol)
	body, err := c.doRequest(ctx, "/quote", query)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Symbol == "" {
		return nil, fmt.Errorf("%w: no quote data for %s", ErrUnavailable, symbol)
	}
	return body, nil
}

// GetPrice resolves the current (close) price for a symbol. Non-positive or
// missing prices count as unavailable.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	body, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var payload struct {
		Close string `json:"close"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Close == "" {
		return decimal.Zero, fmt.Errorf("%w: no close price for %s", ErrUnavailable, symbol)
	}
	price, err := decimal.NewFromString(payload.Close)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: bad close price %q for %s", ErrUnavailable, payload.Close, symbol)
	}
	return price, nil
}

// GetTimeSeries returns the raw time-series payload for a symbol.
func (c *Client) GetTimeSeries(ctx context.Context, symbol, interval, outputSize string) (json.RawMessage, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	query := url.Values{}
	query.Set("symbol", symbol)
	if interval != "" {
		query.Set("interval", interval)
	}
	if outputSize != "" {
		query.Set("outputsize", outputSize)
	}
	body, err := c.doRequest(ctx, "/time_series", query)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Values []json.RawMessage `json:"values"`
		Meta   json.RawMessage   `json:"meta"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Values == nil || probe.Meta == nil {
		return nil, fmt.Errorf("%w: no time series for %s", ErrUnavailable, symbol)
	}
	return body, nil
}

// SearchSymbols returns the raw symbol-search payload for a keyword.
func (c *Client) SearchSymbols(ctx context.Context, keywords string) (json.RawMessage, error) {
	if keywords == "" {
		return nil, fmt.Errorf("keywords are required")
	}
	query := url.Values{}
	query.Set("symbol", keywords)
	body, err := c.doRequest(ctx, "/symbol_search", query)
	if err != nil {
		return nil, err
	}
	var probe struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.Data) == 0 {
		return nil, fmt.Errorf("%w: no matches for %s", ErrUnavailable, keywords)
	}
	return body, nil
}

var _ Source = (*Client)(nil)
