// Package stocks provides the quote feed behind the dashboard market widget:
// a thin Finnhub proxy plus an in-process cache refreshed on a timer.
package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Quote is the shape served to the widget.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// mockBasePrices backs the keyless dev mode: without an API key the client
// serves jittered quotes around these anchors instead of calling upstream.
var mockBasePrices = map[string]float64{
	"SPY": 450,
	"QQQ": 380,
	"DIA": 350,
	"IWM": 195,
}

// Client fetches quotes from a Finnhub-style endpoint. Upstream calls are
// throttled through a token-bucket limiter so watchlist refreshes cannot
// exhaust the provider's free-tier quota.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	randFn  func() float64 // injectable jitter source for testing
}

// NewClient creates a quote client. An empty apiKey enables mock mode.
// requestsPerSec bounds upstream calls; values <= 0 default to 1/s.
func NewClient(baseURL, apiKey string, requestsPerSec float64) *Client {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		randFn:  rand.Float64,
	}
}

// finnhubQuote is the upstream reply: c = current price, d = change,
// dp = percent change.
type finnhubQuote struct {
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	Dp float64 `json:"dp"`
}

// Quote returns the current quote for symbol. Without an API key a mock
// quote is produced locally.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if c.apiKey == "" {
		return c.mockQuote(symbol), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/api/v1/quote?symbol=%s&token=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building quote request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote upstream returned status %d for %s", resp.StatusCode, symbol)
	}

	var fq finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&fq); err != nil {
		return nil, fmt.Errorf("decoding quote for %s: %w", symbol, err)
	}

	return &Quote{
		Symbol:        symbol,
		Price:         fq.C,
		Change:        fq.D,
		ChangePercent: fq.Dp,
		FetchedAt:     time.Now(),
	}, nil
}

func (c *Client) mockQuote(symbol string) *Quote {
	base, ok := mockBasePrices[symbol]
	if !ok {
		base = 100
	}
	change := (c.randFn() - 0.5) * 10
	return &Quote{
		Symbol:        symbol,
		Price:         base + change,
		Change:        change,
		ChangePercent: change / base * 100,
		FetchedAt:     time.Now(),
	}
}
