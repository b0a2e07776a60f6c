package stocks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// QuoteFetcher is the interface used by Cache to load quotes. It exists to
// allow testing without a real upstream.
type QuoteFetcher interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
}

// MetricsRecorder is an optional interface for recording refresh outcomes.
type MetricsRecorder interface {
	IncStockRefresh(outcome string)
}

// Cache holds the latest quote per watchlist symbol and refreshes them on a
// timer. The loop is owned by the server lifecycle: it stops when the
// context is cancelled or Stop is called. It is safe for concurrent use.
type Cache struct {
	fetcher  QuoteFetcher
	symbols  []string
	interval time.Duration

	mu     sync.RWMutex
	quotes map[string]*Quote

	metrics  MetricsRecorder
	done     chan struct{}
	stopOnce sync.Once
}

// NewCache creates a quote cache for the given watchlist.
func NewCache(fetcher QuoteFetcher, symbols []string, interval time.Duration) *Cache {
	return &Cache{
		fetcher:  fetcher,
		symbols:  symbols,
		interval: interval,
		quotes:   make(map[string]*Quote, len(symbols)),
		done:     make(chan struct{}),
	}
}

// SetMetrics sets the optional metrics recorder.
func (c *Cache) SetMetrics(m MetricsRecorder) {
	c.metrics = m
}

// Start refreshes the watchlist once, then on every interval tick. It blocks
// until Stop is called or the context is cancelled.
func (c *Cache) Start(ctx context.Context) {
	c.refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.refresh(ctx)
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// Stop terminates the refresh loop.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Get returns the cached quote for symbol.
func (c *Cache) Get(symbol string) (*Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[symbol]
	return q, ok
}

// Put stores a quote fetched outside the watchlist loop (ad-hoc lookups).
func (c *Cache) Put(q *Quote) {
	c.mu.Lock()
	c.quotes[q.Symbol] = q
	c.mu.Unlock()
}

// refresh fetches every watchlist symbol, keeping the previous quote for any
// symbol whose fetch fails.
func (c *Cache) refresh(ctx context.Context) {
	for _, symbol := range c.symbols {
		q, err := c.fetcher.Quote(ctx, symbol)
		if err != nil {
			if c.metrics != nil {
				c.metrics.IncStockRefresh("error")
			}
			slog.Warn("stock quote refresh failed", "symbol", symbol, "error", err)
			continue
		}
		if c.metrics != nil {
			c.metrics.IncStockRefresh("ok")
		}
		c.Put(q)
	}
}
