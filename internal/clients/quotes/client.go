// Package quotes is the client for the quote gateway: bulk price and
// fundamentals per symbol. It implements domain.QuoteGateway, with an
// optional Redis cache in front of the upstream and a rate limiter on
// outbound calls.
package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"folio-backend/internal/domain"

	"golang.org/x/time/rate"
)

// Client fetches bulk stock data from the gateway. Cache and Limiter are
// optional; a nil Cache always fetches, a nil Limiter never waits.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   *Cache
	Limiter *rate.Limiter
}

// NewClient builds a gateway client. rps bounds upstream calls per second
// (0 disables limiting).
func NewClient(baseURL string, cache *Cache, rps float64) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Cache:   cache,
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

type bulkRequest struct {
	Symbols []string `json:"symbols"`
}

// BulkQuote returns quotes keyed by symbol. Symbols the gateway does not know
// are simply absent from the result; only transport and non-2xx failures are
// errors. Cached quotes are served without touching the upstream.
func (c *Client) BulkQuote(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	result := make(map[string]domain.Quote, len(symbols))
	missing := symbols
	if c.Cache != nil {
		var hits map[string]domain.Quote
		hits, missing = c.Cache.GetBulk(ctx, symbols)
		for s, q := range hits {
			result[s] = q
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		c.Cache.SetBulk(ctx, fetched)
	}
	for s, q := range fetched {
		result[s] = q
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	b, err := json.Marshal(bulkRequest{Symbols: symbols})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/finance/stock/bulk", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("quote gateway: status %d", resp.StatusCode)
	}

	var quotes []domain.Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("quote gateway: decode: %w", err)
	}

	out := make(map[string]domain.Quote, len(quotes))
	for _, q := range quotes {
		if q.Symbol == "" {
			continue
		}
		out[q.Symbol] = q
	}
	return out, nil
}

var _ domain.QuoteGateway = (*Client)(nil)
