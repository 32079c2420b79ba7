// Package holdings is the REST client for the external holdings backend,
// which owns persistence and the sector rename path. It implements
// domain.HoldingsRepository.
package holdings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"folio-backend/internal/domain"
)

// Client talks to the holdings backend. BaseURL is the API root, e.g.
// "http://localhost:8000/api".
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client with a bounded default transport.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	return c.HTTP
}

// do issues one request and decodes a JSON body into out (when out is
// non-nil). 404 maps to notFound so callers can use errors.Is.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, notFound error) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("holdings backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		return fmt.Errorf("holdings backend: %s %s: %w", method, path, notFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("holdings backend: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("holdings backend: %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

// List returns all holdings for the account.
func (c *Client) List(ctx context.Context, accountID int64) ([]domain.Holding, error) {
	var holdings []domain.Holding
	path := "/portfolio/holdings?accountId=" + strconv.FormatInt(accountID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &holdings, nil); err != nil {
		return nil, err
	}
	return holdings, nil
}

type createRequest struct {
	AccountID int64 `json:"accountId"`
	domain.HoldingInput
}

// Create adds a holding; the backend assigns the id.
func (c *Client) Create(ctx context.Context, accountID int64, in domain.HoldingInput) (domain.Holding, error) {
	var created domain.Holding
	err := c.do(ctx, http.MethodPost, "/portfolio/holdings", createRequest{AccountID: accountID, HoldingInput: in}, &created, nil)
	return created, err
}

// Update replaces the user-owned fields of a holding.
func (c *Client) Update(ctx context.Context, id string, in domain.HoldingInput) (domain.Holding, error) {
	var updated domain.Holding
	err := c.do(ctx, http.MethodPut, "/portfolio/holdings/"+url.PathEscape(id), in, &updated, domain.ErrHoldingNotFound)
	return updated, err
}

// Delete removes a holding.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/portfolio/holdings/"+url.PathEscape(id), nil, nil, domain.ErrHoldingNotFound)
}

// ListSectors returns the distinct sector labels known to the backend.
func (c *Client) ListSectors(ctx context.Context) ([]string, error) {
	var sectors []string
	if err := c.do(ctx, http.MethodGet, "/portfolio/sectors", nil, &sectors, nil); err != nil {
		return nil, err
	}
	return sectors, nil
}

// StocksBySector returns the reduced holding list for one sector label.
func (c *Client) StocksBySector(ctx context.Context, sector string) ([]domain.SectorStock, error) {
	var stocks []domain.SectorStock
	path := "/portfolio/sectors/" + url.PathEscape(sector) + "/stocks"
	if err := c.do(ctx, http.MethodGet, path, nil, &stocks, domain.ErrSectorNotFound); err != nil {
		return nil, err
	}
	return stocks, nil
}

type renameSectorRequest struct {
	NewSector string `json:"newSector"`
}

// RenameSector renames a sector label across the account's holdings.
func (c *Client) RenameSector(ctx context.Context, oldName, newName string) error {
	path := "/portfolio/sectors/" + url.PathEscape(oldName)
	return c.do(ctx, http.MethodPut, path, renameSectorRequest{NewSector: newName}, nil, domain.ErrSectorNotFound)
}

var _ domain.HoldingsRepository = (*Client)(nil)
