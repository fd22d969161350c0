// Package accc fetches the ACCC petrol price cycles page and extracts
// the per-city buying-tip text the classifier consumes.
package accc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/fuel-alert/internal/config"
)

// Client fetches the price-cycles page.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a page client from source configuration.
func NewClient(cfg config.SourceConfig) *Client {
	return &Client{
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// FetchPage retrieves the raw page HTML. Any transport error or non-2xx
// status is returned as an error; callers treat this as fatal to the
// run, since no classification can happen without source data.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching price cycles page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("price cycles page returned status %d", resp.StatusCode)
	}

	return string(body), nil
}
