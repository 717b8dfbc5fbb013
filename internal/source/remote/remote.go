// Package remote fetches sales records from a JSON document served over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"salestats/internal/core"
)

const (
	DefaultURL      = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 32 << 20
)

var (
	ErrBodyTooLarge = errors.New("response body exceeds limit")
	ErrNotArray     = errors.New("payload is not a JSON array")
)

// Client implements source.TransactionLister over HTTP GET.
type Client struct {
	http     *http.Client
	url      string
	maxBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMaxBytes caps the accepted response size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// New returns a client reading url. A zero timeout falls back to DefaultTimeout.
func New(url string, timeout time.Duration, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http:     &http.Client{Timeout: timeout},
		url:      url,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the document address.
func (c *Client) URL() string { return c.url }

// ListTransactions performs a GET and decodes the JSON array of records.
func (c *Client) ListTransactions(ctx context.Context) ([]core.RawTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, fmt.Errorf("cannot http GET %s/%s: %s", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.maxBytes)
	}

	var records []core.RawTransaction
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	// A JSON null decodes without error but is not a record list
	if records == nil {
		return nil, fmt.Errorf("decode transactions: %w", ErrNotArray)
	}
	return records, nil
}
