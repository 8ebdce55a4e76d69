// Package gql implements the confirmation collaborator: a GraphQL
// client that polls the node's transaction index until a submitted
// transaction appears in a block.
package gql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client polls a GraphQL endpoint for transaction confirmation.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	interval   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		c.interval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a confirmation client for the given GraphQL endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   slog.Default(),
		interval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WaitFor suspends until txID is confirmed, the transaction fails, or
// ctx expires. A ctx deadline surfaces as ctx.Err() so callers can
// distinguish a timeout from a failed transaction.
func (c *Client) WaitFor(ctx context.Context, txID string) error {
	for {
		confirmed, err := c.query(ctx, txID)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}

		c.logger.Debug("transaction pending", "tx", txID)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
	}
}

type gqlResponse struct {
	Data struct {
		Tx *struct {
			ID  string `json:"id"`
			Err string `json:"err"`
		} `json:"tx"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query performs one confirmation lookup. It returns false with no
// error while the transaction has not been indexed yet.
func (c *Client) query(ctx context.Context, txID string) (bool, error) {
	q := fmt.Sprintf(`{ tx(id: %q) { id, err } }`, txID)
	body, err := json.Marshal(map[string]string{"query": q})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("query confirmation: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("confirmation endpoint returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var parsed gqlResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return false, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return false, fmt.Errorf("confirmation query error: %s", parsed.Errors[0].Message)
	}

	tx := parsed.Data.Tx
	if tx == nil {
		return false, nil
	}
	if tx.Err != "" {
		return false, fmt.Errorf("transaction %s failed: %s", txID, tx.Err)
	}
	return true, nil
}
