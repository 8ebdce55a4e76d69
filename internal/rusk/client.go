// Package rusk implements the settlement backend collaborator over a
// WebSocket transport to a rusk node.
//
// The client holds one connection, opened once and reused for every
// per-security submission of a run. Calls are serialized: the protocol
// allows a single in-flight request per connection, so concurrent
// submission requires one client per worker.
package rusk

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dusk-network/xsc-governance/internal/settle"
)

// Config holds the backend connection settings.
type Config struct {
	// NodeURL is the rusk node WebSocket address.
	NodeURL string

	// ProverURL is announced during the session handshake so the node
	// can delegate proof generation.
	ProverURL string

	DialTimeout time.Duration
	CallTimeout time.Duration
}

// ErrNotConnected rejects calls before Connect.
var ErrNotConnected = errors.New("rusk: not connected")

// RejectionError reports a batch the node refused.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return "rusk rejected execution: " + e.Message
}

// request is the wire envelope sent to the node. The ID correlates the
// response on the shared connection.
type request struct {
	ID       string `json:"id"`
	Method   string `json:"method"`
	Contract string `json:"contract,omitempty"`
	GasLimit uint64 `json:"gas_limit,omitempty"`
	GasPrice uint64 `json:"gas_price,omitempty"`
	Prover   string `json:"prover,omitempty"`
	Payload  []byte `json:"payload,omitempty"`
}

type response struct {
	ID     string `json:"id"`
	Error  string `json:"error,omitempty"`
	TxID   string `json:"tx_id,omitempty"`
	Online bool   `json:"online,omitempty"`
}

// Client is a settlement backend over one WebSocket connection.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a client; Connect must be called before use.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &Client{cfg: cfg, logger: logger}
}

// Connect establishes the WebSocket connection and performs the session
// handshake. There is no retry at this layer.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.DialTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.NodeURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.NodeURL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	// Announce the prover so the node can route proof work.
	resp, err := c.call(ctx, request{Method: "status", Prover: c.cfg.ProverURL})
	if err != nil {
		c.Close()
		return fmt.Errorf("session handshake: %w", err)
	}
	if !resp.Online {
		c.Close()
		return errors.New("node reports offline")
	}

	c.logger.Info("connected to rusk node", "url", c.cfg.NodeURL)
	return nil
}

// Execute submits a contract call and returns the transaction id the
// node assigned.
func (c *Client) Execute(ctx context.Context, contractID [32]byte, gas settle.Gas, payload []byte) (string, error) {
	resp, err := c.call(ctx, request{
		Method:   "execute",
		Contract: hex.EncodeToString(contractID[:]),
		GasLimit: gas.Limit,
		GasPrice: gas.Price,
		Payload:  payload,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &RejectionError{Message: resp.Error}
	}
	if resp.TxID == "" {
		return "", errors.New("node returned no transaction id")
	}
	return resp.TxID, nil
}

// IsOnline queries the node's status.
func (c *Client) IsOnline(ctx context.Context) bool {
	resp, err := c.call(ctx, request{Method: "status"})
	return err == nil && resp.Online
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// call performs one request/response exchange. The lock serializes
// callers onto the single in-flight slot.
func (c *Client) call(ctx context.Context, req request) (response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return response{}, ErrNotConnected
	}

	req.ID = uuid.NewString()

	deadline := time.Now().Add(c.cfg.CallTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	c.conn.SetReadDeadline(deadline)

	if err := c.conn.WriteJSON(req); err != nil {
		return response{}, fmt.Errorf("write %s request: %w", req.Method, err)
	}

	// Responses arrive in order, but skip anything stale from an
	// abandoned exchange.
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			return response{}, fmt.Errorf("read %s response: %w", req.Method, err)
		}
		if resp.ID == req.ID {
			return resp, nil
		}
		c.logger.Debug("discarding stale response", "id", resp.ID)
	}
}
