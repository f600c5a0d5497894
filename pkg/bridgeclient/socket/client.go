// Package socket implements the bridgeclient.Client interface over the
// line-delimited JSON-RPC transport (pkg/transport/jsonrpc), grounded on
// cmd/maestro-mcp-proxy/main.go's authenticate handshake and dial shape,
// adapted from raw byte forwarding to framed request/response calls.
package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
)

type authMessage struct {
	Auth string `json:"auth"`
}

type authResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

type jsonrpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// Client is a persistent TCP connection to a jsonrpc transport server. Only
// one request may be in flight at a time; Call serializes callers with a
// mutex, matching the server's single-connection request/reply pairing.
type Client struct {
	addr      string
	authToken string
	sessionID string
	logger    *logx.Logger

	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Reader
	state   atomic.Int32
	nextID  atomic.Int64
	closeCh chan struct{}

	// callMu serializes Call end to end (write through matching read), since
	// only one request may be in flight on a connection at a time — without
	// it, two concurrent Calls could interleave their writes and then each
	// read the other's response off the same reader.
	callMu sync.Mutex
}

// New dials addr and authenticates with authToken. It blocks until the
// first connection attempt succeeds or ctx is done.
func New(ctx context.Context, addr, authToken string, logger *logx.Logger) (*Client, error) {
	sessionID := uuid.NewString()
	c := &Client{addr: addr, authToken: authToken, sessionID: sessionID, logger: logger, closeCh: make(chan struct{})}
	logger.Info("session %s connecting to %s", sessionID, addr)
	c.setState(bridge.Connecting)
	if err := c.connect(ctx); err != nil {
		c.setState(bridge.Disconnected)
		return nil, bridge.Wrap(bridge.ConnectionLost, "initial connect", err)
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context) error {
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	if err := c.authenticate(conn); err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.mu.Unlock()
	c.setState(bridge.Connected)
	return nil
}

func (c *Client) authenticate(conn net.Conn) error {
	data, err := json.Marshal(authMessage{Auth: c.authToken})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return err
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return err
	}
	var resp authResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return err
	}
	if !resp.Authenticated {
		return bridge.NewError(bridge.ConfigInvalid, "bridge rejected auth token: "+resp.Error)
	}
	return nil
}

// reconnect retries the dial/auth sequence with capped exponential backoff
// and jitter until ctx is done, per SPEC_FULL.md §6's reconnect policy.
func (c *Client) reconnect(ctx context.Context) error {
	c.setState(bridge.Connecting)
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0 // retry until ctx is canceled, never give up on its own

	err := backoff.Retry(func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err := c.connect(ctx); err != nil {
			c.logger.Warn("reconnect to %s failed: %v", c.addr, err)
			return err
		}
		return nil
	}, backoff.WithContext(bo, ctx))

	if err != nil {
		c.setState(bridge.Disconnected)
		return err
	}
	return nil
}

// Call sends an execute request and waits for its matching reply. On
// io.EOF or any read/write failure it transitions to Disconnected and
// kicks off a background reconnect, reporting ConnectionLost for this call.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (bridge.ExecutionResult, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	reader := c.reader
	c.mu.Unlock()

	if conn == nil {
		return bridge.ExecutionResult{}, bridge.NewError(bridge.NotConnected, "no active connection")
	}

	id := c.nextID.Add(1)
	req := jsonrpcRequest{JSONRPC: "2.0", ID: id, Method: "execute", Params: map[string]any{
		"method": method,
		"params": params,
	}}
	data, err := json.Marshal(req)
	if err != nil {
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.Internal, "marshal request", err)
	}
	data = append(data, '\n')

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	c.mu.Lock()
	_, writeErr := conn.Write(data)
	c.mu.Unlock()
	if writeErr != nil {
		c.onConnectionLost(ctx)
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ConnectionLost, "write request", writeErr)
	}

	line, readErr := reader.ReadBytes('\n')
	if readErr != nil {
		c.onConnectionLost(ctx)
		if readErr == io.EOF {
			return bridge.ExecutionResult{}, bridge.Wrap(bridge.ConnectionLost, "connection closed by bridge", readErr)
		}
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ConnectionLost, "read response", readErr)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ProtocolError, "decode response", err)
	}
	if resp.Error != nil {
		return bridge.ExecutionResult{}, bridge.NewError(bridge.ProtocolError, resp.Error.Message)
	}

	var result bridge.ExecutionResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ProtocolError, "decode result envelope", err)
	}
	return result, nil
}

func (c *Client) onConnectionLost(ctx context.Context) {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
	c.mu.Unlock()
	c.setState(bridge.Disconnected)

	go func() {
		select {
		case <-c.closeCh:
			return
		default:
		}
		if err := c.reconnect(ctx); err != nil {
			c.logger.Warn("reconnect abandoned: %v", err)
		}
	}()
}

func (c *Client) setState(s bridge.ConnectionState) { c.state.Store(int32(s)) }

// State returns the client's current connection state.
func (c *Client) State() bridge.ConnectionState { return bridge.ConnectionState(c.state.Load()) }

// Close terminates the connection and stops any in-flight reconnect loop.
func (c *Client) Close() error {
	close(c.closeCh)
	c.setState(bridge.Closing)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

