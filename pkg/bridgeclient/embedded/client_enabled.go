//go:build embedded

package embedded

import (
	"context"

	"cadbridge/pkg/bridge"
)

const available = true

// Client links directly against an in-process CAD binding. The binding
// itself is supplied by whatever cgo shim is compiled in alongside this
// build tag; this package only provides the bridgeclient.Client shape
// around it.
type Client struct {
	state bridge.ConnectionState
}

// New constructs an embedded Client. Real deployments replace the body of
// Call with a direct call into their CAD process's scripting host.
func New() *Client {
	return &Client{state: bridge.Connected}
}

func (c *Client) Call(ctx context.Context, method string, params map[string]any) (bridge.ExecutionResult, error) {
	return bridge.ExecutionResult{}, bridge.NewError(bridge.Internal, "embedded binding not linked in this build")
}

func (c *Client) State() bridge.ConnectionState { return c.state }

func (c *Client) Close() error {
	c.state = bridge.Closing
	return nil
}
