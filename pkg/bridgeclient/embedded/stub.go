//go:build !embedded

package embedded

import (
	"context"

	"cadbridge/pkg/bridge"
)

const available = false

// Client is the stand-in returned on a build without the "embedded" tag.
// Every call fails with Internal; callers are expected to check Available()
// at startup and reject MODE=embedded with a ConfigInvalid error before
// ever constructing one, the same as client_enabled.go's Client.
type Client struct{}

// New returns a Client whose Call always fails. Exists so cmd/bridge-mcp
// can be written against this package unconditionally regardless of which
// build tag is active; the ConfigInvalid check happens at startup via
// Available(), not here.
func New() *Client { return &Client{} }

func (c *Client) Call(ctx context.Context, method string, params map[string]any) (bridge.ExecutionResult, error) {
	return bridge.ExecutionResult{}, bridge.NewError(bridge.Internal, "this binary was not built with the embedded build tag")
}

func (c *Client) State() bridge.ConnectionState { return bridge.Disconnected }

func (c *Client) Close() error { return nil }
