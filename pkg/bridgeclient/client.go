// Package bridgeclient defines the common interface the tool registry and
// MCP adapter use to reach a CAD bridge server, independent of which wire
// transport carries the call.
package bridgeclient

import (
	"context"

	"cadbridge/pkg/bridge"
)

// Client issues execute calls against a CAD bridge server and reports its
// own connection state. Implementations live in bridgeclient/socket,
// bridgeclient/xmlrpc, and bridgeclient/embedded, selected by Config.Mode.
type Client interface {
	Call(ctx context.Context, method string, params map[string]any) (bridge.ExecutionResult, error)
	State() bridge.ConnectionState
	Close() error
}
