package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
)

// fakeServer is a minimal stand-in for the jsonrpc transport server: it
// authenticates one connection then replies to every execute request with a
// canned envelope.
func fakeServer(t *testing.T, token string, result bridge.ExecutionResult) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		var auth authMessage
		_ = json.Unmarshal(line, &auth)

		if auth.Auth != token {
			resp, _ := json.Marshal(authResponse{Error: "bad token"})
			conn.Write(append(resp, '\n'))
			return
		}
		resp, _ := json.Marshal(authResponse{Authenticated: true})
		conn.Write(append(resp, '\n'))

		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				return
			}
			var req jsonrpcRequest
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			resultJSON, _ := json.Marshal(result)
			out, _ := json.Marshal(jsonrpcResponse{JSONRPC: "2.0", ID: req.ID, Result: resultJSON})
			conn.Write(append(out, '\n'))
		}
	}()

	return ln.Addr().String()
}

func TestClientAuthenticatesOnConnect(t *testing.T) {
	addr := fakeServer(t, "secret", bridge.Ok("ok", "", "", 0))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := New(ctx, addr, "secret", logx.NewLogger("bridgeclient.socket"))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, bridge.Connected, c.State())
}

func TestClientRejectsBadToken(t *testing.T) {
	addr := fakeServer(t, "secret", bridge.Ok("ok", "", "", 0))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, addr, "wrong", logx.NewLogger("bridgeclient.socket"))
	require.Error(t, err)
	assert.Equal(t, bridge.ConnectionLost, bridge.KindOf(err))
}

func TestClientCallRoundTrips(t *testing.T) {
	expected := bridge.Ok(map[string]any{"name": "Box"}, "", "", 5*time.Millisecond)
	addr := fakeServer(t, "secret", expected)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := New(ctx, addr, "secret", logx.NewLogger("bridgeclient.socket"))
	require.NoError(t, err)
	defer c.Close()

	result, err := c.Call(ctx, "document.active_name", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestClientCloseStopsReconnect(t *testing.T) {
	addr := fakeServer(t, "secret", bridge.Ok("ok", "", "", 0))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := New(ctx, addr, "secret", logx.NewLogger("bridgeclient.socket"))
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.Equal(t, bridge.Closing, c.State())
}
