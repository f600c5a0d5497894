package jsonrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
)

type fakeDispatcher struct {
	result bridge.ExecutionResult
	err    error
}

func (f *fakeDispatcher) Submit(ctx context.Context, req bridge.ExecutionRequest) (bridge.ExecutionResult, error) {
	return f.result, f.err
}

type fakeRuntime struct{ uiUp bool }

func (f *fakeRuntime) Name() string      { return "fake" }
func (f *fakeRuntime) UIAvailable() bool { return f.uiUp }
func (f *fakeRuntime) Run(ctx context.Context, snippet string, bindings map[string]any) (string, string, any, error) {
	return "", "", nil, nil
}

func startTestServer(t *testing.T, disp Dispatcher) (conn net.Conn, port int, token string) {
	t.Helper()
	token = "test-token"
	srv := NewServer(disp, &fakeRuntime{uiUp: true}, token, logx.NewLogger("transport.jsonrpc"))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, srv.Start(ctx, "127.0.0.1", 0))
	port = srv.Port()

	c, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, writeLine(c, authMessage{Auth: token}))
	reader := bufio.NewReader(c)
	var resp authResponse
	require.NoError(t, readLine(reader, &resp))
	require.True(t, resp.Authenticated)

	return c, port, token
}

func TestAuthenticationHandshake(t *testing.T) {
	startTestServer(t, &fakeDispatcher{result: bridge.Ok(1, "", "", 0)})
}

func TestAuthenticationRejectsBadToken(t *testing.T) {
	srv := NewServer(&fakeDispatcher{}, &fakeRuntime{uiUp: true}, "correct", logx.NewLogger("transport.jsonrpc"))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, srv.Start(ctx, "127.0.0.1", 0))

	c, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(srv.Port()))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, writeLine(c, authMessage{Auth: "wrong"}))
	reader := bufio.NewReader(c)
	var resp authResponse
	require.NoError(t, readLine(reader, &resp))
	assert.False(t, resp.Authenticated)
	assert.NotEmpty(t, resp.Error)
}

func TestPingMethod(t *testing.T) {
	conn, _, _ := startTestServer(t, &fakeDispatcher{})
	require.NoError(t, writeLine(conn, JSONRPCRequest{JSONRPC: "2.0", ID: float64(1), Method: "ping"}))

	reader := bufio.NewReader(conn)
	var resp JSONRPCResponse
	require.NoError(t, readLine(reader, &resp))
	assert.Nil(t, resp.Error)
}

func TestExecuteSerializesThroughDispatcher(t *testing.T) {
	expected := bridge.Ok(map[string]any{"ok": true}, "stdout", "", 10*time.Millisecond)
	conn, _, _ := startTestServer(t, &fakeDispatcher{result: expected})

	params, _ := json.Marshal(executeParams{Method: "doc.active_name"})
	req := JSONRPCRequest{JSONRPC: "2.0", ID: float64(2), Method: "execute", Params: params}
	require.NoError(t, writeLine(conn, req))

	reader := bufio.NewReader(conn)
	var resp JSONRPCResponse
	require.NoError(t, readLine(reader, &resp))
	require.Nil(t, resp.Error)
}

func TestUnknownMethodIsProtocolError(t *testing.T) {
	conn, _, _ := startTestServer(t, &fakeDispatcher{})
	require.NoError(t, writeLine(conn, JSONRPCRequest{JSONRPC: "2.0", ID: float64(3), Method: "nope"}))

	reader := bufio.NewReader(conn)
	var resp JSONRPCResponse
	require.NoError(t, readLine(reader, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func writeLine(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}

func readLine(reader *bufio.Reader, v any) error {
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return err
	}
	return json.Unmarshal(line, v)
}
