package mcpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/tools"
)

type fakeClient struct {
	result bridge.ExecutionResult
	err    error
}

func (f *fakeClient) Call(ctx context.Context, script string, params map[string]any) (bridge.ExecutionResult, error) {
	return f.result, f.err
}
func (f *fakeClient) State() bridge.ConnectionState { return bridge.Connected }
func (f *fakeClient) Close() error                  { return nil }

func newAdapter(client *fakeClient) *Adapter {
	provider := tools.NewProvider(&tools.BridgeContext{Client: client}, nil)
	return New(provider, nil)
}

func TestHandleInitialize(t *testing.T) {
	a := newAdapter(&fakeClient{})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "initialize"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	result := resp.Result.(map[string]any)
	assert.Equal(t, protocolVersion, result["protocolVersion"])
}

func TestHandleNotificationReturnsNil(t *testing.T) {
	a := newAdapter(&fakeClient{})
	resp := a.Handle(context.Background(), &Request{Method: "notifications/initialized"})
	assert.Nil(t, resp)
}

func TestHandleUnknownMethod(t *testing.T) {
	a := newAdapter(&fakeClient{})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "bogus"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestHandleToolsListIncludesRegisteredTools(t *testing.T) {
	a := newAdapter(&fakeClient{})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "tools/list"})
	result := resp.Result.(map[string]any)
	list := result["tools"].([]map[string]any)
	found := false
	for _, tl := range list {
		if tl["name"] == "document_create" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHandleToolsCallSuccessIsNotAnError(t *testing.T) {
	client := &fakeClient{result: bridge.ExecutionResult{Success: true, Result: map[string]any{"success": true, "name": "Doc"}}}
	a := newAdapter(client)

	params, _ := json.Marshal(map[string]any{"name": "document_create", "arguments": map[string]any{}})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "tools/call", Params: params})
	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]any)
	_, isError := result["isError"]
	assert.False(t, isError)
}

func TestHandleToolsCallLogicalFailureIsIsErrorNotProtocolError(t *testing.T) {
	client := &fakeClient{result: bridge.ExecutionResult{
		Success: false, ErrorKind: bridge.ScriptError, ErrorMessage: "no active document",
	}}
	a := newAdapter(client)

	params, _ := json.Marshal(map[string]any{"name": "document_save", "arguments": map[string]any{}})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "tools/call", Params: params})
	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]any)
	assert.Equal(t, true, result["isError"])
}

func TestHandleToolsCallUnknownToolIsProtocolError(t *testing.T) {
	a := newAdapter(&fakeClient{})
	params, _ := json.Marshal(map[string]any{"name": "nonexistent_tool", "arguments": map[string]any{}})
	resp := a.Handle(context.Background(), &Request{ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestServeStdioRoundTrips(t *testing.T) {
	a := newAdapter(&fakeClient{})
	in := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n")
	var out bytes.Buffer

	err := a.ServeStdio(context.Background(), in, &out)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &resp))
	assert.Nil(t, resp.Error)
}

func TestHTTPHandlerRoundTrips(t *testing.T) {
	a := newAdapter(&fakeClient{})
	server := httptest.NewServer(a.HTTPHandler())
	defer server.Close()

	body, _ := json.Marshal(Request{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	resp, err := http.Post(server.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Nil(t, decoded.Error)
}
