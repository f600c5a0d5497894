package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
)

// fakeClient is an in-memory bridgeclient.Client stand-in for exercising
// scriptTool dispatch without a real transport.
type fakeClient struct {
	lastScript string
	lastParams map[string]any
	result     bridge.ExecutionResult
	err        error
	state      bridge.ConnectionState
}

func (f *fakeClient) Call(ctx context.Context, script string, params map[string]any) (bridge.ExecutionResult, error) {
	f.lastScript = script
	f.lastParams = params
	return f.result, f.err
}

func (f *fakeClient) State() bridge.ConnectionState { return f.state }
func (f *fakeClient) Close() error                  { return nil }

func newTool(meta ToolMeta, r render, client *fakeClient) *scriptTool {
	return &scriptTool{
		meta:   meta,
		bctx:   &BridgeContext{Client: client, ToolTimeout: time.Second},
		render: r,
	}
}

func TestScriptToolValidateMissingRequired(t *testing.T) {
	client := &fakeClient{}
	meta := ToolMeta{
		Name: "x",
		InputSchema: InputSchema{
			Type:     "object",
			Required: []string{"name"},
		},
	}
	tool := newTool(meta, func(args map[string]any) string { return "unused" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "name")
	assert.Empty(t, client.lastScript, "bridge must not be called on invalid params")
}

func TestScriptToolValidateWrongType(t *testing.T) {
	client := &fakeClient{}
	meta := ToolMeta{
		Name: "x",
		InputSchema: InputSchema{
			Type:       "object",
			Properties: map[string]Property{"count": numberProp("")},
			Required:   []string{"count"},
		},
	}
	tool := newTool(meta, func(args map[string]any) string { return "unused" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{"count": "not-a-number"})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Empty(t, client.lastScript)
}

func TestScriptToolTransportFailureEnvelope(t *testing.T) {
	client := &fakeClient{err: bridge.NewError(bridge.ConnectionLost, "conn reset")}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	tool := newTool(meta, func(args map[string]any) string { return "script" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, string(bridge.ConnectionLost), out["error_kind"])
}

func TestScriptToolScriptFailureEnvelope(t *testing.T) {
	client := &fakeClient{
		result: bridge.ExecutionResult{
			Success:        false,
			ErrorKind:      bridge.ScriptError,
			ErrorMessage:   "object not found",
			ErrorTraceback: "Traceback...",
		},
	}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	tool := newTool(meta, func(args map[string]any) string { return "script" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "object not found", out["error"])
	assert.Equal(t, "Traceback...", out["traceback"])
}

func TestScriptToolSuccessPassesDictThrough(t *testing.T) {
	client := &fakeClient{
		result: bridge.ExecutionResult{
			Success: true,
			Result:  map[string]any{"success": true, "name": "Box"},
		},
	}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	tool := newTool(meta, func(args map[string]any) string { return "script" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Box", out["name"])
}

func TestScriptToolSuccessNonDictResultIsAnEnvelopeFailure(t *testing.T) {
	client := &fakeClient{
		result: bridge.ExecutionResult{Success: true, Result: 42},
	}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	tool := newTool(meta, func(args map[string]any) string { return "script" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
}

func TestScriptToolRendersScriptFromArgs(t *testing.T) {
	client := &fakeClient{result: bridge.ExecutionResult{Success: true, Result: map[string]any{"success": true}}}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	var captured map[string]any
	tool := newTool(meta, func(args map[string]any) string {
		captured = args
		return "rendered"
	}, client)

	_, err := tool.Exec(context.Background(), map[string]any{"foo": "bar"})
	require.NoError(t, err)
	assert.Equal(t, "rendered", client.lastScript)
	assert.Equal(t, "bar", captured["foo"])
}

func TestScriptToolWrapsErrAsErrors(t *testing.T) {
	var sentinel = errors.New("boom")
	client := &fakeClient{err: sentinel}
	meta := ToolMeta{Name: "x", InputSchema: InputSchema{Type: "object"}}
	tool := newTool(meta, func(args map[string]any) string { return "script" }, client)

	out, err := tool.Exec(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, string(bridge.Internal), out["error_kind"])
}
