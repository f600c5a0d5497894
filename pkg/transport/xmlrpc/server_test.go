package xmlrpc

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"
	"testing"

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

type fakeRuntime struct{}

func (fakeRuntime) Name() string      { return "fake" }
func (fakeRuntime) UIAvailable() bool { return true }
func (fakeRuntime) Run(ctx context.Context, snippet string, bindings map[string]any) (string, string, any, error) {
	return "", "", nil, nil
}

func startServer(t *testing.T, disp Dispatcher) string {
	t.Helper()
	srv := NewServer(disp, fakeRuntime{}, logx.NewLogger("transport.xmlrpc"))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, srv.Start(ctx, "127.0.0.1", 0))
	return "http://127.0.0.1:" + strconv.Itoa(srv.Port()) + "/RPC2"
}

// testResponse decodes a <methodResponse> using the same tagged xmlValue
// grammar DecodeMethodCall uses for requests, so the test can inspect
// returned values without depending on toXML's marshal-only shape.
type testResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  *struct {
		Param []struct {
			Value xmlValue `xml:"value"`
		} `xml:"param"`
	} `xml:"params"`
	Fault *struct {
		Value xmlValue `xml:"value"`
	} `xml:"fault"`
}

func postXML(t *testing.T, url, body string) *testResponse {
	t.Helper()
	resp, err := http.Post(url, "text/xml", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed testResponse
	require.NoError(t, xml.Unmarshal(data, &parsed))
	return &parsed
}

func TestPingOverXMLRPC(t *testing.T) {
	url := startServer(t, &fakeDispatcher{})
	resp := postXML(t, url, `<?xml version="1.0"?><methodCall><methodName>ping</methodName><params></params></methodCall>`)
	require.Nil(t, resp.Fault)
	require.NotNil(t, resp.Params)
	require.Len(t, resp.Params.Param, 1)
	assert.Equal(t, "pong", fromXMLValue(resp.Params.Param[0].Value).String)
}

func TestExecuteOverXMLRPC(t *testing.T) {
	expected := bridge.Ok("doc1", "", "", 0)
	url := startServer(t, &fakeDispatcher{result: expected})

	body := `<?xml version="1.0"?><methodCall><methodName>execute</methodName><params>
<param><value><string>document.active_name</string></value></param>
</params></methodCall>`
	resp := postXML(t, url, body)
	require.Nil(t, resp.Fault)
	require.NotNil(t, resp.Params)
	require.Len(t, resp.Params.Param, 1)

	result := fromXMLValue(resp.Params.Param[0].Value).ToAny()
	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["success"])
}

func TestUnknownMethodFaults(t *testing.T) {
	url := startServer(t, &fakeDispatcher{})
	resp := postXML(t, url, `<?xml version="1.0"?><methodCall><methodName>nonexistent</methodName><params></params></methodCall>`)
	require.NotNil(t, resp.Fault)
}

func TestValueRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":    "Box",
		"count":   3,
		"ratio":   1.5,
		"visible": true,
		"tags":    []any{"a", "b"},
	}
	v := FromAny(original)
	back := v.ToAny()

	m, ok := back.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Box", m["name"])
	assert.Equal(t, true, m["visible"])
}
