// Package xmlrpc implements the bridgeclient.Client interface over HTTP
// against pkg/transport/xmlrpc's methodCall/methodResponse server.
package xmlrpc

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"cadbridge/pkg/bridge"
)

// extraTimeout is added on top of a request's TimeoutMS so the HTTP
// round-trip always outlasts the script's own timeout: a script that times
// out server-side is reported as a Timeout envelope rather than
// the client's transport giving up first.
const extraTimeout = 5 * time.Second

// Client calls a CAD bridge over XML-RPC. It keeps no persistent
// connection — each Call is an independent HTTP POST — so State reports
// Connected once the endpoint has answered at least one call successfully.
type Client struct {
	url        string
	httpClient *http.Client
	state      atomic.Int32
}

// New builds a Client targeting the given XML-RPC endpoint (scheme://host:port/RPC2).
func New(url string) *Client {
	c := &Client{url: url, httpClient: &http.Client{}}
	c.state.Store(int32(bridge.Connecting))
	return c
}

type xmlValue struct {
	String  *string    `xml:"string"`
	Int     *int       `xml:"int"`
	Double  *float64   `xml:"double"`
	Boolean *int       `xml:"boolean"`
	Array   *xmlArray  `xml:"array"`
	Struct  *xmlStruct `xml:"struct"`
}

type xmlArray struct {
	Data struct {
		Value []xmlValue `xml:"value"`
	} `xml:"data"`
}

type xmlStruct struct {
	Member []struct {
		Name  string   `xml:"name"`
		Value xmlValue `xml:"value"`
	} `xml:"member"`
}

type methodResponse struct {
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

// Call renders method/params as an XML-RPC execute methodCall and posts it
// to the bridge endpoint.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (bridge.ExecutionResult, error) {
	timeout := bridge.ExecutionRequest{Method: method, Params: params}.Timeout() + extraTimeout
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := encodeExecuteCall(method, params)
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.url, bytes.NewBufferString(body))
	if err != nil {
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.Internal, "build xml-rpc request", err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.state.Store(int32(bridge.Disconnected))
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ConnectionLost, "xml-rpc post", err)
	}
	defer resp.Body.Close()
	c.state.Store(int32(bridge.Connected))

	var parsed methodResponse
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.ProtocolError, "decode xml-rpc response", err)
	}
	if parsed.Fault != nil {
		fault := fromXMLValue(parsed.Fault.Value).(map[string]any)
		return bridge.ExecutionResult{}, bridge.NewError(bridge.ProtocolError, fmt.Sprintf("%v", fault["faultString"]))
	}
	if parsed.Params == nil || len(parsed.Params.Param) == 0 {
		return bridge.ExecutionResult{}, bridge.NewError(bridge.ProtocolError, "empty xml-rpc response")
	}

	m, ok := fromXMLValue(parsed.Params.Param[0].Value).(map[string]any)
	if !ok {
		return bridge.ExecutionResult{}, bridge.NewError(bridge.ProtocolError, "malformed execution envelope")
	}
	return envelopeFromMap(m), nil
}

// State reports Connected once the endpoint has answered at least one call.
func (c *Client) State() bridge.ConnectionState {
	return bridge.ConnectionState(c.state.Load())
}

// Close is a no-op: the xmlrpc client holds no persistent connection.
func (c *Client) Close() error {
	c.state.Store(int32(bridge.Closing))
	return nil
}

func fromXMLValue(v xmlValue) any {
	switch {
	case v.Int != nil:
		return *v.Int
	case v.Double != nil:
		return *v.Double
	case v.Boolean != nil:
		return *v.Boolean != 0
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Data.Value))
		for _, item := range v.Array.Data.Value {
			out = append(out, fromXMLValue(item))
		}
		return out
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Member))
		for _, m := range v.Struct.Member {
			out[m.Name] = fromXMLValue(m.Value)
		}
		return out
	case v.String != nil:
		return *v.String
	default:
		return ""
	}
}

func envelopeFromMap(m map[string]any) bridge.ExecutionResult {
	result := bridge.ExecutionResult{
		Stdout: stringOf(m["stdout"]),
		Stderr: stringOf(m["stderr"]),
	}
	if elapsed, ok := m["elapsed_ms"].(int); ok {
		result.ElapsedMS = int64(elapsed)
	}
	if success, _ := m["success"].(bool); success {
		result.Success = true
		result.Result = m["result"]
		return result
	}
	result.ErrorKind = bridge.Kind(stringOf(m["error_kind"]))
	result.ErrorMessage = stringOf(m["error_message"])
	result.ErrorTraceback = stringOf(m["error_traceback"])
	return result
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func encodeExecuteCall(method string, params map[string]any) string {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>execute</methodName><params>")
	buf.WriteString("<param><value><string>")
	xml.EscapeText(&buf, []byte(method))
	buf.WriteString("</string></value></param>")
	buf.WriteString("<param>")
	writeValue(&buf, params)
	buf.WriteString("</param>")
	buf.WriteString("</params></methodCall>")
	return buf.String()
}

func writeValue(buf *bytes.Buffer, v any) {
	buf.WriteString("<value>")
	switch t := v.(type) {
	case nil:
		buf.WriteString("<string></string>")
	case string:
		buf.WriteString("<string>")
		xml.EscapeText(buf, []byte(t))
		buf.WriteString("</string>")
	case bool:
		if t {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case int:
		fmt.Fprintf(buf, "<int>%d</int>", t)
	case float64:
		fmt.Fprintf(buf, "<double>%v</double>", t)
	case map[string]any:
		buf.WriteString("<struct>")
		for k, item := range t {
			buf.WriteString("<member><name>")
			xml.EscapeText(buf, []byte(k))
			buf.WriteString("</name>")
			writeValue(buf, item)
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	case []any:
		buf.WriteString("<array><data>")
		for _, item := range t {
			writeValue(buf, item)
		}
		buf.WriteString("</data></array>")
	default:
		buf.WriteString("<string>")
		xml.EscapeText(buf, []byte(fmt.Sprintf("%v", t)))
		buf.WriteString("</string>")
	}
	buf.WriteString("</value>")
}
