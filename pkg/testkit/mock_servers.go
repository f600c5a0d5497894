package testkit

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"cadbridge/pkg/bridge"
)

// MockBridgeSocketServer emulates the wire protocol pkg/transport/jsonrpc
// speaks (auth handshake, then newline-delimited JSON-RPC "execute" calls),
// without pulling in a real dispatch.Dispatcher or script runtime. handler
// decides the ExecutionResult for every "execute" call; "ping" gets a canned
// pong reply and any other method a -32601 method-not-found error. Returns
// the bound address and a cleanup func.
func MockBridgeSocketServer(t *testing.T, authToken string, handler func(method string, params map[string]any) bridge.ExecutionResult) (addr string, closeFn func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("mock bridge socket server: listen: %v", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveMockSocketConn(conn, authToken, handler)
		}
	}()

	return ln.Addr().String(), func() { ln.Close() }
}

func serveMockSocketConn(conn net.Conn, authToken string, handler func(string, map[string]any) bridge.ExecutionResult) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	authLine, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}
	var auth struct {
		Auth string `json:"auth"`
	}
	_ = json.Unmarshal(authLine, &auth)
	if auth.Auth != authToken {
		writeMockLine(conn, map[string]any{"authenticated": false, "error": "invalid token"})
		return
	}
	writeMockLine(conn, map[string]any{"authenticated": true})

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var req struct {
			ID     int64           `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		switch req.Method {
		case "execute":
			var execParams struct {
				Method string         `json:"method"`
				Params map[string]any `json:"params"`
			}
			_ = json.Unmarshal(req.Params, &execParams)
			result := handler(execParams.Method, execParams.Params)
			writeMockLine(conn, map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
		case "ping":
			writeMockLine(conn, map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": map[string]any{"pong": true}})
		default:
			writeMockLine(conn, map[string]any{"jsonrpc": "2.0", "id": req.ID, "error": map[string]any{"code": -32601, "message": "method not found"}})
		}
	}
}

func writeMockLine(conn net.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = conn.Write(data)
}

// MockMCPHTTPServer emulates pkg/mcpadapter's POST-only HTTP surface
// (mounted at /mcp by cmd/bridge-mcp) for exercising bridge-proxy and other
// HTTP-speaking callers without a real tool registry behind it. handler
// receives the decoded request body and returns the value to encode as the
// response.
func MockMCPHTTPServer(handler func(body map[string]any) map[string]any) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handler(body))
	})
	return httptest.NewServer(mux)
}
