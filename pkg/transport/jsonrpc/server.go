// Package jsonrpc implements the CAD-side newline-delimited JSON-RPC
// transport server: it listens on a TCP port, authenticates each connection
// with a shared token handshake, and serializes every request through a
// single dispatch.Dispatcher.
package jsonrpc

import (
	"bufio"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/engine"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/runtime"
)

// Dispatcher is the subset of dispatch.Dispatcher the server needs — kept
// as an interface so tests can substitute a fake without spinning up a real
// worker goroutine.
type Dispatcher interface {
	Submit(ctx context.Context, req bridge.ExecutionRequest) (bridge.ExecutionResult, error)
}

// Server is the line-delimited JSON-RPC transport described in spec.md §4.4,
// grounded directly on pkg/coder/claude/mcpserver/server.go's listener,
// per-connection goroutine, and auth-handshake shape.
type Server struct {
	dispatcher Dispatcher
	runtime    runtime.ScriptRuntime
	authToken  string
	logger     *logx.Logger

	mu       sync.Mutex
	listener net.Listener
	port     int
}

// NewServer builds a Server. authToken is the shared secret every
// connection must present as its first message before any request is
// served.
func NewServer(dispatcher Dispatcher, rt runtime.ScriptRuntime, authToken string, logger *logx.Logger) *Server {
	return &Server{dispatcher: dispatcher, runtime: rt, authToken: authToken, logger: logger}
}

// Start binds host:port and begins accepting connections in the
// background, returning once the listener is bound so callers can read
// Port() immediately.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return bridge.Wrap(bridge.Internal, "bind json-rpc listener", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.mu.Unlock()

	go s.acceptLoop(ctx, ln)
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("accept failed: %v", err)
			continue
		}
		go s.handleConnection(ctx, conn)
	}
}

// Port returns the bound port, valid only after Start returns successfully.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

type authMessage struct {
	Auth string `json:"auth"`
}

type authResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	if err := s.authenticate(reader, conn); err != nil {
		s.logger.Warn("connection from %s failed auth: %v", conn.RemoteAddr(), err)
		return
	}

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return // ConnectionLost from the client's point of view.
		}
		if len(line) == 0 {
			continue
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.sendError(conn, nil, -32700, "parse error")
			continue
		}
		s.handleRequest(ctx, conn, &req)
	}
}

func (s *Server) authenticate(reader *bufio.Reader, conn net.Conn) error {
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return err
	}
	var auth authMessage
	if err := json.Unmarshal(line, &auth); err != nil {
		s.write(conn, authResponse{Error: "malformed auth message"})
		return err
	}
	if subtle.ConstantTimeCompare([]byte(auth.Auth), []byte(s.authToken)) != 1 {
		s.write(conn, authResponse{Error: "invalid token"})
		return fmt.Errorf("invalid token")
	}
	return s.write(conn, authResponse{Authenticated: true})
}

func (s *Server) handleRequest(ctx context.Context, conn net.Conn, req *JSONRPCRequest) {
	switch req.Method {
	case "ping":
		s.sendResult(conn, req.ID, map[string]any{"pong": true})
	case "describe":
		s.sendResult(conn, req.ID, map[string]any{"ui_available": s.runtime.UIAvailable(), "runtime": s.runtime.Name()})
	case "execute":
		s.handleExecute(ctx, conn, req)
	default:
		s.sendError(conn, req.ID, -32601, "method not found")
	}
}

type executeParams struct {
	Method    string         `json:"method"`
	Params    map[string]any `json:"params"`
	TimeoutMS int            `json:"timeout_ms"`
}

func (s *Server) handleExecute(ctx context.Context, conn net.Conn, req *JSONRPCRequest) {
	var params executeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(conn, req.ID, -32602, "invalid params")
			return
		}
	}

	execReq := bridge.ExecutionRequest{
		ID:        fmt.Sprintf("%v", req.ID),
		Method:    params.Method,
		Params:    params.Params,
		TimeoutMS: params.TimeoutMS,
	}

	if err := engine.CheckUIAvailable(s.runtime); err != nil && requiresUI(params.Method) {
		s.sendResult(conn, req.ID, bridge.Fail(bridge.UIUnavailable, err.Error(), "", "", "", 0))
		return
	}

	result, err := s.dispatcher.Submit(ctx, execReq)
	if err != nil {
		s.sendResult(conn, req.ID, bridge.Fail(bridge.KindOf(err), err.Error(), "", "", "", 0))
		return
	}
	s.sendResult(conn, req.ID, result)
}

// requiresUI is a placeholder hook for transports that want to pre-check UI
// availability before even enqueueing a request; the authoritative check
// always happens inside the rendered tool template itself (see guardUI in
// pkg/tools/view.go and the self-guarding UI gating note in SPEC_FULL.md
// §7), so this defaults to false here — the dispatcher-level check is a
// fast-path optimization, never the only gate.
func requiresUI(string) bool { return false }

func (s *Server) sendResult(conn net.Conn, id any, result any) {
	s.send(conn, JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(conn net.Conn, id any, code int, message string) {
	s.send(conn, JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &JSONRPCError{Code: code, Message: message}})
}

func (s *Server) send(conn net.Conn, resp JSONRPCResponse) {
	if err := s.write(conn, resp); err != nil {
		s.logger.Warn("write failed: %v", err)
	}
}

func (s *Server) write(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}
