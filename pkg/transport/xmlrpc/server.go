// Package xmlrpc implements the CAD-side XML-RPC transport server. Like
// pkg/transport/jsonrpc it is stdlib-only (see DESIGN.md: no example repo
// in the pack pulls in a third-party XML-RPC library, and this is a fixed,
// narrow wire format not worth an unrelated dependency).
package xmlrpc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/runtime"
)

// Dispatcher is the subset of dispatch.Dispatcher the server needs.
type Dispatcher interface {
	Submit(ctx context.Context, req bridge.ExecutionRequest) (bridge.ExecutionResult, error)
}

// Server serves XML-RPC methodCall/methodResponse envelopes over HTTP POST,
// the standard XML-RPC transport binding.
type Server struct {
	dispatcher Dispatcher
	runtime    runtime.ScriptRuntime
	logger     *logx.Logger

	httpServer *http.Server
	listener   net.Listener
	port       int
}

// NewServer builds a Server.
func NewServer(dispatcher Dispatcher, rt runtime.ScriptRuntime, logger *logx.Logger) *Server {
	return &Server{dispatcher: dispatcher, runtime: rt, logger: logger}
}

// Start binds host:port and begins serving in the background.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return bridge.Wrap(bridge.Internal, "bind xml-rpc listener", err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/RPC2", s.handleCall)
	s.httpServer = &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		_ = s.httpServer.Close()
	}()
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && ctx.Err() == nil {
			s.logger.Warn("xml-rpc server stopped: %v", err)
		}
	}()
	return nil
}

// Port returns the bound port, valid only after Start returns successfully.
func (s *Server) Port() int { return s.port }

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	call, err := DecodeMethodCall(r.Body)
	if err != nil {
		writeFault(w, 1, fmt.Sprintf("parse error: %v", err))
		return
	}

	switch call.MethodName {
	case "ping":
		writeResponse(w, []Value{{String: "pong"}})
		return
	case "execute":
		s.handleExecute(r.Context(), w, call)
		return
	default:
		writeFault(w, -32601, "method not found: "+call.MethodName)
	}
}

func (s *Server) handleExecute(ctx context.Context, w http.ResponseWriter, call *MethodCall) {
	method, params, timeoutMS, err := decodeExecuteParams(call.Params)
	if err != nil {
		writeFault(w, -32602, err.Error())
		return
	}

	req := bridge.ExecutionRequest{Method: method, Params: params, TimeoutMS: timeoutMS}
	result, err := s.dispatcher.Submit(ctx, req)
	if err != nil {
		result = bridge.Fail(bridge.KindOf(err), err.Error(), "", "", "", 0)
	}
	writeResponse(w, []Value{executionResultToValue(result)})
}
