// bridge-mcp is the MCP-facing adapter process: it connects to a running
// bridge-server over whichever transport Config.Mode selects, exposes the
// registered CAD tools and resources as an MCP server, and serves that
// surface over stdio (the default, matching every MCP client's subprocess
// launch contract) or HTTP when MCP_HTTP_ADDR is set. Grounded on
// cmd/maestro-mcp-server/main.go's flag-then-serve shape, generalized from
// a single in-process provider to one that first dials out to a bridge
// client.
//
// Usage: bridge-mcp
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cadbridge/pkg/bridgeclient"
	"cadbridge/pkg/bridgeclient/embedded"
	"cadbridge/pkg/bridgeclient/socket"
	"cadbridge/pkg/bridgeclient/xmlrpc"
	"cadbridge/pkg/config"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/mcpadapter"
	"cadbridge/pkg/resources"
	"cadbridge/pkg/tools"
	"cadbridge/pkg/version"
)

// toolsManifest is the optional allow-list overlay read from
// Config.ToolsManifestPath, restricting which tools a session may invoke.
type toolsManifest struct {
	AllowedTools []string `yaml:"allowed_tools"`
}

func main() {
	logger := logx.NewLogger("bridge-mcp")
	logger.Info("bridge-mcp %s (%s, %s)", version.Version, version.Commit, version.Date)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge-mcp: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := config.RunContext(context.Background())
	defer cancel()

	client, err := dialClient(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge-mcp: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	allowedTools, err := loadManifest(cfg.ToolsManifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge-mcp: %v\n", err)
		os.Exit(1)
	}

	bctx := &tools.BridgeContext{
		Client:      client,
		ToolTimeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}
	provider := tools.NewProvider(bctx, allowedTools)

	resources.RegisterCapabilities(func() string { return string(cfg.Mode) })
	resources.RegisterDocument(client)
	resources.Seal()

	adapter := mcpadapter.New(provider, logger)

	lifecycle := config.NewLifecycle()
	lifecycle.MarkRunning()

	if cfg.MCPHTTPAddr != "" {
		serveHTTP(ctx, cfg.MCPHTTPAddr, adapter, logger)
		return
	}

	logger.Info("serving MCP over stdio, mode=%s", cfg.Mode)
	if err := adapter.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "bridge-mcp: stdio serve: %v\n", err)
		os.Exit(1)
	}
	lifecycle.MarkStopped()
}

// dialClient builds the bridgeclient.Client matching cfg.Mode, retrying the
// initial connection with a short backoff so bridge-mcp can be started
// concurrently with (slightly before) bridge-server without failing.
func dialClient(ctx context.Context, cfg config.Config, logger *logx.Logger) (bridgeclient.Client, error) {
	switch cfg.Mode {
	case config.ModeSocket:
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.SocketPort)
		return dialSocketWithRetry(ctx, addr, cfg.AuthToken, logger)
	case config.ModeXMLRPC:
		url := fmt.Sprintf("http://%s:%d/RPC2", cfg.Host, cfg.XMLRPCPort)
		return xmlrpc.New(url), nil
	case config.ModeEmbedded:
		if !embedded.Available() {
			return nil, &config.ConfigError{Message: "MODE=embedded requires a binary built with the embedded build tag"}
		}
		return embedded.New(), nil
	default:
		return nil, &config.ConfigError{Message: fmt.Sprintf("unsupported mode %q", cfg.Mode)}
	}
}

func dialSocketWithRetry(ctx context.Context, addr, authToken string, logger *logx.Logger) (bridgeclient.Client, error) {
	const maxAttempts = 5
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := socket.New(ctx, addr, authToken, logger)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warn("connect to bridge-server at %s failed (attempt %d/%d): %v", addr, attempt, maxAttempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("could not reach bridge-server at %s: %w", addr, lastErr)
}

func loadManifest(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tools manifest %s: %w", path, err)
	}
	var manifest toolsManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse tools manifest %s: %w", path, err)
	}
	for i, name := range manifest.AllowedTools {
		manifest.AllowedTools[i] = strings.TrimSpace(name)
	}
	return manifest.AllowedTools, nil
}

func serveHTTP(ctx context.Context, addr string, adapter *mcpadapter.Adapter, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/mcp", adapter.HTTPHandler())

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	logger.Info("serving MCP over HTTP at %s/mcp", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "bridge-mcp: http serve: %v\n", err)
		os.Exit(1)
	}
}
