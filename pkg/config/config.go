// Package config loads the bridge's environment-driven configuration and
// manages its start/running/drain/stop lifecycle.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Mode selects which bridge client cmd/bridge-mcp uses to reach the CAD
// bridge server.
type Mode string

const (
	ModeXMLRPC   Mode = "xmlrpc"
	ModeSocket   Mode = "socket"
	ModeEmbedded Mode = "embedded"
)

// Config is an immutable snapshot of environment-derived settings. Callers
// always receive it by value so nobody can mutate a shared instance out
// from under another goroutine.
type Config struct {
	Mode              Mode
	Host              string
	XMLRPCPort        int
	SocketPort        int
	TimeoutMS         int
	RuntimePath       string
	AllowRemoteBind   bool
	DispatchQueueSize int
	MCPHTTPAddr       string
	ToolsManifestPath string
	AuthToken         string
	MetricsAddr       string
}

// LoadConfig reads and validates configuration from the environment,
// applying the defaults from spec.md §6/SPEC_FULL.md §10. It fails fast:
// any invalid combination is returned as a ConfigInvalid error before any
// transport is started, never discovered later at call time.
func LoadConfig() (Config, error) {
	xmlrpcPort, err := envInt("XMLRPC_PORT", 9875)
	if err != nil {
		return Config{}, err
	}
	socketPort, err := envInt("SOCKET_PORT", 9876)
	if err != nil {
		return Config{}, err
	}
	timeoutMS, err := envInt("TIMEOUT_MS", 30000)
	if err != nil {
		return Config{}, err
	}
	queueSize, err := envInt("DISPATCH_QUEUE_SIZE", 64)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Mode:              Mode(envOr("MODE", string(ModeXMLRPC))),
		Host:              envOr("HOST", "127.0.0.1"),
		XMLRPCPort:        xmlrpcPort,
		SocketPort:        socketPort,
		TimeoutMS:         timeoutMS,
		RuntimePath:       os.Getenv("RUNTIME_PATH"),
		AllowRemoteBind:   envBool("ALLOW_REMOTE_BIND"),
		DispatchQueueSize: queueSize,
		MCPHTTPAddr:       os.Getenv("MCP_HTTP_ADDR"),
		ToolsManifestPath: os.Getenv("TOOLS_MANIFEST"),
		AuthToken:         os.Getenv("BRIDGE_AUTH_TOKEN"),
		MetricsAddr:       os.Getenv("METRICS_ADDR"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Mode {
	case ModeXMLRPC, ModeSocket, ModeEmbedded:
	default:
		return configErr("MODE must be one of xmlrpc, socket, embedded; got %q", c.Mode)
	}
	if c.XMLRPCPort <= 0 || c.XMLRPCPort > 65535 {
		return configErr("XMLRPC_PORT out of range: %d", c.XMLRPCPort)
	}
	if c.SocketPort <= 0 || c.SocketPort > 65535 {
		return configErr("SOCKET_PORT out of range: %d", c.SocketPort)
	}
	if c.TimeoutMS <= 0 {
		return configErr("TIMEOUT_MS must be positive: %d", c.TimeoutMS)
	}
	if c.DispatchQueueSize <= 0 {
		return configErr("DISPATCH_QUEUE_SIZE must be positive: %d", c.DispatchQueueSize)
	}
	if !c.AllowRemoteBind && c.Host != "127.0.0.1" && c.Host != "localhost" && c.Host != "::1" {
		return configErr("binding to %q requires ALLOW_REMOTE_BIND=1", c.Host)
	}
	return nil
}

func configErr(format string, args ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// ConfigError reports invalid configuration. Callers that need the
// ConfigInvalid classification from pkg/bridge should wrap it with
// bridge.Wrap(bridge.ConfigInvalid, ..., err); kept as its own type here so
// pkg/config has no dependency on pkg/bridge for the common case of a
// bootstrap script that only wants a readable message and a non-zero exit.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, configErr("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true"
}
