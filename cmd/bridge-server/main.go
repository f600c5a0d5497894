// bridge-server is the CAD-side process: it owns the single ScriptRuntime,
// serializes every incoming call through pkg/dispatch, and exposes that
// dispatcher over the XML-RPC and line-delimited JSON-RPC transports at the
// same time. It is grounded directly on cmd/maestro-mcp-server/main.go's
// flag-parse-then-serve-until-signal shape.
//
// Usage: bridge-server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/config"
	"cadbridge/pkg/dispatch"
	"cadbridge/pkg/engine"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/metrics"
	"cadbridge/pkg/runtime"
	"cadbridge/pkg/transport/jsonrpc"
	"cadbridge/pkg/transport/xmlrpc"
	"cadbridge/pkg/version"
)

// drainTimeout bounds how long bridge-server waits for in-flight dispatch
// work to finish once a shutdown signal arrives.
const drainTimeout = 5 * time.Second

func main() {
	logger := logx.NewLogger("bridge-server")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge-server: %v\n", err)
		os.Exit(1)
	}

	authToken, generated := cfg.AuthToken, false
	if authToken == "" {
		authToken, generated = uuid.NewString(), true
	}
	logger.Info("auth token fingerprint %s", fingerprint(authToken))

	lifecycle := config.NewLifecycle()
	ctx, cancel := config.RunContext(context.Background())
	defer cancel()

	rt := runtime.NewSubprocessRuntime(cfg.RuntimePath)

	reg := metrics.New(prometheus.DefaultRegisterer)

	d := dispatch.New(rt, instrumentedExecute(reg), cfg.DispatchQueueSize, logger)
	go d.Run(ctx)

	jsonServer := jsonrpc.NewServer(d, rt, authToken, logger)
	if err := jsonServer.Start(ctx, cfg.Host, cfg.SocketPort); err != nil {
		fmt.Fprintf(os.Stderr, "bridge-server: %v\n", err)
		os.Exit(1)
	}

	xmlServer := xmlrpc.NewServer(d, rt, logger)
	if err := xmlServer.Start(ctx, cfg.Host, cfg.XMLRPCPort); err != nil {
		fmt.Fprintf(os.Stderr, "bridge-server: %v\n", err)
		os.Exit(1)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.HandlerFor(prometheus.DefaultGatherer)}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped: %v", err)
			}
		}()
	}

	lifecycle.MarkRunning()
	printBanner(cfg, jsonServer.Port(), xmlServer.Port())
	if generated {
		fmt.Printf("  auth token      %s (generated; pass as BRIDGE_AUTH_TOKEN to bridge-mcp)\n", authToken)
	}

	<-ctx.Done()
	lifecycle.MarkDraining()
	logger.Info("shutting down, draining in-flight work")

	drainCtx, drainCancel := config.DrainWindow(drainTimeout)
	defer drainCancel()
	if metricsServer != nil {
		_ = metricsServer.Shutdown(drainCtx)
	}

	select {
	case <-d.Stopped():
	case <-drainCtx.Done():
		logger.Warn("drain window expired with work still in flight")
	}
	lifecycle.MarkStopped()
}

// instrumentedExecute wraps engine.Execute so every dispatched request also
// updates the Prometheus counters and histogram, without engine itself
// needing to know metrics exist.
func instrumentedExecute(reg *metrics.Registry) dispatch.Execute {
	return func(ctx context.Context, rt runtime.ScriptRuntime, req bridge.ExecutionRequest) bridge.ExecutionResult {
		start := time.Now()
		result := engine.Execute(ctx, rt, req)
		reg.ObserveExecution(rt.Name(), result.Success, time.Since(start))
		if !result.Success {
			reg.ObserveError(string(result.ErrorKind))
		}
		return result
	}
}

// fingerprint hashes token with bcrypt and returns the digest's last 12
// characters, so a log line can show that a token is set without ever
// printing the secret itself. bcrypt salts every hash randomly, so the
// same token yields a different fingerprint on every call.
// The handshake still compares the plain token via
// crypto/subtle.ConstantTimeCompare (see pkg/transport/jsonrpc); this is
// defense in depth for whatever ends up in a log aggregator.
func fingerprint(token string) string {
	sum, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	if err != nil {
		return "unavailable"
	}
	return string(sum[len(sum)-12:])
}

func printBanner(cfg config.Config, jsonPort, xmlPort int) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	line := func(s string) {
		if isTTY {
			fmt.Printf("\033[36m%s\033[0m\n", s)
		} else {
			fmt.Println(s)
		}
	}
	line("cadbridge bridge-server")
	fmt.Printf("  version         %s (%s, %s)\n", version.Version, version.Commit, version.Date)
	fmt.Printf("  mode            %s\n", cfg.Mode)
	fmt.Printf("  json-rpc        %s:%d\n", cfg.Host, jsonPort)
	fmt.Printf("  xml-rpc         %s:%d/RPC2\n", cfg.Host, xmlPort)
	if cfg.MetricsAddr != "" {
		fmt.Printf("  metrics         http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Printf("  dispatch queue  %d\n", cfg.DispatchQueueSize)
}
