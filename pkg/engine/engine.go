// Package engine implements the execution-engine contract: given a
// ScriptRuntime and a request, run it under a timeout, capture its output,
// and classify the outcome into exactly one of a successful or a failed
// envelope.
package engine

import (
	"context"
	"errors"
	"time"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/runtime"
)

// Execute runs req against rt, enforcing req's timeout and classifying any
// failure. Matches the dispatch.Execute function type so it can be handed
// straight to dispatch.New.
func Execute(ctx context.Context, rt runtime.ScriptRuntime, req bridge.ExecutionRequest) bridge.ExecutionResult {
	ctx, cancel := context.WithTimeout(ctx, req.Timeout())
	defer cancel()

	start := time.Now()
	stdout, stderr, result, err := rt.Run(ctx, req.Method, req.Params)
	elapsed := time.Since(start)

	if err == nil {
		return bridge.Ok(result, stdout, stderr, elapsed)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return bridge.Fail(bridge.Timeout, "script execution timed out", stdout, stderr, "", elapsed)
	}

	var scriptErr *runtime.ScriptError
	if errors.As(err, &scriptErr) {
		return bridge.Fail(bridge.ScriptError, scriptErr.Message, stdout, stderr, scriptErr.Traceback, elapsed)
	}

	return bridge.Fail(bridge.Internal, err.Error(), stdout, stderr, "", elapsed)
}

// CheckUIAvailable returns a bridge.Error of kind UIUnavailable when rt
// reports no GUI is up. The JSON-RPC transport server calls this before
// dispatching a UI-touching request; tool templates check ui_available()
// from inside the rendered snippet itself instead (see pkg/tools).
func CheckUIAvailable(rt runtime.ScriptRuntime) error {
	if rt.UIAvailable() {
		return nil
	}
	return bridge.NewError(bridge.UIUnavailable, "GUI not available")
}
