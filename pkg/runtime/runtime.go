// Package runtime defines the ScriptRuntime interface the dispatcher (pkg
// dispatch) drives — the boundary between this module and whatever actually
// runs CAD scripts. A production deployment embeds its own ScriptRuntime
// directly against the CAD process; this package also ships a subprocess
// implementation suited to local development and integration testing.
package runtime

import "context"

// ScriptRuntime executes snippets on behalf of the dispatcher. Exactly one
// ScriptRuntime is owned by exactly one dispatcher worker — calls are never
// made concurrently by this module's own code, though an implementation
// must still treat ctx cancellation as advisory rather than guaranteed: a
// runtime is free to keep running after its caller stops waiting (see
// pkg/dispatch's cooperative-cancellation note).
type ScriptRuntime interface {
	// Run executes snippet with the given variable bindings and returns
	// whatever the snippet produced as its result value alongside captured
	// stdout/stderr. A *ScriptError means the snippet itself raised an
	// exception; any other non-nil error means the runtime could not run
	// it or ctx ended first.
	Run(ctx context.Context, snippet string, bindings map[string]any) (stdout, stderr string, result any, err error)

	// UIAvailable reports whether the host CAD application currently has an
	// interactive GUI up. Checked fresh on every call: a headless batch host
	// can gain a GUI, and an interactive host can lose one, at any point
	// during the process lifetime, so this is never cached at construction.
	UIAvailable() bool

	// Name identifies the runtime implementation for logging.
	Name() string
}

// ScriptError is returned by a ScriptRuntime when the snippet itself raised
// an exception (as opposed to the runtime failing to run it at all).
type ScriptError struct {
	Message   string
	Traceback string
}

func (e *ScriptError) Error() string { return e.Message }
