// Package testkit provides testing utilities for exercising bridge clients,
// transports, and tools without a real CAD application on the other end.
package testkit

import (
	"strings"
	"testing"

	"cadbridge/pkg/bridge"
)

// AssertExecutionOk verifies result succeeded and carries no error fields.
func AssertExecutionOk(t *testing.T, result bridge.ExecutionResult) {
	t.Helper()
	if !result.Success {
		t.Errorf("expected success, got error kind=%s message=%q", result.ErrorKind, result.ErrorMessage)
	}
	if result.ErrorKind != "" {
		t.Errorf("expected empty ErrorKind on success, got %q", result.ErrorKind)
	}
}

// AssertExecutionFailed verifies result failed and was classified under kind.
func AssertExecutionFailed(t *testing.T, result bridge.ExecutionResult, kind bridge.Kind) {
	t.Helper()
	if result.Success {
		t.Error("expected failure, got success")
		return
	}
	if result.ErrorKind != kind {
		t.Errorf("expected error kind %s, got %s", kind, result.ErrorKind)
	}
}

// AssertResultEquals verifies a successful result's Result payload.
func AssertResultEquals(t *testing.T, result bridge.ExecutionResult, expected any) {
	t.Helper()
	AssertExecutionOk(t, result)
	if result.Result != expected {
		t.Errorf("expected result %v, got %v", expected, result.Result)
	}
}

// AssertErrorContains verifies a failed result's message contains text.
func AssertErrorContains(t *testing.T, result bridge.ExecutionResult, text string) {
	t.Helper()
	if result.Success {
		t.Error("expected failure, got success")
		return
	}
	if !strings.Contains(result.ErrorMessage, text) {
		t.Errorf("expected error message to contain %q, got %q", text, result.ErrorMessage)
	}
}

// AssertConnectionState verifies a client's reported connection state.
func AssertConnectionState(t *testing.T, got, want bridge.ConnectionState) {
	t.Helper()
	if got != want {
		t.Errorf("expected connection state %s, got %s", want, got)
	}
}

// AssertToolDescriptor verifies the common shape every registered tool must
// satisfy: a non-empty name, description, and an input schema with a type.
func AssertToolDescriptor(t *testing.T, d bridge.ToolDescriptor) {
	t.Helper()
	if d.Name == "" {
		t.Error("expected tool descriptor to have a name")
	}
	if d.Description == "" {
		t.Errorf("tool %q: expected non-empty description", d.Name)
	}
	if d.InputSchema == nil {
		t.Errorf("tool %q: expected non-nil input schema", d.Name)
		return
	}
	if _, ok := d.InputSchema["type"]; !ok {
		t.Errorf("tool %q: expected input schema to declare a type", d.Name)
	}
}

// AssertResourceDescriptor verifies the common shape every registered
// resource must satisfy.
func AssertResourceDescriptor(t *testing.T, d bridge.ResourceDescriptor) {
	t.Helper()
	if d.URI == "" {
		t.Error("expected resource descriptor to have a URI")
	}
	if d.Name == "" {
		t.Errorf("resource %q: expected non-empty name", d.URI)
	}
}
