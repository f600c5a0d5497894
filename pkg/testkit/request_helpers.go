package testkit

import "cadbridge/pkg/bridge"

// RequestBuilder helps assemble ExecutionRequest fixtures for tests without
// a real CAD script runtime.
type RequestBuilder struct {
	req bridge.ExecutionRequest
}

// NewRequest starts a builder for the given method name.
func NewRequest(method string) *RequestBuilder {
	return &RequestBuilder{req: bridge.ExecutionRequest{Method: method, Params: map[string]any{}}}
}

// WithID sets an explicit request ID, overriding dispatch's uuid fallback.
func (b *RequestBuilder) WithID(id string) *RequestBuilder {
	b.req.ID = id
	return b
}

// WithParam sets one parameter key/value.
func (b *RequestBuilder) WithParam(key string, value any) *RequestBuilder {
	b.req.Params[key] = value
	return b
}

// WithTimeoutMS overrides the request's timeout.
func (b *RequestBuilder) WithTimeoutMS(ms int) *RequestBuilder {
	b.req.TimeoutMS = ms
	return b
}

// Build returns the constructed ExecutionRequest.
func (b *RequestBuilder) Build() bridge.ExecutionRequest {
	return b.req
}

// PingRequest is a minimal request exercising the "ping" method every
// transport server answers without touching the script runtime at all.
func PingRequest() bridge.ExecutionRequest {
	return NewRequest("ping").Build()
}

// SketchExtrudeRequest is a canned "extrude_sketch" request carrying a
// sketch name and an extrusion distance, useful for exercising the full
// dispatch→runtime path with a non-empty parameter set instead of an empty
// one.
func SketchExtrudeRequest(sketchName string, distanceMM float64) bridge.ExecutionRequest {
	return NewRequest("extrude_sketch").
		WithParam("sketch_name", sketchName).
		WithParam("distance_mm", distanceMM).
		Build()
}

// SuccessfulResult builds a canned successful envelope carrying result.
func SuccessfulResult(result any) bridge.ExecutionResult {
	return bridge.Ok(result, "", "", 0)
}

// FailedResult builds a canned failed envelope classified under kind.
func FailedResult(kind bridge.Kind, message string) bridge.ExecutionResult {
	return bridge.Fail(kind, message, "", "", "", 0)
}

// TimeoutResult is a canned Timeout-classified failure, the shape every
// transport and tool must treat as retryable-by-the-caller, not fatal.
func TimeoutResult() bridge.ExecutionResult {
	return FailedResult(bridge.Timeout, "execution abandoned")
}

// UIUnavailableResult is a canned failure for a tool invoked while the CAD
// application has no active document or UI thread to run against.
func UIUnavailableResult() bridge.ExecutionResult {
	return FailedResult(bridge.UIUnavailable, "no active document")
}
