package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/runtime"
)

type stubRuntime struct {
	stdout, stderr string
	result         any
	err            error
	delay          time.Duration
	uiAvailable    bool
}

func (s *stubRuntime) Name() string      { return "stub" }
func (s *stubRuntime) UIAvailable() bool { return s.uiAvailable }

func (s *stubRuntime) Run(ctx context.Context, snippet string, bindings map[string]any) (string, string, any, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return s.stdout, s.stderr, nil, ctx.Err()
		}
	}
	return s.stdout, s.stderr, s.result, s.err
}

func TestExecuteSuccessEnvelopeExclusivity(t *testing.T) {
	rt := &stubRuntime{result: 7, stdout: "out"}
	res := Execute(context.Background(), rt, bridge.ExecutionRequest{Method: "get_x"})

	require.True(t, res.Success)
	assert.Equal(t, 7, res.Result)
	assert.Empty(t, res.ErrorKind)
	assert.Empty(t, res.ErrorMessage)
}

func TestExecuteTimeoutBound(t *testing.T) {
	rt := &stubRuntime{delay: time.Hour}
	req := bridge.ExecutionRequest{Method: "slow", TimeoutMS: 20}

	start := time.Now()
	res := Execute(context.Background(), rt, req)
	elapsed := time.Since(start)

	require.False(t, res.Success)
	assert.Equal(t, bridge.Timeout, res.ErrorKind)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 5*time.Second+20*time.Millisecond)
	assert.Empty(t, res.Result)
}

func TestExecuteScriptError(t *testing.T) {
	rt := &stubRuntime{err: &runtime.ScriptError{Message: "boom", Traceback: "line 3"}}
	res := Execute(context.Background(), rt, bridge.ExecutionRequest{Method: "bad"})

	require.False(t, res.Success)
	assert.Equal(t, bridge.ScriptError, res.ErrorKind)
	assert.Equal(t, "boom", res.ErrorMessage)
	assert.Equal(t, "line 3", res.ErrorTraceback)
}

func TestExecuteInternalError(t *testing.T) {
	rt := &stubRuntime{err: errors.New("pipe broke")}
	res := Execute(context.Background(), rt, bridge.ExecutionRequest{Method: "x"})

	require.False(t, res.Success)
	assert.Equal(t, bridge.Internal, res.ErrorKind)
}

func TestCheckUIAvailable(t *testing.T) {
	up := &stubRuntime{uiAvailable: true}
	require.NoError(t, CheckUIAvailable(up))

	down := &stubRuntime{uiAvailable: false}
	err := CheckUIAvailable(down)
	require.Error(t, err)
	assert.Equal(t, bridge.UIUnavailable, bridge.KindOf(err))
}
