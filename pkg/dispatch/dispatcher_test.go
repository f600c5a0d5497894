package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/runtime"
)

type fakeRuntime struct {
	mu      sync.Mutex
	running int
	maxSeen int
	delay   time.Duration
}

func (f *fakeRuntime) Name() string      { return "fake" }
func (f *fakeRuntime) UIAvailable() bool { return true }

func (f *fakeRuntime) Run(ctx context.Context, snippet string, bindings map[string]any) (string, string, any, error) {
	f.mu.Lock()
	f.running++
	if f.running > f.maxSeen {
		f.maxSeen = f.running
	}
	f.mu.Unlock()

	time.Sleep(f.delay)

	f.mu.Lock()
	f.running--
	f.mu.Unlock()
	return "", "", snippet, nil
}

func echoExecute(ctx context.Context, rt runtime.ScriptRuntime, req bridge.ExecutionRequest) bridge.ExecutionResult {
	_, _, result, err := rt.Run(ctx, req.Method, req.Params)
	if err != nil {
		return bridge.Fail(bridge.Internal, err.Error(), "", "", "", 0)
	}
	return bridge.Ok(result, "", "", 0)
}

func TestDispatcherSerializesExecution(t *testing.T) {
	rt := &fakeRuntime{delay: 20 * time.Millisecond}
	d := New(rt, echoExecute, 8, logx.NewLogger("dispatch"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.Submit(context.Background(), bridge.ExecutionRequest{Method: "noop"})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	assert.Equal(t, 1, rt.maxSeen, "no two scripts should ever run concurrently")
}

func TestDispatcherOverloaded(t *testing.T) {
	rt := &fakeRuntime{delay: 50 * time.Millisecond}
	d := New(rt, echoExecute, 1, logx.NewLogger("dispatch"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// Fill the one worker slot and the one queue slot, then a third submit
	// should be rejected as Overloaded without blocking.
	go func() { _, _ = d.Submit(context.Background(), bridge.ExecutionRequest{Method: "a"}) }()
	time.Sleep(5 * time.Millisecond)
	go func() { _, _ = d.Submit(context.Background(), bridge.ExecutionRequest{Method: "b"}) }()
	time.Sleep(5 * time.Millisecond)

	_, err := d.Submit(context.Background(), bridge.ExecutionRequest{Method: "c"})
	require.Error(t, err)
	assert.Equal(t, bridge.Overloaded, bridge.KindOf(err))
}

func TestDispatcherAbandonedJobStillRunsToCompletion(t *testing.T) {
	rt := &fakeRuntime{delay: 50 * time.Millisecond}
	d := New(rt, echoExecute, 4, logx.NewLogger("dispatch"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer callCancel()

	_, err := d.Submit(callCtx, bridge.ExecutionRequest{Method: "slow"})
	require.Error(t, err)
	assert.Equal(t, bridge.Timeout, bridge.KindOf(err))

	// The runtime is still serialized even though the caller gave up: the
	// next submit must wait for the abandoned job to finish first.
	start := time.Now()
	_, err = d.Submit(context.Background(), bridge.ExecutionRequest{Method: "next"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSubmitAssignsIDWhenMissing(t *testing.T) {
	var seenID string
	capture := func(ctx context.Context, rt runtime.ScriptRuntime, req bridge.ExecutionRequest) bridge.ExecutionResult {
		seenID = req.ID
		return bridge.Ok(nil, "", "", 0)
	}

	d := New(&fakeRuntime{}, capture, 4, logx.NewLogger("dispatch"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	_, err := d.Submit(context.Background(), bridge.ExecutionRequest{Method: "noop"})
	require.NoError(t, err)
	assert.NotEmpty(t, seenID)

	_, err = d.Submit(context.Background(), bridge.ExecutionRequest{ID: "caller-supplied", Method: "noop"})
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", seenID)
}
