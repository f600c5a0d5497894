// Package dispatch serializes every script execution through a single
// worker goroutine that owns the one ScriptRuntime handle, so two scripts
// never run concurrently regardless of how many transport connections are
// submitting requests.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cadbridge/pkg/bridge"
	"cadbridge/pkg/logx"
	"cadbridge/pkg/runtime"
)

// Execute runs one request through a Dispatcher's ScriptRuntime and
// classifies the outcome. Supplied by pkg/engine; dispatch only owns the
// queueing and serialization, not the execution semantics themselves.
type Execute func(ctx context.Context, rt runtime.ScriptRuntime, req bridge.ExecutionRequest) bridge.ExecutionResult

type job struct {
	ctx   context.Context
	req   bridge.ExecutionRequest
	reply chan bridge.ExecutionResult
}

// Dispatcher owns one ScriptRuntime and a bounded queue of pending jobs,
// run by a single worker goroutine (the "main-thread" stand-in for the CAD
// UI thread).
type Dispatcher struct {
	runtime runtime.ScriptRuntime
	execute Execute
	queue   chan job
	logger  *logx.Logger
	done    chan struct{}
}

// New builds a Dispatcher with the given queue capacity. A full queue
// causes Submit to return an Overloaded error immediately rather than
// block — callers own their own backpressure/retry policy.
func New(rt runtime.ScriptRuntime, execute Execute, queueSize int, logger *logx.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		runtime: rt,
		execute: execute,
		queue:   make(chan job, queueSize),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Run drives the single worker loop until ctx is canceled, draining any
// jobs already queued before returning.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case j, ok := <-d.queue:
			if !ok {
				return
			}
			d.runOne(j)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

// drain runs every job still sitting in the queue when shutdown begins, so
// a caller whose Submit already succeeded always gets a reply instead of
// hanging forever.
func (d *Dispatcher) drain() {
	for {
		select {
		case j, ok := <-d.queue:
			if !ok {
				return
			}
			d.runOne(j)
		default:
			return
		}
	}
}

func (d *Dispatcher) runOne(j job) {
	start := time.Now()
	result := d.execute(j.ctx, d.runtime, j.req)
	d.logger.Debug("executed %s in %s (success=%v)", j.req.Method, time.Since(start), result.Success)

	// j.ctx may already be canceled (the caller gave up after a timeout) —
	// the runtime still ran to completion per the cooperative-cancellation
	// model, but nothing is left listening on reply. The buffered send
	// below never blocks the worker either way.
	select {
	case j.reply <- result:
	default:
	}
}

// Submit enqueues req and blocks until it completes or ctx is canceled. A
// full queue returns an Overloaded error without enqueueing anything.
func (d *Dispatcher) Submit(ctx context.Context, req bridge.ExecutionRequest) (bridge.ExecutionResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	reply := make(chan bridge.ExecutionResult, 1)
	j := job{ctx: ctx, req: req, reply: reply}

	select {
	case d.queue <- j:
	default:
		return bridge.ExecutionResult{}, bridge.NewError(bridge.Overloaded, fmt.Sprintf("dispatch queue full (capacity %d)", cap(d.queue)))
	}

	select {
	case result := <-reply:
		return result, nil
	case <-ctx.Done():
		// The worker may still be running this job (no true cancellation);
		// its eventual reply send above is a no-op since nobody is
		// listening on this channel anymore.
		return bridge.ExecutionResult{}, bridge.Wrap(bridge.Timeout, "execution abandoned", ctx.Err())
	}
}

// Stopped is closed once Run has fully exited and drained its queue.
func (d *Dispatcher) Stopped() <-chan struct{} {
	return d.done
}
