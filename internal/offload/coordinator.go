// Package offload runs hypothesis tests on a dedicated worker goroutine so a
// long computation cannot stall the caller's flow. At most one offloaded
// computation is outstanding at any time; a busy or disabled coordinator
// falls back to direct synchronous execution, and the two paths produce
// identical results.
package offload

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"statadvisor/domain/stats"
	"statadvisor/internal/apperr"
	"statadvisor/internal/engine"
)

// State tracks the lifecycle of the current offloaded computation.
type State int

const (
	StateIdle State = iota
	StateDispatched
	StateCompleted
	StateTimedOut
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatched:
		return "dispatched"
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed out"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type request struct {
	kind  stats.Kind
	in    engine.Input
	opts  engine.Options
	reply chan response
}

type response struct {
	result *stats.TestResult
	err    error
}

// Coordinator dispatches test runs to a worker goroutine with a timeout.
type Coordinator struct {
	runner  *engine.Runner
	timeout time.Duration
	enabled bool

	// slot admits at most one offloaded computation; contenders fall back
	// to the synchronous path instead of queueing.
	slot *semaphore.Weighted

	mu       sync.Mutex
	state    State
	requests chan request
	quit     chan struct{}
}

// NewCoordinator creates a coordinator over the given runner. A disabled
// coordinator executes everything synchronously.
func NewCoordinator(runner *engine.Runner, timeout time.Duration, enabled bool) *Coordinator {
	c := &Coordinator{
		runner:  runner,
		timeout: timeout,
		enabled: enabled,
		slot:    semaphore.NewWeighted(1),
		state:   StateIdle,
	}
	if enabled {
		c.requests, c.quit = c.startWorker()
	}
	return c
}

// startWorker spawns a worker on a fresh request channel. The worker exits
// through its quit signal; the request channel itself is never closed, so a
// caller blocked on a dispatch send can never hit a closed channel.
func (c *Coordinator) startWorker() (chan request, chan struct{}) {
	requests := make(chan request)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case req := <-requests:
				result, err := c.runner.Run(req.kind, req.in, req.opts)
				// Buffered reply channel: a timed-out caller is gone and
				// must not block the worker.
				req.reply <- response{result: result, err: err}
			case <-quit:
				return
			}
		}
	}()
	return requests, quit
}

// Run executes the test, offloaded when the worker is free, synchronously
// otherwise. Errors carry the same taxonomy on both paths; only the timeout
// error is unique to the offloaded one.
func (c *Coordinator) Run(ctx context.Context, kind stats.Kind, in engine.Input, opts engine.Options) (*stats.TestResult, error) {
	if !c.enabled || !c.slot.TryAcquire(1) {
		return c.runner.Run(kind, in, opts)
	}
	defer c.slot.Release(1)

	c.setState(StateDispatched)
	req := request{
		kind:  kind,
		in:    copyInput(in),
		opts:  opts,
		reply: make(chan response, 1),
	}

	c.mu.Lock()
	requests := c.requests
	c.mu.Unlock()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case requests <- req:
	case <-ctx.Done():
		c.setState(StateIdle)
		return nil, apperr.WrapCode(ctx.Err(), apperr.CodeTimeout, "analysis canceled before dispatch")
	case <-timer.C:
		// The previous worker never picked the request up; replace it.
		c.restartWorker()
		c.setState(StateTimedOut)
		return nil, apperr.Timeoutf("analysis exceeded %s", c.timeout)
	}

	select {
	case resp := <-req.reply:
		if resp.err != nil {
			c.setState(StateFailed)
			return nil, resp.err
		}
		c.setState(StateCompleted)
		return resp.result, nil
	case <-ctx.Done():
		c.restartWorker()
		c.setState(StateIdle)
		return nil, apperr.WrapCode(ctx.Err(), apperr.CodeTimeout, "analysis canceled")
	case <-timer.C:
		// The worker may be wedged in a long computation; abandon it and
		// start a fresh one so the next dispatch is not blocked.
		c.restartWorker()
		c.setState(StateTimedOut)
		return nil, apperr.Timeoutf("analysis exceeded %s", c.timeout)
	}
}

// restartWorker replaces the request channel and worker goroutine. The old
// worker finishes any in-flight computation, drains the reply into the
// abandoned buffered channel and exits on its quit signal. A caller still
// blocked sending on the old request channel unblocks through its own
// timeout or cancellation path.
func (c *Coordinator) restartWorker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	close(c.quit)
	c.requests, c.quit = c.startWorker()
}

// Reset forces the coordinator back to idle, restarting the worker. Recovery
// hook for a wedged state; safe to call at any time.
func (c *Coordinator) Reset() {
	if c.enabled {
		c.restartWorker()
	}
	c.setState(StateIdle)
}

// CurrentState reports the lifecycle state of the last dispatch.
func (c *Coordinator) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// copyInput deep-copies the payload so the worker never shares slices with
// the caller.
func copyInput(in engine.Input) engine.Input {
	out := engine.Input{}
	if in.Values != nil {
		out.Values = append([]float64(nil), in.Values...)
	}
	if in.Groups != nil {
		out.Groups = append([]string(nil), in.Groups...)
	}
	if in.Covariate != nil {
		out.Covariate = append([]float64(nil), in.Covariate...)
	}
	if in.Secondary != nil {
		out.Secondary = append([]string(nil), in.Secondary...)
	}
	return out
}
