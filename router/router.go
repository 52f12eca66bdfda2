package router

import (
	"context"
	rtmetrics "runtime/metrics"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/pkg/metricskey"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "router")

// DefaultTimeout is the execution timeout used when the request has none.
const DefaultTimeout = 30 * time.Second

// Router executes tools.
// The zero value is not usable, create a Router with New.
type Router struct {
	builtin        tools.BuiltinExecutor
	hub            tools.ExternalHub
	callback       Callback
	defaultTimeout time.Duration

	lock     sync.Mutex
	inflight map[string]*execution
	closed   bool
}

// Option configures the Router.
type Option func(*Router)

// WithCallback sets the execution observer.
func WithCallback(cb Callback) Option {
	return func(r *Router) {
		if cb != nil {
			r.callback = cb
		}
	}
}

// WithDefaultTimeout sets the timeout of requests that do not specify one.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(r *Router) {
		if timeout > 0 {
			r.defaultTimeout = timeout
		}
	}
}

// New returns a Router dispatching to the builtin executor and the external hub.
// Either may be nil, in which case tools of that source fail to execute.
func New(builtin tools.BuiltinExecutor, hub tools.ExternalHub, opts ...Option) *Router {
	r := &Router{
		builtin:        builtin,
		hub:            hub,
		callback:       noopCallback{},
		defaultTimeout: DefaultTimeout,
		inflight:       make(map[string]*execution),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// execution is a single in-flight execution shared by coalesced requests.
type execution struct {
	key     string
	tool    *tools.Tool
	timeout time.Duration
	cancel  context.CancelCauseFunc
	done    chan struct{}

	// guarded by Router.lock
	waiters int
	joined  int

	// set before done is closed
	result       *ExecutionResult
	networkCalls int
}

// Execute runs the tool and returns its result. Execute never returns nil.
//
// If an execution with the same tool ID and message ID is in flight, Execute
// waits for it and returns its result. The execution itself is not bound to
// ctx: when ctx is cancelled, Execute returns an aborted result, and the
// execution is cancelled once no caller is waiting for it.
func (r *Router) Execute(ctx context.Context, req *ExecutionRequest) *ExecutionResult {
	if req == nil || req.Tool == nil {
		return failedResult(nil, time.Now(), errors.New("invalid request: tool is required"))
	}
	tool := req.Tool
	messageID := req.Context.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}
	key := Key(tool.ID, messageID)

	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return failedResult(tool, time.Now(), errors.WithStack(ErrShutdown))
	}
	if e, ok := r.inflight[key]; ok {
		e.waiters++
		e.joined++
		r.lock.Unlock()

		metricskey.StatsExecutionsCoalesced.IncrCounter(1, tool.ID)
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "coalesced",
			"key", key,
		)
		return r.wait(ctx, e)
	}

	timeout := req.Context.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	execCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	e := &execution{
		key:     key,
		tool:    tool,
		timeout: timeout,
		cancel:  cancel,
		done:    make(chan struct{}),
		waiters: 1,
	}
	r.inflight[key] = e
	r.lock.Unlock()

	go r.run(execCtx, e, req.Parameters)

	return r.wait(ctx, e)
}

// wait returns the execution result, or an aborted result if ctx is
// cancelled first. The last waiter to leave cancels the execution and
// returns its result.
func (r *Router) wait(ctx context.Context, e *execution) *ExecutionResult {
	select {
	case <-e.done:
		return e.result
	case <-ctx.Done():
	}
	select {
	case <-e.done:
		return e.result
	default:
	}

	r.lock.Lock()
	e.waiters--
	last := e.waiters == 0
	if last && r.inflight[e.key] == e {
		delete(r.inflight, e.key)
	}
	r.lock.Unlock()

	cause := context.Cause(ctx)
	if last {
		e.cancel(cause)
		<-e.done
		return e.result
	}
	return failedResult(e.tool, time.Now(), abortError(cause, e.timeout))
}

func (r *Router) run(ctx context.Context, e *execution, parameters map[string]any) {
	tool := e.tool
	started := time.Now()

	timer := time.AfterFunc(e.timeout, func() {
		e.cancel(ErrTimeout)
		metricskey.StatsExecutionsTimedOut.IncrCounter(1, tool.ID)
		r.callback.OnTimeout(ctx, tool.ID, e.timeout)
	})

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "started",
		"key", e.key,
		"source", tool.Source.Type,
		"timeout", e.timeout.String(),
	)
	r.callback.OnExecutionStarted(ctx, tool.ID, tool.Source.Type)

	res, err := r.dispatch(ctx, e, parameters)
	timer.Stop()

	result := failedResult(tool, started, err)
	if err == nil {
		result.Success = true
		result.Result = res
		result.Error = nil
	}
	result.Metadata.NetworkCalls = e.networkCalls
	result.Metadata.MemoryUsage = heapBytes()

	metricskey.PerfToolExecution.MeasureSince(started, tool.ID, string(tool.Source.Type))
	if result.Success {
		metricskey.StatsExecutionsSucceeded.IncrCounter(1, tool.ID, string(tool.Source.Type))
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "completed",
			"key", e.key,
			"duration", result.ExecutionTime.String(),
		)
		r.callback.OnExecutionCompleted(ctx, tool.ID, result)
	} else {
		metricskey.StatsExecutionsFailed.IncrCounter(1, tool.ID, string(result.Error.Category))
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "failed",
			"key", e.key,
			"category", result.Error.Category,
			"err", result.Error.Message,
		)
		r.callback.OnExecutionFailed(ctx, tool.ID, result.Error)
	}

	r.lock.Lock()
	if r.inflight[e.key] == e {
		delete(r.inflight, e.key)
	}
	result.Metadata.CacheHits = e.joined
	r.lock.Unlock()

	e.result = result
	e.cancel(nil)
	close(e.done)
}

// AbortExecution cancels the in-flight execution of the tool for the message.
// It returns false if no such execution is in flight.
func (r *Router) AbortExecution(toolID, messageID string) bool {
	key := Key(toolID, messageID)

	r.lock.Lock()
	e, ok := r.inflight[key]
	r.lock.Unlock()
	if !ok {
		return false
	}

	logger.KV(xlog.DEBUG, "status", "abort", "key", key)
	e.cancel(ErrAborted)
	return true
}

// ActiveExecutions returns the sorted keys of in-flight executions.
func (r *Router) ActiveExecutions() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	keys := make([]string, 0, len(r.inflight))
	for key := range r.inflight {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Shutdown cancels every in-flight execution and rejects new ones.
// It is safe to call Shutdown more than once.
func (r *Router) Shutdown() {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return
	}
	r.closed = true
	inflight := r.inflight
	r.inflight = make(map[string]*execution)
	r.lock.Unlock()

	for _, e := range inflight {
		e.cancel(ErrShutdown)
	}
	logger.KV(xlog.DEBUG, "status", "shutdown", "cancelled", len(inflight))
}

// failedResult returns a result for err, started at the given time.
// err may be nil, in which case the caller sets the outcome.
func failedResult(tool *tools.Tool, started time.Time, err error) *ExecutionResult {
	ended := time.Now()
	res := &ExecutionResult{
		ExecutionTime: ended.Sub(started),
		Metadata: Metadata{
			StartTime: started,
			EndTime:   ended,
		},
	}
	if tool != nil {
		res.ToolID = tool.ID
		res.Source = tool.Source
	}
	if err != nil {
		res.Error = NewExecutionError(err)
	}
	return res
}

// abortError describes an execution cancelled with cause.
func abortError(cause error, timeout time.Duration) error {
	switch {
	case errors.Is(cause, ErrTimeout):
		return errors.Mark(errors.Newf("execution aborted: timeout after %s", timeout), ErrTimeout)
	case cause == nil || errors.Is(cause, ErrAborted):
		return errors.WithStack(ErrAborted)
	default:
		return errors.Mark(errors.Wrap(cause, "execution aborted"), ErrAborted)
	}
}

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

func heapBytes() uint64 {
	sample := []rtmetrics.Sample{{Name: heapObjectsMetric}}
	rtmetrics.Read(sample)
	if sample[0].Value.Kind() != rtmetrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}
