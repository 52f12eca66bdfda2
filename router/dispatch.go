package router

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/tools"
)

// dispatch executes the tool on the executor of its source.
func (r *Router) dispatch(ctx context.Context, e *execution, parameters map[string]any) (any, error) {
	tool := e.tool
	switch tool.Source.Type {
	case tools.SourceBuiltin:
		return r.executeBuiltin(ctx, e, parameters)
	case tools.SourceExternal:
		return r.executeExternal(ctx, e, parameters)
	default:
		return nil, errors.Errorf("invalid source type %q of tool %s", tool.Source.Type, tool.ID)
	}
}

func (r *Router) executeBuiltin(ctx context.Context, e *execution, parameters map[string]any) (any, error) {
	if r.builtin == nil {
		return nil, errors.New("builtin executor is not configured")
	}

	name := e.tool.Name
	found := false
	for _, info := range r.builtin.ListTools(ctx) {
		if info.Name == name {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Errorf("builtin tool %q not found", name)
	}

	return race(ctx, e.timeout, func(ctx context.Context) (any, error) {
		return r.builtin.CallTool(ctx, name, parameters)
	})
}

func (r *Router) executeExternal(ctx context.Context, e *execution, parameters map[string]any) (any, error) {
	if r.hub == nil {
		return nil, errors.New("external hub is not configured")
	}

	serverID := e.tool.Source.ID
	server := r.hub.GetServer(serverID)
	if server == nil {
		return nil, errors.Errorf("external server %q not found", serverID)
	}
	if !server.IsConnected {
		return nil, errors.Errorf("connection to external server %q is not established", serverID)
	}

	e.networkCalls++
	name := e.tool.Name
	return race(ctx, e.timeout, func(ctx context.Context) (any, error) {
		return r.hub.CallTool(ctx, serverID, name, parameters)
	})
}

type outcome struct {
	result any
	err    error
}

// race runs call and returns its outcome, or an abort error as soon as ctx
// is cancelled. Executors that ignore ctx keep running in the background
// and their outcome is discarded.
func race(ctx context.Context, timeout time.Duration, call func(ctx context.Context) (any, error)) (any, error) {
	if ctx.Err() != nil {
		return nil, abortError(context.Cause(ctx), timeout)
	}

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- outcome{err: errors.Errorf("tool panicked: %v", rec)}
			}
		}()
		res, err := call(ctx)
		ch <- outcome{result: res, err: err}
	}()

	select {
	case o := <-ch:
		if o.err != nil && ctx.Err() != nil {
			// the executor honored the cancellation
			return nil, abortError(context.Cause(ctx), timeout)
		}
		return o.result, o.err
	case <-ctx.Done():
		return nil, abortError(context.Cause(ctx), timeout)
	}
}
