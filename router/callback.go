package router

import (
	"context"
	"time"

	"github.com/effective-security/toolpilot/tools"
)

// Callback observes executions.
// Methods are called synchronously from the execution goroutine and must not block.
// OnTimeout is called from the timer goroutine after the execution is cancelled,
// so it may be delivered after OnExecutionFailed of the same execution.
type Callback interface {
	OnExecutionStarted(ctx context.Context, toolID string, source tools.SourceType)
	OnExecutionCompleted(ctx context.Context, toolID string, result *ExecutionResult)
	OnExecutionFailed(ctx context.Context, toolID string, err *ExecutionError)
	OnTimeout(ctx context.Context, toolID string, timeout time.Duration)
}

type noopCallback struct{}

func (noopCallback) OnExecutionStarted(context.Context, string, tools.SourceType) {}
func (noopCallback) OnExecutionCompleted(context.Context, string, *ExecutionResult) {}
func (noopCallback) OnExecutionFailed(context.Context, string, *ExecutionError) {}
func (noopCallback) OnTimeout(context.Context, string, time.Duration) {}
