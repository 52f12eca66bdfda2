package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ router.Callback = (*Noop)(nil)
	_ router.Callback = (*Printer)(nil)
	_ router.Callback = (*PackageLogger)(nil)
	_ router.Callback = (*Fanout)(nil)
	_ router.Callback = (*Channel)(nil)
	_ router.Callback = (*Stats)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []router.Callback
}

func NewFanout(callbacks ...router.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback router.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnExecutionStarted(ctx context.Context, toolID string, source tools.SourceType) {
	for _, callback := range l.callbacks {
		callback.OnExecutionStarted(ctx, toolID, source)
	}
}

func (l *Fanout) OnExecutionCompleted(ctx context.Context, toolID string, result *router.ExecutionResult) {
	for _, callback := range l.callbacks {
		callback.OnExecutionCompleted(ctx, toolID, result)
	}
}

func (l *Fanout) OnExecutionFailed(ctx context.Context, toolID string, err *router.ExecutionError) {
	for _, callback := range l.callbacks {
		callback.OnExecutionFailed(ctx, toolID, err)
	}
}

func (l *Fanout) OnTimeout(ctx context.Context, toolID string, timeout time.Duration) {
	for _, callback := range l.callbacks {
		callback.OnTimeout(ctx, toolID, timeout)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnExecutionStarted(ctx context.Context, toolID string, source tools.SourceType) {}
func (l *Noop) OnExecutionCompleted(ctx context.Context, toolID string, result *router.ExecutionResult) {
}
func (l *Noop) OnExecutionFailed(ctx context.Context, toolID string, err *router.ExecutionError) {}
func (l *Noop) OnTimeout(ctx context.Context, toolID string, timeout time.Duration) {}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnExecutionStarted(ctx context.Context, toolID string, source tools.SourceType) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Execution Started: %s (%s)\n", toolID, source)
}

func (l *Printer) OnExecutionCompleted(ctx context.Context, toolID string, result *router.ExecutionResult) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Execution Completed: %s in %s\n", toolID, result.ExecutionTime)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Result: %v\n", result.Result)
	}
}

func (l *Printer) OnExecutionFailed(ctx context.Context, toolID string, err *router.ExecutionError) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Execution Failed: %s: %s: %s\n", toolID, err.Category, err.Message)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Recoverable: %t\n", err.Recoverable)
	}
}

func (l *Printer) OnTimeout(ctx context.Context, toolID string, timeout time.Duration) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Execution Timeout: %s after %s\n", toolID, timeout)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnExecutionStarted(ctx context.Context, toolID string, source tools.SourceType) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "execution_started",
		"tool", toolID,
		"source", source,
	)
}

func (l *PackageLogger) OnExecutionCompleted(ctx context.Context, toolID string, result *router.ExecutionResult) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "execution_completed",
		"tool", toolID,
		"duration", result.ExecutionTime.String(),
	)
}

func (l *PackageLogger) OnExecutionFailed(ctx context.Context, toolID string, err *router.ExecutionError) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "execution_failed",
		"tool", toolID,
		"category", err.Category,
		"recoverable", err.Recoverable,
		"err", err.Message,
	)
}

func (l *PackageLogger) OnTimeout(ctx context.Context, toolID string, timeout time.Duration) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "execution_timeout",
		"tool", toolID,
		"timeout", timeout.String(),
	)
}
