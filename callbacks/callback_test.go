package callbacks_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolpilot/callbacks"
	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testResult = &router.ExecutionResult{
		ToolID:        "t1",
		Success:       true,
		Result:        "test output",
		ExecutionTime: 2 * time.Second,
	}
	testError = &router.ExecutionError{
		Message:     "connection refused",
		Category:    router.CategoryNetwork,
		Recoverable: true,
	}
)

func emit(cb router.Callback) {
	ctx := context.Background()
	cb.OnExecutionStarted(ctx, "t1", tools.SourceBuiltin)
	cb.OnExecutionCompleted(ctx, "t1", testResult)
	cb.OnExecutionStarted(ctx, "t2", tools.SourceExternal)
	cb.OnTimeout(ctx, "t2", time.Second)
	cb.OnExecutionFailed(ctx, "t2", testError)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	emit(callbacks.NewPrinter(&buf, callbacks.ModeVerbose))

	res := buf.String()
	assert.Contains(t, res, "Execution Started: t1 (builtin)")
	assert.Contains(t, res, "Execution Completed: t1 in 2s")
	assert.Contains(t, res, "Result: test output")
	assert.Contains(t, res, "Execution Started: t2 (external)")
	assert.Contains(t, res, "Execution Timeout: t2 after 1s")
	assert.Contains(t, res, "Execution Failed: t2: network_error: connection refused")
	assert.Contains(t, res, "Recoverable: true")

	buf.Reset()
	emit(callbacks.NewPrinter(&buf, callbacks.ModeDefault))
	assert.NotContains(t, buf.String(), "Result:")
	assert.NotContains(t, buf.String(), "Recoverable:")
}

func TestPackageLogger(t *testing.T) {
	logger := xlog.NewPackageLogger("github.com/effective-security/toolpilot", "callbacks_test")
	assert.NotPanics(t, func() {
		emit(callbacks.NewPackageLogger(logger))
	})
	assert.NotPanics(t, func() {
		emit(callbacks.NewNoop())
	})
}

func TestFanoutAndChannel(t *testing.T) {
	ch := make(chan callbacks.Event, 10)
	var buf bytes.Buffer

	fanout := callbacks.NewFanout(callbacks.NewChannel(ch))
	fanout.Add(callbacks.NewPrinter(&buf, callbacks.ModeDefault))
	emit(fanout)
	close(ch)

	var events []callbacks.Event
	for ev := range ch {
		events = append(events, ev)
	}
	require.Len(t, events, 5)
	assert.Equal(t, callbacks.EventExecutionStarted, events[0].Kind)
	assert.Equal(t, tools.SourceBuiltin, events[0].Data)
	assert.Equal(t, callbacks.EventExecutionCompleted, events[1].Kind)
	assert.Same(t, testResult, events[1].Data)
	assert.Equal(t, callbacks.EventTimeout, events[3].Kind)
	assert.Equal(t, time.Second, events[3].Data)
	assert.Equal(t, callbacks.EventExecutionFailed, events[4].Kind)
	assert.Equal(t, "t2", events[4].ToolID)
	assert.Same(t, testError, events[4].Data)

	assert.Contains(t, buf.String(), "Execution Failed: t2")
}

func TestChannel_Full(t *testing.T) {
	ch := make(chan callbacks.Event, 2)
	h := callbacks.NewChannel(ch)
	emit(h)

	assert.Len(t, ch, 2)
	assert.Equal(t, uint64(3), h.Dropped())
	assert.Equal(t, callbacks.EventExecutionStarted, (<-ch).Kind)

	// unbuffered channel without a reader
	h = callbacks.NewChannel(make(chan callbacks.Event))
	emit(h)
	assert.Equal(t, uint64(5), h.Dropped())
}

func TestStats(t *testing.T) {
	stats := callbacks.NewStats()
	emit(stats)
	emit(stats)

	assert.Nil(t, stats.Tool("unknown"))

	s1 := stats.Tool("t1")
	require.NotNil(t, s1)
	assert.Equal(t, uint32(2), s1.Started)
	assert.Equal(t, uint32(2), s1.Succeeded)
	assert.Equal(t, 4*time.Second, s1.Duration)
	assert.Equal(t, 100.0, s1.SuccessRate())
	assert.False(t, s1.LastUsed.IsZero())

	s2 := stats.Tool("t2")
	require.NotNil(t, s2)
	assert.Equal(t, uint32(2), s2.Failed)
	assert.Equal(t, uint32(2), s2.TimedOut)
	assert.Equal(t, uint32(2), s2.Failures[router.CategoryNetwork])
	assert.Equal(t, 0.0, s2.SuccessRate())

	// copies are returned
	s2.Failures[router.CategoryNetwork] = 100
	assert.Equal(t, uint32(2), stats.Tool("t2").Failures[router.CategoryNetwork])

	all := stats.All()
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].ToolID)

	catalog := []*tools.Tool{
		{ID: "t1", UsageCount: 3},
		{ID: "t2", SuccessRate: 50},
		{ID: "t3", SuccessRate: 75},
	}
	usage := stats.Usage(catalog)
	require.Len(t, usage, 2)
	assert.Equal(t, "t1", usage[0].ToolID)
	assert.Equal(t, 5, usage[0].UsageCount)
	assert.NotNil(t, usage[0].LastUsed)
	assert.Equal(t, 100.0, usage[0].SuccessRate)
	assert.Equal(t, "t2", usage[1].ToolID)
	assert.Equal(t, 2, usage[1].UsageCount)
	assert.Equal(t, 0.0, usage[1].SuccessRate)

	// catalog tools are not modified
	assert.Equal(t, 3, catalog[0].UsageCount)
	assert.Nil(t, catalog[0].LastUsed)
	assert.Equal(t, 0.0, catalog[0].SuccessRate)
	assert.Equal(t, 50.0, catalog[1].SuccessRate)
	assert.Equal(t, 75.0, catalog[2].SuccessRate)

	var buf bytes.Buffer
	stats.Print(&buf)
	assert.Contains(t, buf.String(), "t1: started: 2, succeeded: 2, failed: 0, timed out: 0, success rate: 100.0%, duration: 4s")
	assert.Contains(t, buf.String(), "t2: started: 2, succeeded: 0, failed: 2, timed out: 2")
}
