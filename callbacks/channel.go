package callbacks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/tools"
)

// Event kinds
const (
	EventExecutionStarted   = "execution_started"
	EventExecutionCompleted = "execution_completed"
	EventExecutionFailed    = "execution_failed"
	EventTimeout            = "timeout"
)

// Event is an execution signal delivered to a channel.
// Data is tools.SourceType for started, *router.ExecutionResult for completed,
// *router.ExecutionError for failed and time.Duration for timeout events.
type Event struct {
	Kind   string
	ToolID string
	Data   any
}

// Channel sends execution events to a channel owned by the caller.
// Sends never block: an event is dropped when the channel is full,
// so the channel should be buffered and drained.
type Channel struct {
	Ch chan<- Event

	dropped atomic.Uint64
}

func NewChannel(ch chan<- Event) *Channel {
	return &Channel{Ch: ch}
}

// Dropped returns the number of events dropped on a full channel.
func (h *Channel) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Channel) send(ev Event) {
	select {
	case h.Ch <- ev:
	default:
		h.dropped.Add(1)
	}
}

func (h *Channel) OnExecutionStarted(_ context.Context, toolID string, source tools.SourceType) {
	h.send(Event{Kind: EventExecutionStarted, ToolID: toolID, Data: source})
}

func (h *Channel) OnExecutionCompleted(_ context.Context, toolID string, result *router.ExecutionResult) {
	h.send(Event{Kind: EventExecutionCompleted, ToolID: toolID, Data: result})
}

func (h *Channel) OnExecutionFailed(_ context.Context, toolID string, err *router.ExecutionError) {
	h.send(Event{Kind: EventExecutionFailed, ToolID: toolID, Data: err})
}

func (h *Channel) OnTimeout(_ context.Context, toolID string, timeout time.Duration) {
	h.send(Event{Kind: EventTimeout, ToolID: toolID, Data: timeout})
}
