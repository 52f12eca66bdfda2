package router

import (
	"time"

	"github.com/effective-security/toolpilot/tools"
)

// ExecutionContext carries per-request execution settings.
type ExecutionContext struct {
	// MessageID identifies the request that triggered the execution.
	// Requests without a message ID are never coalesced.
	MessageID string `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	// Timeout of the execution, the router default if not set.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// ExecutionRequest is a request to execute a tool.
type ExecutionRequest struct {
	Tool       *tools.Tool      `json:"tool" yaml:"tool"`
	Parameters map[string]any   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Context    ExecutionContext `json:"context" yaml:"context"`
}

// Metadata of an execution.
type Metadata struct {
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	EndTime   time.Time `json:"end_time" yaml:"end_time"`
	// MemoryUsage is the size of live heap objects when the execution settled.
	MemoryUsage  uint64 `json:"memory_usage" yaml:"memory_usage"`
	NetworkCalls int    `json:"network_calls" yaml:"network_calls"`
	// CacheHits is the number of requests served by joining this execution.
	CacheHits int `json:"cache_hits" yaml:"cache_hits"`
}

// ExecutionResult is the outcome of an execution.
// Either Result or Error is set, depending on Success.
type ExecutionResult struct {
	ToolID        string          `json:"tool_id" yaml:"tool_id"`
	Success       bool            `json:"success" yaml:"success"`
	Result        any             `json:"result,omitempty" yaml:"result,omitempty"`
	Error         *ExecutionError `json:"error,omitempty" yaml:"error,omitempty"`
	ExecutionTime time.Duration   `json:"execution_time" yaml:"execution_time"`
	Source        tools.Source    `json:"source" yaml:"source"`
	Metadata      Metadata        `json:"metadata" yaml:"metadata"`
}

// Key returns the deduplication key of an execution.
func Key(toolID, messageID string) string {
	return toolID + ":" + messageID
}
