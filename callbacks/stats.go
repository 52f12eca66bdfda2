package callbacks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/tools"
)

// ToolStats aggregates executions of a tool.
type ToolStats struct {
	ToolID    string
	Started   uint32
	Succeeded uint32
	Failed    uint32
	TimedOut  uint32
	// Failures by error category
	Failures map[router.ErrorCategory]uint32
	// Duration is the total execution time of completed executions
	Duration time.Duration
	LastUsed time.Time
}

// SuccessRate returns the percentage of settled executions that succeeded.
func (s *ToolStats) SuccessRate() float64 {
	settled := s.Succeeded + s.Failed
	if settled == 0 {
		return 0
	}
	return float64(s.Succeeded) * 100 / float64(settled)
}

// Stats is a callback handler that aggregates executions per tool.
// The catalog owner can use it to maintain usage count, last use and
// success rate of tools.
type Stats struct {
	lock  sync.Mutex
	tools map[string]*ToolStats
	now   func() time.Time
}

func NewStats() *Stats {
	return &Stats{
		tools: make(map[string]*ToolStats),
		now:   TimeNowFn,
	}
}

// TimeNowFn is the clock used by Stats created afterwards.
var TimeNowFn = time.Now

func (l *Stats) get(toolID string) *ToolStats {
	s := l.tools[toolID]
	if s == nil {
		s = &ToolStats{
			ToolID:   toolID,
			Failures: make(map[router.ErrorCategory]uint32),
		}
		l.tools[toolID] = s
	}
	return s
}

func (l *Stats) OnExecutionStarted(_ context.Context, toolID string, _ tools.SourceType) {
	l.lock.Lock()
	defer l.lock.Unlock()
	s := l.get(toolID)
	s.Started++
	s.LastUsed = l.now()
}

func (l *Stats) OnExecutionCompleted(_ context.Context, toolID string, result *router.ExecutionResult) {
	l.lock.Lock()
	defer l.lock.Unlock()
	s := l.get(toolID)
	s.Succeeded++
	s.Duration += result.ExecutionTime
}

func (l *Stats) OnExecutionFailed(_ context.Context, toolID string, err *router.ExecutionError) {
	l.lock.Lock()
	defer l.lock.Unlock()
	s := l.get(toolID)
	s.Failed++
	s.Failures[err.Category]++
}

func (l *Stats) OnTimeout(_ context.Context, toolID string, _ time.Duration) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.get(toolID).TimedOut++
}

// Tool returns a copy of the tool stats, or nil if the tool was not executed.
func (l *Stats) Tool(toolID string) *ToolStats {
	l.lock.Lock()
	defer l.lock.Unlock()
	s, ok := l.tools[toolID]
	if !ok {
		return nil
	}
	return s.clone()
}

// All returns copies of all tool stats ordered by tool ID.
func (l *Stats) All() []*ToolStats {
	l.lock.Lock()
	defer l.lock.Unlock()
	list := make([]*ToolStats, 0, len(l.tools))
	for _, s := range l.tools {
		list = append(list, s.clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ToolID < list[j].ToolID
	})
	return list
}

// Usage is the updated usage of a catalog tool.
type Usage struct {
	ToolID      string     `json:"tool_id" yaml:"tool_id"`
	UsageCount  int        `json:"usage_count" yaml:"usage_count"`
	LastUsed    *time.Time `json:"last_used,omitempty" yaml:"last_used,omitempty"`
	SuccessRate float64    `json:"success_rate" yaml:"success_rate"`
}

// Usage returns usage count, last use and success rate of the executed
// catalog tools, with counts added to the current values of the tools.
// The tools are not modified, the catalog owner applies the updates.
func (l *Stats) Usage(list []*tools.Tool) []Usage {
	var res []Usage
	for _, t := range list {
		s := l.Tool(t.ID)
		if s == nil {
			continue
		}
		u := Usage{
			ToolID:      t.ID,
			UsageCount:  t.UsageCount + int(s.Started),
			LastUsed:    t.LastUsed,
			SuccessRate: t.SuccessRate,
		}
		if !s.LastUsed.IsZero() {
			ts := s.LastUsed
			u.LastUsed = &ts
		}
		if s.Succeeded+s.Failed > 0 {
			u.SuccessRate = s.SuccessRate()
		}
		res = append(res, u)
	}
	return res
}

// Print writes the summary of executions.
func (l *Stats) Print(w io.Writer) {
	for _, s := range l.All() {
		fmt.Fprintf(w, "%s: started: %d, succeeded: %d, failed: %d, timed out: %d, success rate: %.1f%%, duration: %s\n",
			s.ToolID,
			s.Started,
			s.Succeeded,
			s.Failed,
			s.TimedOut,
			s.SuccessRate(),
			s.Duration,
		)
	}
}

func (s *ToolStats) clone() *ToolStats {
	c := *s
	c.Failures = make(map[router.ErrorCategory]uint32, len(s.Failures))
	for k, v := range s.Failures {
		c.Failures[k] = v
	}
	return &c
}
