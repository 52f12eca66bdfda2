package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsExecutionsSucceeded is base for counter metric for tool executions succeeded
	StatsExecutionsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_executions_succeeded",
		Help:         "stats_executions_succeeded provides total tool executions succeeded",
		RequiredTags: []string{"tool", "source"},
	}

	StatsExecutionsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_executions_failed",
		Help:         "stats_executions_failed provides total tool executions failed",
		RequiredTags: []string{"tool", "category"},
	}

	StatsExecutionsCoalesced = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_executions_coalesced",
		Help:         "stats_executions_coalesced provides total requests joined to an in-flight execution",
		RequiredTags: []string{"tool"},
	}

	StatsExecutionsTimedOut = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_executions_timed_out",
		Help:         "stats_executions_timed_out provides total tool executions aborted by timeout",
		RequiredTags: []string{"tool"},
	}

	StatsSearches = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_searches",
		Help:         "stats_searches provides total tool searches",
		RequiredTags: []string{"kind"},
	}

	StatsTaskAnalyses = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_task_analyses",
		Help:         "stats_task_analyses provides total task analyses",
		RequiredTags: []string{"type", "risk"},
	}
)

// Perf
var (
	PerfToolExecution = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_execution",
		Help:         "perf_tool_execution provides duration of tool execution",
		RequiredTags: []string{"tool", "source"},
	}

	PerfSearch = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_search",
		Help:         "perf_search provides duration of tool search",
		RequiredTags: []string{"kind"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfSearch,
	&PerfToolExecution,
	&StatsExecutionsCoalesced,
	&StatsExecutionsFailed,
	&StatsExecutionsSucceeded,
	&StatsExecutionsTimedOut,
	&StatsSearches,
	&StatsTaskAnalyses,
}
