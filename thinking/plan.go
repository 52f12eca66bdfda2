package thinking

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// CreateExecutionPlan returns the configs of the capabilities ordered by
// priority, with every capability placed after its prerequisites and
// appearing once. Unknown capabilities are skipped.
//
// A capability already resolved is not visited again, so with cyclic
// prerequisites a capability may precede a prerequisite that is part of
// the cycle. New reports cycles with ErrCyclicDependency.
func (c *Classifier) CreateExecutionPlan(ctx context.Context, capabilities []Capability) []*CapabilityConfig {
	requested := make([]*CapabilityConfig, 0, len(capabilities))
	for _, id := range capabilities {
		cfg, ok := c.configs.Get(id)
		if !ok {
			logger.ContextKV(ctx, xlog.DEBUG,
				"status", "unknown_capability",
				"capability", id,
			)
			continue
		}
		requested = append(requested, cfg)
	}
	sort.SliceStable(requested, func(i, j int) bool {
		return requested[i].Priority > requested[j].Priority
	})

	resolved := make(map[Capability]bool, len(requested))
	plan := make([]*CapabilityConfig, 0, len(requested))

	var resolve func(cfg *CapabilityConfig)
	resolve = func(cfg *CapabilityConfig) {
		if resolved[cfg.ID] {
			return
		}
		resolved[cfg.ID] = true
		for _, id := range cfg.Prerequisites {
			prereq, ok := c.configs.Get(id)
			if !ok {
				logger.ContextKV(ctx, xlog.DEBUG,
					"status", "unknown_prerequisite",
					"capability", cfg.ID,
					"prerequisite", id,
				)
				continue
			}
			resolve(prereq)
		}
		plan = append(plan, cfg)
	}

	for _, cfg := range requested {
		resolve(cfg)
	}
	return plan
}

// CheckPrerequisites returns an error if a prerequisite is not registered,
// or ErrCyclicDependency if prerequisites form a cycle.
func (c *Classifier) CheckPrerequisites() error {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	for _, cfg := range c.Capabilities() {
		for _, id := range cfg.Prerequisites {
			if _, ok := c.configs.Get(id); !ok {
				return errors.Errorf("capability %s requires unknown capability %s", cfg.ID, id)
			}
		}
	}

	state := make(map[Capability]int, c.configs.Len())
	var path []Capability

	var dfs func(id Capability) bool
	dfs = func(id Capability) bool {
		state[id] = visiting
		path = append(path, id)
		cfg, _ := c.configs.Get(id)
		for _, dep := range cfg.Prerequisites {
			if state[dep] == visiting {
				path = append(path, dep)
				return true
			}
			if state[dep] == unvisited && dfs(dep) {
				return true
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
		return false
	}

	for _, cfg := range c.Capabilities() {
		if state[cfg.ID] == unvisited && dfs(cfg.ID) {
			return errors.Mark(errors.Errorf("cyclic capability dependency: %v", path), ErrCyclicDependency)
		}
	}
	return nil
}

// FilterByTier returns the required capabilities of the analysis whose
// minimum complexity is within [minTier, maxTier] and does not exceed the
// task complexity.
func (c *Classifier) FilterByTier(a *TaskAnalysis, minTier, maxTier int) []Capability {
	if a == nil {
		return nil
	}
	var list []Capability
	for _, id := range a.RequiredThinking {
		cfg, ok := c.configs.Get(id)
		if !ok {
			continue
		}
		if cfg.MinComplexity >= minTier && cfg.MinComplexity <= maxTier && cfg.MinComplexity <= a.Complexity {
			list = append(list, id)
		}
	}
	return list
}

// ModerateTier returns the required capabilities of minimum complexity 3 to 5.
func (c *Classifier) ModerateTier(a *TaskAnalysis) []Capability {
	return c.FilterByTier(a, 3, 5)
}

// AdvancedTier returns the required capabilities of minimum complexity 6 to 10.
func (c *Classifier) AdvancedTier(a *TaskAnalysis) []Capability {
	return c.FilterByTier(a, 6, MaxComplexity)
}
