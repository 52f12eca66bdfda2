package thinking_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/thinking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, opts ...thinking.Option) *thinking.Classifier {
	c, err := thinking.New(opts...)
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := newClassifier(t, thinking.WithStrictPrerequisites(true))
	list := c.Capabilities()
	require.Len(t, list, 11)
	assert.Equal(t, thinking.SequentialThinking, list[0].ID)
	assert.Equal(t, thinking.StructuredArgumentation, list[10].ID)

	cfg, ok := c.Config(thinking.ScientificMethod)
	require.True(t, ok)
	assert.Equal(t, 7, cfg.Priority)
	assert.Equal(t, 5, cfg.MinComplexity)
	assert.Equal(t, 90, cfg.MaxExecutionTime)
	assert.Equal(t, []thinking.Capability{thinking.SequentialThinking}, cfg.Prerequisites)

	_, ok = c.Config("unknown")
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := thinking.New(thinking.WithRulesFile("testdata/missing.yaml"))
	assert.Error(t, err)

	_, err = thinking.New(thinking.WithRulesFile("testdata/bad_rules.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules from testdata/bad_rules.yaml")

	_, err = thinking.New(thinking.WithCapabilitiesFile("testdata/bad_capabilities.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid capabilities")

	_, err = thinking.New(thinking.WithCapabilities(
		&thinking.CapabilityConfig{ID: "a", MinComplexity: 1, MaxExecutionTime: 1},
		&thinking.CapabilityConfig{ID: "a", MinComplexity: 2, MaxExecutionTime: 1},
	))
	assert.EqualError(t, err, "duplicate capability a")
}

func TestNew_Prerequisites(t *testing.T) {
	t.Parallel()

	// tolerated unless strict
	c := newClassifier(t, thinking.WithCapabilitiesFile("testdata/cyclic.yaml"))
	err := c.CheckPrerequisites()
	require.Error(t, err)
	assert.True(t, errors.Is(err, thinking.ErrCyclicDependency))
	assert.Contains(t, err.Error(), "alpha")

	_, err = thinking.New(
		thinking.WithCapabilitiesFile("testdata/cyclic.yaml"),
		thinking.WithStrictPrerequisites(true),
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, thinking.ErrCyclicDependency))

	_, err = thinking.New(
		thinking.WithCapabilitiesFile("testdata/unknown_prereq.yaml"),
		thinking.WithStrictPrerequisites(true),
	)
	assert.EqualError(t, err, "capability alpha requires unknown capability missing")
	assert.False(t, errors.Is(err, thinking.ErrCyclicDependency))

	c = newClassifier(t, thinking.WithCapabilitiesFile("testdata/unknown_prereq.yaml"))
	plan := c.CreateExecutionPlan(context.Background(), []thinking.Capability{"alpha"})
	require.Len(t, plan, 1)
	assert.Equal(t, thinking.Capability("alpha"), plan[0].ID)
}

func TestAnalyzeTask(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)
	ctx := context.Background()

	tcases := []struct {
		name       string
		desc       string
		tc         *thinking.TaskContext
		complexity int
		taskType   thinking.TaskType
		domain     string
		required   []thinking.Capability
		estimated  int
		risk       thinking.RiskLevel
	}{
		{
			name:       "debugging",
			desc:       "Debug the failing login test",
			complexity: 1,
			taskType:   thinking.TaskDebugging,
			domain:     "software_engineering",
			required:   []thinking.Capability{thinking.DebuggingApproaches, thinking.ProgrammingParadigms},
			estimated:  105,
			risk:       thinking.RiskLow,
		},
		{
			name:       "system design",
			desc:       "Design and implement a complex distributed cache",
			complexity: 7,
			taskType:   thinking.TaskSystemDesign,
			domain:     "general",
			required: []thinking.Capability{
				thinking.SequentialThinking,
				thinking.DesignPatterns,
				thinking.VisualReasoning,
				thinking.MetacognitiveMonitoring,
			},
			estimated: 240,
			risk:      thinking.RiskMedium,
		},
		{
			name:       "default type",
			desc:       "Tidy up",
			complexity: 1,
			taskType:   thinking.TaskProblemSolving,
			domain:     "general",
			required:   []thinking.Capability{thinking.MentalModels},
			estimated:  45,
			risk:       thinking.RiskLow,
		},
		{
			name:       "context hints",
			desc:       "Fix the server crash",
			tc:         &thinking.TaskContext{FileCount: 6, ProjectSize: "Large"},
			complexity: 4,
			taskType:   thinking.TaskProblemSolving,
			domain:     "system_administration",
			required:   []thinking.Capability{thinking.SequentialThinking, thinking.MentalModels},
			estimated:  105,
			risk:       thinking.RiskLow,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			a := c.AnalyzeTask(ctx, tc.desc, tc.tc)
			require.NotNil(t, a)
			assert.Equal(t, tc.complexity, a.Complexity)
			assert.Equal(t, tc.taskType, a.Type)
			assert.Equal(t, tc.domain, a.Domain)
			assert.Equal(t, tc.required, a.RequiredThinking)
			assert.Equal(t, tc.estimated, a.EstimatedTime)
			assert.Equal(t, tc.risk, a.RiskLevel)
		})
	}
}

func TestComplexity(t *testing.T) {
	t.Parallel()

	c := newClassifier(t)

	assert.Equal(t, 1, c.Complexity("", nil))
	assert.Equal(t, 2, c.Complexity(strings.Repeat("word ", 41), nil))
	assert.Equal(t, 2, c.Complexity("One. Two. Three. Four.", nil))
	assert.Equal(t, 1, c.Complexity("One. Two. Three...", nil))
	assert.Equal(t, 1, c.Complexity("One. Two. Three. Four", nil))
	assert.Equal(t, 2, c.Complexity("One? Two! Three. Four.", nil))
	// length is counted in characters
	assert.Equal(t, 1, c.Complexity(strings.Repeat("é", 150), nil))
	assert.Equal(t, 2, c.Complexity(strings.Repeat("é", 201), nil))
	assert.Equal(t, 1, c.Complexity("small", &thinking.TaskContext{FileCount: 5, ProjectSize: "medium"}))

	all := "Analyze and implement. " + strings.Repeat("More detail here. ", 12)
	assert.Equal(t, 10, c.Complexity(all, &thinking.TaskContext{FileCount: 50, ProjectSize: "large"}))

	// adding signals never lowers the score
	base := "Review the module"
	prev := c.Complexity(base, nil)
	for _, suffix := range []string{" and optimize it", " and build it", ". Then test. Then ship. Then rest."} {
		base += suffix
		next := c.Complexity(base, nil)
		assert.GreaterOrEqual(t, next, prev, base)
		prev = next
	}
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	c := newClassifier(t, thinking.WithRulesFile("testdata/rules.yaml"))
	a := c.AnalyzeTask(context.Background(), "Migrate the Postgres schema", nil)
	assert.Equal(t, 6, a.Complexity)
	assert.Equal(t, thinking.TaskPlanning, a.Type)
	assert.Equal(t, "databases", a.Domain)
	assert.Equal(t, []thinking.Capability{thinking.SequentialThinking, thinking.MetacognitiveMonitoring}, a.RequiredThinking)

	a = c.AnalyzeTask(context.Background(), "update readme", nil)
	assert.Equal(t, 2, a.Complexity)
	assert.Equal(t, thinking.TaskResearch, a.Type)
	assert.Equal(t, "other", a.Domain)
}

func TestSelectCapabilities(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		taskType   thinking.TaskType
		complexity int
		exp        []thinking.Capability
	}{
		{thinking.TaskProblemSolving, 2, []thinking.Capability{thinking.MentalModels}},
		{thinking.TaskProblemSolving, 5, []thinking.Capability{thinking.SequentialThinking, thinking.MentalModels, thinking.ScientificMethod}},
		{thinking.TaskDecisionMaking, 3, []thinking.Capability{thinking.SequentialThinking, thinking.DecisionFramework}},
		{thinking.TaskDecisionMaking, 6, []thinking.Capability{thinking.SequentialThinking, thinking.DecisionFramework, thinking.CollaborativeReasoning, thinking.MetacognitiveMonitoring}},
		{thinking.TaskCodeAnalysis, 1, []thinking.Capability{thinking.DebuggingApproaches, thinking.ProgrammingParadigms}},
		{thinking.TaskSystemDesign, 4, []thinking.Capability{thinking.SequentialThinking, thinking.DesignPatterns}},
		{thinking.TaskResearch, 1, []thinking.Capability{}},
		{thinking.TaskCreative, 10, []thinking.Capability{thinking.SequentialThinking, thinking.MetacognitiveMonitoring}},
	}
	for _, tc := range tcases {
		assert.Equal(t, tc.exp, thinking.SelectCapabilities(tc.taskType, tc.complexity), "%s/%d", tc.taskType, tc.complexity)
	}
}

func TestAssessRisk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, thinking.RiskHigh, thinking.AssessRisk(8, 0))
	assert.Equal(t, thinking.RiskHigh, thinking.AssessRisk(1, 301))
	assert.Equal(t, thinking.RiskMedium, thinking.AssessRisk(5, 0))
	assert.Equal(t, thinking.RiskMedium, thinking.AssessRisk(1, 121))
	assert.Equal(t, thinking.RiskLow, thinking.AssessRisk(4, 120))
}
