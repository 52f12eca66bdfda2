package thinking

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/pkg/metricskey"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "thinking")

// ErrCyclicDependency is returned when capability prerequisites form a cycle.
var ErrCyclicDependency = errors.New("cyclic capability dependency")

// Classifier analyzes tasks and plans capabilities.
// Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules   *Rules
	configs *orderedmap.OrderedMap[Capability, *CapabilityConfig]
}

type options struct {
	rulesFile        string
	capabilitiesFile string
	rules            *Rules
	capabilities     []*CapabilityConfig
	strict           bool
}

// Option configures the Classifier.
type Option func(*options)

// WithRulesFile loads classification tables from a YAML file.
func WithRulesFile(file string) Option {
	return func(o *options) {
		o.rulesFile = file
	}
}

// WithCapabilitiesFile loads capability configs from a YAML file.
func WithCapabilitiesFile(file string) Option {
	return func(o *options) {
		o.capabilitiesFile = file
	}
}

// WithRules sets the classification tables.
func WithRules(rules *Rules) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// WithCapabilities sets the capability configs.
func WithCapabilities(list ...*CapabilityConfig) Option {
	return func(o *options) {
		o.capabilities = list
	}
}

// WithStrictPrerequisites fails New when prerequisites are unknown or cyclic,
// instead of logging a warning.
func WithStrictPrerequisites(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// New returns a Classifier with the built-in tables unless replaced by options.
func New(opts ...Option) (*Classifier, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var err error
	rules := o.rules
	switch {
	case rules != nil:
	case o.rulesFile != "":
		rules, err = LoadRules(o.rulesFile)
	default:
		rules, err = ParseRules(defaultRulesYAML)
	}
	if err != nil {
		return nil, err
	}

	list := o.capabilities
	switch {
	case len(list) > 0:
	case o.capabilitiesFile != "":
		list, err = LoadCapabilities(o.capabilitiesFile)
	default:
		list, err = ParseCapabilities(defaultCapabilitiesYAML)
	}
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		rules:   rules,
		configs: orderedmap.New[Capability, *CapabilityConfig](),
	}
	for _, cfg := range list {
		if cfg == nil {
			continue
		}
		if _, present := c.configs.Set(cfg.ID, cfg); present {
			return nil, errors.Errorf("duplicate capability %s", cfg.ID)
		}
	}

	if err = c.CheckPrerequisites(); err != nil {
		if o.strict {
			return nil, err
		}
		logger.KV(xlog.WARNING,
			"status", "invalid_prerequisites",
			"err", err.Error(),
		)
	}
	return c, nil
}

// Config returns the config of the capability.
func (c *Classifier) Config(id Capability) (*CapabilityConfig, bool) {
	return c.configs.Get(id)
}

// Capabilities returns all capability configs in registration order.
func (c *Classifier) Capabilities() []*CapabilityConfig {
	list := make([]*CapabilityConfig, 0, c.configs.Len())
	for pair := c.configs.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	return list
}

// AnalyzeTask classifies the task description. tc is optional.
func (c *Classifier) AnalyzeTask(ctx context.Context, description string, tc *TaskContext) *TaskAnalysis {
	text := strings.ToLower(description)

	complexity := c.Complexity(description, tc)
	taskType := TaskType(firstMatch(text, c.rules.TaskTypes, c.rules.DefaultTaskType))
	domain := firstMatch(text, c.rules.Domains, c.rules.DefaultDomain)
	required := SelectCapabilities(taskType, complexity)

	estimated := 0
	for _, id := range required {
		if cfg, ok := c.configs.Get(id); ok {
			estimated += cfg.MaxExecutionTime
		}
	}

	a := &TaskAnalysis{
		Complexity:       complexity,
		Type:             taskType,
		Domain:           domain,
		RequiredThinking: required,
		EstimatedTime:    estimated,
		RiskLevel:        AssessRisk(complexity, estimated),
	}

	metricskey.StatsTaskAnalyses.IncrCounter(1, string(a.Type), string(a.RiskLevel))
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "analyzed",
		"complexity", a.Complexity,
		"type", a.Type,
		"domain", a.Domain,
		"capabilities", len(a.RequiredThinking),
		"risk", a.RiskLevel,
	)
	return a
}

// Complexity scores the task description in [1,10].
func (c *Classifier) Complexity(description string, tc *TaskContext) int {
	rules := &c.rules.Complexity
	text := strings.ToLower(description)

	score := MinComplexity
	if containsAny(text, rules.High.Keywords) {
		score += rules.High.Bonus
	}
	if containsAny(text, rules.Medium.Keywords) {
		score += rules.Medium.Bonus
	}
	if utf8.RuneCountInString(description) > rules.LongDescription.Threshold {
		score += rules.LongDescription.Bonus
	}
	if countSentences(description) > rules.Sentences.Threshold {
		score += rules.Sentences.Bonus
	}
	if tc != nil {
		if tc.FileCount > rules.FileCount.Threshold {
			score += rules.FileCount.Bonus
		}
		if strings.EqualFold(tc.ProjectSize, rules.LargeProject.Size) {
			score += rules.LargeProject.Bonus
		}
	}
	return max(MinComplexity, min(MaxComplexity, score))
}

// countSentences returns the number of non-empty clauses terminated by
// '.', '!' or '?'. A trailing clause without a terminator is not counted.
func countSentences(s string) int {
	count := 0
	clause := false
	for _, r := range s {
		switch {
		case r == '.' || r == '!' || r == '?':
			if clause {
				count++
			}
			clause = false
		case !unicode.IsSpace(r):
			clause = true
		}
	}
	return count
}

// SelectCapabilities returns the capabilities required for a task of the
// type and complexity, deduplicated in first-seen order.
func SelectCapabilities(taskType TaskType, complexity int) []Capability {
	set := orderedmap.New[Capability, struct{}]()
	add := func(list ...Capability) {
		for _, id := range list {
			set.Set(id, struct{}{})
		}
	}

	if complexity >= 3 {
		add(SequentialThinking)
	}
	switch taskType {
	case TaskProblemSolving:
		add(MentalModels)
		if complexity >= 5 {
			add(ScientificMethod)
		}
	case TaskDecisionMaking:
		add(DecisionFramework)
		if complexity >= 5 {
			add(CollaborativeReasoning)
		}
	case TaskCodeAnalysis, TaskDebugging:
		add(DebuggingApproaches, ProgrammingParadigms)
	case TaskSystemDesign:
		add(DesignPatterns)
		if complexity >= 5 {
			add(VisualReasoning)
		}
	}
	if complexity >= 6 {
		add(MetacognitiveMonitoring)
	}

	list := make([]Capability, 0, set.Len())
	for pair := set.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Key)
	}
	return list
}

// AssessRisk returns the risk of a task of the complexity and estimated
// time in seconds.
func AssessRisk(complexity, estimatedTime int) RiskLevel {
	switch {
	case complexity >= 8 || estimatedTime > 300:
		return RiskHigh
	case complexity >= 5 || estimatedTime > 120:
		return RiskMedium
	default:
		return RiskLow
	}
}
