package thinking

// TaskType is the kind of a task.
type TaskType string

// Task types
const (
	TaskProblemSolving TaskType = "problem_solving"
	TaskDecisionMaking TaskType = "decision_making"
	TaskCodeAnalysis   TaskType = "code_analysis"
	TaskSystemDesign   TaskType = "system_design"
	TaskDebugging      TaskType = "debugging"
	TaskResearch       TaskType = "research"
	TaskPlanning       TaskType = "planning"
	TaskCreative       TaskType = "creative"
)

// RiskLevel of a task.
type RiskLevel string

// Risk levels
const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Capability identifies a reasoning capability.
type Capability string

// Capabilities
const (
	SequentialThinking      Capability = "sequential_thinking"
	MentalModels            Capability = "mental_models"
	ScientificMethod        Capability = "scientific_method"
	DecisionFramework       Capability = "decision_framework"
	CollaborativeReasoning  Capability = "collaborative_reasoning"
	DebuggingApproaches     Capability = "debugging_approaches"
	ProgrammingParadigms    Capability = "programming_paradigms"
	DesignPatterns          Capability = "design_patterns"
	VisualReasoning         Capability = "visual_reasoning"
	MetacognitiveMonitoring Capability = "metacognitive_monitoring"
	StructuredArgumentation Capability = "structured_argumentation"
)

// Complexity bounds
const (
	MinComplexity = 1
	MaxComplexity = 10
)

// TaskContext carries optional hints about the task.
type TaskContext struct {
	FileCount   int    `json:"file_count,omitempty" yaml:"file_count,omitempty"`
	ProjectSize string `json:"project_size,omitempty" yaml:"project_size,omitempty"`
}

// TaskAnalysis is the classification of a task.
type TaskAnalysis struct {
	Complexity       int          `json:"complexity" yaml:"complexity"`
	Type             TaskType     `json:"type" yaml:"type"`
	Domain           string       `json:"domain" yaml:"domain"`
	RequiredThinking []Capability `json:"required_thinking" yaml:"required_thinking"`
	// EstimatedTime is the sum of the time budgets of the required
	// capabilities, in seconds.
	EstimatedTime int       `json:"estimated_time" yaml:"estimated_time"`
	RiskLevel     RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// CapabilityConfig is the static configuration of a capability.
type CapabilityConfig struct {
	ID Capability `json:"id" yaml:"id" validate:"required"`
	// Priority orders the plan, higher first.
	Priority      int `json:"priority" yaml:"priority"`
	MinComplexity int `json:"min_complexity" yaml:"min_complexity" validate:"gte=1,lte=10"`
	// MaxExecutionTime is the time budget in seconds.
	MaxExecutionTime int          `json:"max_execution_time" yaml:"max_execution_time" validate:"gt=0"`
	Prerequisites    []Capability `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}
