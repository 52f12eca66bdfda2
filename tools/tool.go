package tools

import (
	"strings"
	"time"
)

// SourceType identifies which executor backs a tool.
type SourceType string

const (
	// SourceBuiltin is a tool served by the in-process builtin executor.
	SourceBuiltin SourceType = "builtin"
	// SourceExternal is a tool served by a server registered in the external hub.
	SourceExternal SourceType = "external"
)

// Source describes where a tool is executed.
// For external tools ID is the hub server ID.
type Source struct {
	Type SourceType `json:"type" yaml:"type"`
	ID   string     `json:"id,omitempty" yaml:"id,omitempty"`
}

// ContextRelevance lists the contexts a tool declares itself useful for.
type ContextRelevance struct {
	ProjectTypes []string `json:"project_types,omitempty" yaml:"project_types,omitempty"`
	SubjectModes []string `json:"subject_modes,omitempty" yaml:"subject_modes,omitempty"`
	FileTypes    []string `json:"file_types,omitempty" yaml:"file_types,omitempty"`
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Tool is the catalog entry of an invocable tool.
// UsageCount, LastUsed and SuccessRate are maintained by the catalog owner
// after each execution and are read-only here.
type Tool struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Description      string           `json:"description" yaml:"description"`
	Tags             []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
	Category         string           `json:"category" yaml:"category"`
	ContextRelevance ContextRelevance `json:"context_relevance" yaml:"context_relevance"`
	UsageCount       int              `json:"usage_count" yaml:"usage_count"`
	LastUsed         *time.Time       `json:"last_used,omitempty" yaml:"last_used,omitempty"`
	// SuccessRate is a percentage in the 0-100 range.
	SuccessRate float64 `json:"success_rate" yaml:"success_rate"`
	Source      Source  `json:"source" yaml:"source"`
}

// Text returns the lower-cased searchable text of the tool:
// name, description, tags and declared keywords.
func (t *Tool) Text() string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte(' ')
	b.WriteString(t.Description)
	for _, tag := range t.Tags {
		b.WriteByte(' ')
		b.WriteString(tag)
	}
	for _, kw := range t.ContextRelevance.Keywords {
		b.WriteByte(' ')
		b.WriteString(kw)
	}
	return strings.ToLower(b.String())
}

// HasTag returns true if the tool carries the tag, ignoring case.
func (t *Tool) HasTag(tag string) bool {
	for _, tt := range t.Tags {
		if strings.EqualFold(tt, tag) {
			return true
		}
	}
	return false
}

// HoursSinceLastUse returns the number of hours since the tool was last used,
// and false if the tool was never used.
func (t *Tool) HoursSinceLastUse(now time.Time) (float64, bool) {
	if t.LastUsed == nil || t.LastUsed.IsZero() {
		return 0, false
	}
	return now.Sub(*t.LastUsed).Hours(), true
}

// ProjectContext describes the project the user is working in.
type ProjectContext struct {
	Type         string   `json:"type,omitempty" yaml:"type,omitempty"`
	Language     string   `json:"language,omitempty" yaml:"language,omitempty"`
	Framework    string   `json:"framework,omitempty" yaml:"framework,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	CurrentFile  string   `json:"current_file,omitempty" yaml:"current_file,omitempty"`
}

// RequestContext is the context a tool is ranked against.
// Recent usage is carried by Tool.LastUsed.
type RequestContext struct {
	SubjectMode string          `json:"subject_mode,omitempty" yaml:"subject_mode,omitempty"`
	Project     *ProjectContext `json:"project,omitempty" yaml:"project,omitempty"`
	Query       string          `json:"query,omitempty" yaml:"query,omitempty"`
}

// ContainsFold reports whether list contains s, ignoring case.
func ContainsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
