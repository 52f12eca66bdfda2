package scoring

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/effective-security/toolpilot/tools"
)

// Factor weights.
const (
	WeightSubjectMode = 0.30
	WeightProject     = 0.25
	WeightFileType    = 0.20
	WeightUsage       = 0.15
	WeightTemporal    = 0.10
)

// Factor names.
const (
	FactorSubjectMode = "subject_mode"
	FactorProject     = "project"
	FactorFileType    = "file_type"
	FactorUsage       = "usage"
	FactorTemporal    = "temporal"
)

// Factor is one weighted contributor to a tool score.
type Factor struct {
	Name        string  `json:"name" yaml:"name"`
	Score       float64 `json:"score" yaml:"score"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Description string  `json:"description" yaml:"description"`
}

// WeightedMean returns Σ(score·weight)/Σ(weight), or 0 for no factors.
func WeightedMean(factors []Factor) float64 {
	var sum, weights float64
	for _, f := range factors {
		sum += f.Score * f.Weight
		weights += f.Weight
	}
	if weights == 0 {
		return 0
	}
	return clamp01(sum / weights)
}

func (s *Scorer) subjectModeFactor(tool *tools.Tool, modeName string) Factor {
	f := Factor{Name: FactorSubjectMode, Weight: WeightSubjectMode}
	mode := s.rules.mode(modeName)

	switch {
	case tools.ContainsFold(mode.Categories, tool.Category):
		f.Score = 1.0
		f.Description = "category " + tool.Category + " matches mode " + modeName
	case tools.ContainsFold(tool.ContextRelevance.SubjectModes, modeName):
		f.Score = 0.8
		f.Description = "tool lists mode " + modeName
	default:
		text := tool.Text()
		hits := 0
		for _, kw := range mode.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				hits++
			}
		}
		f.Score = max(0.1, min(0.7, 0.2*float64(hits)))
		f.Description = "keyword overlap with mode " + modeName
	}
	return f
}

func (s *Scorer) projectFactor(tool *tools.Tool, p *tools.ProjectContext) Factor {
	f := Factor{Name: FactorProject, Weight: WeightProject}
	text := tool.Text()

	switch {
	case p.Type != "" && tools.ContainsFold(tool.ContextRelevance.ProjectTypes, p.Type):
		f.Score = 1.0
		f.Description = "supports project type " + p.Type
	case p.Language != "" && strings.Contains(text, strings.ToLower(p.Language)):
		f.Score = 0.8
		f.Description = "mentions language " + p.Language
	case p.Framework != "" && strings.Contains(text, strings.ToLower(p.Framework)):
		f.Score = 0.7
		f.Description = "mentions framework " + p.Framework
	default:
		score := 0.0
		if n := len(p.Dependencies); n > 0 {
			hits := 0
			for _, dep := range p.Dependencies {
				if dep != "" && strings.Contains(text, strings.ToLower(dep)) {
					hits++
				}
			}
			score = min(0.6, 0.6*float64(hits)/float64(n))
		}
		f.Score = max(0.2, score)
		f.Description = "dependency overlap"
	}
	return f
}

func (s *Scorer) fileTypeFactor(tool *tools.Tool, file string) Factor {
	f := Factor{Name: FactorFileType, Weight: WeightFileType}
	ext := normalizeExt(filepath.Ext(file))

	declared := make([]string, 0, len(tool.ContextRelevance.FileTypes))
	for _, ft := range tool.ContextRelevance.FileTypes {
		declared = append(declared, normalizeExt(ft))
	}

	switch {
	case ext == "":
		f.Score = 0.1
		f.Description = "file has no extension"
	case tools.ContainsFold(declared, ext):
		f.Score = 1.0
		f.Description = "supports ." + ext + " files"
	case tools.ContainsFold(s.rules.CategoryFileTypes[strings.ToLower(tool.Category)], ext):
		f.Score = 0.8
		f.Description = "category " + tool.Category + " handles ." + ext + " files"
	case strings.Contains(tool.Text(), ext):
		f.Score = 0.5
		f.Description = "mentions " + ext
	default:
		f.Score = 0.1
		f.Description = "no file type match"
	}
	return f
}

func usageFactor(tool *tools.Tool, now time.Time) Factor {
	return Factor{
		Name:        FactorUsage,
		Weight:      WeightUsage,
		Score:       UsageScore(tool, now),
		Description: "usage recency and frequency",
	}
}

func (s *Scorer) temporalFactor(tool *tools.Tool, now time.Time) Factor {
	f := Factor{Name: FactorTemporal, Weight: WeightTemporal}
	if w, ok := s.rules.Temporal[strings.ToLower(tool.Category)]; ok {
		f.Score = w.Score(now.Hour())
		f.Description = "business hours of " + tool.Category
		return f
	}
	f.Score = s.rules.DefaultTemporal
	f.Description = "no time of day preference"
	return f
}

// UsageScore returns the recency staircase score of the tool:
// used within 1h 1.0, 6h 0.8, 24h 0.6, a week 0.4;
// otherwise by usage count: >50 0.7, >10 0.5, >0 0.3, else 0.1.
func UsageScore(tool *tools.Tool, now time.Time) float64 {
	if hours, ok := tool.HoursSinceLastUse(now); ok {
		switch {
		case hours < 1:
			return 1.0
		case hours < 6:
			return 0.8
		case hours < 24:
			return 0.6
		case hours < 168:
			return 0.4
		}
	}
	switch {
	case tool.UsageCount > 50:
		return 0.7
	case tool.UsageCount > 10:
		return 0.5
	case tool.UsageCount > 0:
		return 0.3
	default:
		return 0.1
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
