package scoring

import (
	"context"
	"sort"
	"time"

	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	"github.com/sourcegraph/conc/iter"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "scoring")

// Scorer computes context-driven relevance of tools.
// Scorer is immutable and safe for concurrent use.
type Scorer struct {
	rules *Rules
	now   func() time.Time
}

// Option configures the Scorer.
type Option func(*Scorer)

// WithClock sets the clock used for recency and time of day factors.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// WithRules replaces the built-in rule tables.
func WithRules(rules *Rules) Option {
	return func(s *Scorer) {
		if rules != nil {
			s.rules = rules
		}
	}
}

// NewScorer returns a Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil {
		s.rules = DefaultRules()
	}
	return s
}

// Factors returns the factors that apply to the request context.
func (s *Scorer) Factors(tool *tools.Tool, rc *tools.RequestContext) []Factor {
	if tool == nil {
		return nil
	}
	if rc == nil {
		rc = &tools.RequestContext{}
	}
	now := s.now()

	factors := make([]Factor, 0, 5)
	if rc.SubjectMode != "" {
		factors = append(factors, s.subjectModeFactor(tool, rc.SubjectMode))
	}
	if rc.Project != nil {
		factors = append(factors, s.projectFactor(tool, rc.Project))
		if rc.Project.CurrentFile != "" {
			factors = append(factors, s.fileTypeFactor(tool, rc.Project.CurrentFile))
		}
	}
	factors = append(factors,
		usageFactor(tool, now),
		s.temporalFactor(tool, now),
	)
	return factors
}

// Score returns the relevance of the tool in [0,1].
func (s *Scorer) Score(tool *tools.Tool, rc *tools.RequestContext) float64 {
	return WeightedMean(s.Factors(tool, rc))
}

// Ranked is a tool with its relevance.
type Ranked struct {
	Tool    *tools.Tool `json:"tool" yaml:"tool"`
	Score   float64     `json:"score" yaml:"score"`
	Factors []Factor    `json:"factors" yaml:"factors"`
}

// Rank scores the tools and returns them ordered by score descending,
// then by name.
func (s *Scorer) Rank(ctx context.Context, list []*tools.Tool, rc *tools.RequestContext) []Ranked {
	candidates := make([]*tools.Tool, 0, len(list))
	for _, t := range list {
		if t != nil {
			candidates = append(candidates, t)
		}
	}

	ranked := iter.Map(candidates, func(t **tools.Tool) Ranked {
		factors := s.Factors(*t, rc)
		return Ranked{
			Tool:    *t,
			Score:   WeightedMean(factors),
			Factors: factors,
		}
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Tool.Name < ranked[j].Tool.Name
	})

	if len(ranked) > 0 {
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "ranked",
			"tools", len(ranked),
			"top", ranked[0].Tool.ID,
			"score", ranked[0].Score,
		)
	}
	return ranked
}
