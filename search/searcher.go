package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/effective-security/toolpilot/pkg/metricskey"
	"github.com/effective-security/toolpilot/scoring"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "search")

// DefaultMaxResults is the result limit used when none is specified.
const DefaultMaxResults = 10

// maxSimilarTerms bounds the synthetic query built by FindSimilar.
const maxSimilarTerms = 12

// Factor names of a search result.
const (
	FactorName        = "name"
	FactorDescription = "description"
	FactorTags        = "tags"
	FactorCategory    = "category"
	FactorUsage       = "usage"
	FactorSuccess     = "success"
)

// Options of a search call.
type Options struct {
	// MaxResults limits the number of results, DefaultMaxResults if not set.
	MaxResults int
}

// Result is a tool matched by a search, with its score and match factors.
type Result struct {
	Tool    *tools.Tool      `json:"tool" yaml:"tool"`
	Score   float64          `json:"score" yaml:"score"`
	Factors []scoring.Factor `json:"factors" yaml:"factors"`
}

// Searcher matches free text queries against a tool catalog.
// The index is rebuilt when the searchable content of the catalog changes.
// Searcher is safe for concurrent use.
type Searcher struct {
	lock       sync.Mutex
	index      *index
	now        func() time.Time
	maxResults int
}

// Option configures the Searcher.
type Option func(*Searcher)

// WithClock sets the clock used for the recency order.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) {
		s.now = now
	}
}

// WithMaxResults sets the default result limit.
func WithMaxResults(n int) Option {
	return func(s *Searcher) {
		s.maxResults = n
	}
}

// New returns a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.maxResults = values.NumbersCoalesce(max(0, s.maxResults), DefaultMaxResults)
	return s
}

// Close releases the index.
func (s *Searcher) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.index.close()
	s.index = nil
}

func (s *Searcher) limit(opts *Options) int {
	if opts != nil && opts.MaxResults > 0 {
		return opts.MaxResults
	}
	return s.maxResults
}

// Search returns tools matching the query, best first.
// For an empty query the tools are returned by recency of use.
func (s *Searcher) Search(ctx context.Context, q string, list []*tools.Tool, opts *Options) []*tools.Tool {
	return toolsOf(s.SearchWithScores(ctx, q, list, opts))
}

// SearchWithScores returns tools matching the query with their scores and
// per-field factors, best first.
func (s *Searcher) SearchWithScores(ctx context.Context, q string, list []*tools.Tool, opts *Options) []Result {
	return s.search(ctx, "query", q, compact(list), s.limit(opts))
}

// SearchInCategory searches only the tools of the category.
func (s *Searcher) SearchInCategory(ctx context.Context, q, category string, list []*tools.Tool, opts *Options) []*tools.Tool {
	var filtered []*tools.Tool
	for _, t := range compact(list) {
		if strings.EqualFold(t.Category, category) {
			filtered = append(filtered, t)
		}
	}
	return toolsOf(s.search(ctx, "category", q, filtered, s.limit(opts)))
}

// SearchByTags returns tools carrying any of the tags, ranked by the number
// of matching tags, then by usage.
func (s *Searcher) SearchByTags(ctx context.Context, tags []string, list []*tools.Tool, opts *Options) []*tools.Tool {
	started := time.Now()
	defer metricskey.PerfSearch.MeasureSince(started, "tags")
	metricskey.StatsSearches.IncrCounter(1, "tags")

	type match struct {
		tool    *tools.Tool
		overlap int
	}
	var matches []match
	for _, t := range compact(list) {
		overlap := 0
		for _, tag := range tags {
			if t.HasTag(tag) {
				overlap++
			}
		}
		if overlap > 0 {
			matches = append(matches, match{tool: t, overlap: overlap})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].overlap != matches[j].overlap {
			return matches[i].overlap > matches[j].overlap
		}
		if matches[i].tool.UsageCount != matches[j].tool.UsageCount {
			return matches[i].tool.UsageCount > matches[j].tool.UsageCount
		}
		return matches[i].tool.Name < matches[j].tool.Name
	})

	limit := s.limit(opts)
	res := make([]*tools.Tool, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(res) == limit {
			break
		}
		res = append(res, m.tool)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "search_by_tags",
		"tags", tags,
		"found", len(res),
	)
	return res
}

// FindSimilar returns tools similar to the tool, using a query built from
// its own name, description and tags. The tool itself is excluded.
func (s *Searcher) FindSimilar(ctx context.Context, tool *tools.Tool, list []*tools.Tool, opts *Options) []*tools.Tool {
	if tool == nil {
		return nil
	}
	terms := uniqueTerms(maxSimilarTerms, append([]string{tool.Name, tool.Description}, tool.Tags...)...)
	if len(terms) == 0 {
		return nil
	}

	var others []*tools.Tool
	for _, t := range compact(list) {
		if t != tool && t.ID != tool.ID {
			others = append(others, t)
		}
	}
	return toolsOf(s.search(ctx, "similar", strings.Join(terms, " "), others, s.limit(opts)))
}

// Suggest returns up to limit tool names and tags starting with prefix.
// Names come first, then tags, each ordered by usage and then alphabetically.
func (s *Searcher) Suggest(prefix string, list []*tools.Tool, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	type suggestion struct {
		text  string
		name  bool
		usage int
	}
	seen := map[string]*suggestion{}
	var all []*suggestion
	add := func(text string, name bool, usage int) {
		key := strings.ToLower(text)
		if !strings.HasPrefix(key, prefix) {
			return
		}
		if sg, ok := seen[key]; ok {
			sg.usage += usage
			sg.name = sg.name || name
			return
		}
		sg := &suggestion{text: text, name: name, usage: usage}
		seen[key] = sg
		all = append(all, sg)
	}

	for _, t := range compact(list) {
		add(t.Name, true, t.UsageCount)
		for _, tag := range t.Tags {
			add(tag, false, t.UsageCount)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].name != all[j].name {
			return all[i].name
		}
		if all[i].usage != all[j].usage {
			return all[i].usage > all[j].usage
		}
		return strings.ToLower(all[i].text) < strings.ToLower(all[j].text)
	})

	res := make([]string, 0, min(limit, len(all)))
	for _, sg := range all {
		if len(res) == limit {
			break
		}
		res = append(res, sg.text)
	}
	return res
}

func (s *Searcher) search(ctx context.Context, kind, q string, list []*tools.Tool, limit int) []Result {
	started := time.Now()
	defer metricskey.PerfSearch.MeasureSince(started, kind)
	metricskey.StatsSearches.IncrCounter(1, kind)

	terms := tokenize(q)
	var res []Result
	if len(terms) == 0 {
		res = s.byRecency(list)
	} else {
		res = s.match(ctx, terms, list)
	}
	if len(res) > limit {
		res = res[:limit]
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "search",
		"kind", kind,
		"query", q,
		"tools", len(list),
		"found", len(res),
	)
	return res
}

func (s *Searcher) byRecency(list []*tools.Tool) []Result {
	now := s.now()
	res := make([]Result, 0, len(list))
	for _, t := range list {
		score := scoring.UsageScore(t, now)
		res = append(res, Result{
			Tool:  t,
			Score: score,
			Factors: []scoring.Factor{
				{Name: FactorUsage, Score: score, Weight: 1, Description: "usage recency and frequency"},
			},
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		li, lj := res[i].Tool.LastUsed, res[j].Tool.LastUsed
		switch {
		case li != nil && lj != nil && !li.Equal(*lj):
			return li.After(*lj)
		case li != nil && lj == nil:
			return true
		case li == nil && lj != nil:
			return false
		}
		return res[i].Tool.Name < res[j].Tool.Name
	})
	return res
}

func (s *Searcher) match(ctx context.Context, terms []string, list []*tools.Tool) []Result {
	ix, candidates := s.candidates(ctx, terms, list)

	var res []Result
	for i, t := range list {
		if candidates != nil && !candidates[i] {
			continue
		}
		var f *fields
		if ix != nil {
			f = ix.fields[i]
		} else {
			f = tokenizeTool(t)
		}

		fs := f.score(terms)
		text := fs.text()
		if text <= 0 {
			continue
		}
		usage := min(1, float64(max(0, t.UsageCount))/100)
		success := max(0, min(100, t.SuccessRate)) / 100

		res = append(res, Result{
			Tool:  t,
			Score: 0.8*text + 0.1*usage + 0.1*success,
			Factors: []scoring.Factor{
				{Name: FactorName, Score: fs.name, Weight: 0.8 * weightName, Description: "name match"},
				{Name: FactorDescription, Score: fs.description, Weight: 0.8 * weightDescription, Description: "description match"},
				{Name: FactorTags, Score: fs.tags, Weight: 0.8 * weightTags, Description: "tags match"},
				{Name: FactorCategory, Score: fs.category, Weight: 0.8 * weightCategory, Description: "category match"},
				{Name: FactorUsage, Score: usage, Weight: 0.1, Description: "usage count"},
				{Name: FactorSuccess, Score: success, Weight: 0.1, Description: "success rate"},
			},
		})
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Tool.Name < res[j].Tool.Name
	})
	return res
}

// candidates returns the index for the list and the catalog positions that
// may match the terms. When the index is unavailable, candidates is nil and
// every tool is scored.
func (s *Searcher) candidates(ctx context.Context, terms []string, list []*tools.Tool) (*index, map[int]bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	fp := fingerprint(list)
	if s.index == nil || s.index.fingerprint != fp {
		s.index.close()
		s.index = nil

		ix, err := newIndex(list, fp)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "index_failed",
				"err", err.Error(),
			)
			return nil, nil
		}
		s.index = ix
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "indexed",
			"tools", len(list),
		)
	}

	positions, err := s.index.candidates(terms)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "candidates_failed",
			"err", err.Error(),
		)
		return s.index, nil
	}
	return s.index, positions
}

func compact(list []*tools.Tool) []*tools.Tool {
	res := make([]*tools.Tool, 0, len(list))
	for _, t := range list {
		if t != nil {
			res = append(res, t)
		}
	}
	return res
}

func toolsOf(results []Result) []*tools.Tool {
	list := make([]*tools.Tool, 0, len(results))
	for _, r := range results {
		list = append(list, r.Tool)
	}
	return list
}
