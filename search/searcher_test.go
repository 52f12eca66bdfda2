package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolpilot/search"
	"github.com/effective-security/toolpilot/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func testCatalog() []*tools.Tool {
	used := testNow.Add(-30 * time.Minute)
	return []*tools.Tool{
		{
			ID:          "git",
			Name:        "Git Status",
			Description: "Show the working tree status of a git repository",
			Tags:        []string{"git", "vcs"},
			Category:    "development",
			UsageCount:  42,
			LastUsed:    &used,
			SuccessRate: 98,
		},
		{
			ID:          "web",
			Name:        "Web Search",
			Description: "Search the web for documentation and articles",
			Tags:        []string{"search", "web"},
			Category:    "research",
			UsageCount:  7,
			SuccessRate: 90,
		},
		{
			ID:          "fmt",
			Name:        "Code Formatter",
			Description: "Format source code files",
			Tags:        []string{"format", "lint"},
			Category:    "development",
		},
		{
			ID:          "csv",
			Name:        "CSV Viewer",
			Description: "Preview tabular data",
			Tags:        []string{"data"},
			Category:    "data",
			UsageCount:  60,
			SuccessRate: 100,
		},
	}
}

func ids(list []*tools.Tool) []string {
	res := make([]string, 0, len(list))
	for _, t := range list {
		res = append(res, t.ID)
	}
	return res
}

func newSearcher(t *testing.T, opts ...search.Option) *search.Searcher {
	s := search.New(append([]search.Option{search.WithClock(func() time.Time { return testNow })}, opts...)...)
	t.Cleanup(s.Close)
	return s
}

func TestSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	tcases := []struct {
		name  string
		query string
		first string
	}{
		{"exact", "search", "web"},
		{"typo", "serch", "web"},
		{"two_typos", "formater", "fmt"},
		{"prefix", "form", "fmt"},
		{"word_prefix", "view", "csv"},
		{"case", "GIT", "git"},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			res := s.Search(ctx, tc.query, list, nil)
			require.NotEmpty(t, res)
			assert.Equal(t, tc.first, res[0].ID)
		})
	}

	assert.Empty(t, s.Search(ctx, "zzzzqqq", list, nil))
	assert.Empty(t, s.Search(ctx, "git", nil, nil))
}

func TestSearchWithScores(t *testing.T) {
	t.Parallel()

	s := newSearcher(t)
	res := s.SearchWithScores(context.Background(), "git", testCatalog(), nil)
	require.Len(t, res, 1)
	assert.Equal(t, "git", res[0].Tool.ID)

	// name, description and tags match exactly, category does not
	exp := 0.8*(0.4+0.3+0.2) + 0.1*0.42 + 0.1*0.98
	assert.InDelta(t, exp, res[0].Score, 1e-9)

	require.Len(t, res[0].Factors, 6)
	assert.Equal(t, search.FactorName, res[0].Factors[0].Name)
	assert.Equal(t, 1.0, res[0].Factors[0].Score)
	assert.Equal(t, search.FactorCategory, res[0].Factors[3].Name)
	assert.Equal(t, 0.0, res[0].Factors[3].Score)
	assert.Equal(t, search.FactorSuccess, res[0].Factors[5].Name)
	assert.InDelta(t, 0.98, res[0].Factors[5].Score, 1e-9)
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	assert.Equal(t, []string{"git", "csv", "web", "fmt"}, ids(s.Search(ctx, "", list, nil)))
	assert.Equal(t, []string{"git", "csv"}, ids(s.Search(ctx, "  ", list, &search.Options{MaxResults: 2})))

	res := s.SearchWithScores(ctx, "", list, nil)
	require.Len(t, res, 4)
	assert.Equal(t, 1.0, res[0].Score)
	require.Len(t, res[0].Factors, 1)
	assert.Equal(t, search.FactorUsage, res[0].Factors[0].Name)
}

func TestSearch_MaxResults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t, search.WithMaxResults(1))
	list := testCatalog()

	assert.Len(t, s.Search(ctx, "", list, nil), 1)
	assert.Len(t, s.Search(ctx, "", list, &search.Options{MaxResults: 3}), 3)
}

func TestSearch_CatalogChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	assert.Empty(t, s.Search(ctx, "kubernetes", list, nil))

	list = append(list, &tools.Tool{
		ID:          "k8s",
		Name:        "Kubernetes Deploy",
		Description: "Deploy manifests to a cluster",
		Category:    "devops",
	})
	res := s.Search(ctx, "kubernetes", list, nil)
	require.Len(t, res, 1)
	assert.Equal(t, "k8s", res[0].ID)

	// the index is rebuilt after Close
	s.Close()
	res = s.Search(ctx, "kubernetes", list, nil)
	require.Len(t, res, 1)
}

func TestSearchInCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	assert.Equal(t, []string{"git", "fmt"}, ids(s.SearchInCategory(ctx, "", "Development", list, nil)))
	assert.Equal(t, []string{"fmt"}, ids(s.SearchInCategory(ctx, "code", "development", list, nil)))
	assert.Empty(t, s.SearchInCategory(ctx, "search", "development", list, nil))
	assert.Empty(t, s.SearchInCategory(ctx, "", "unknown", list, nil))
}

func TestSearchByTags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	assert.Equal(t, []string{"web", "git"}, ids(s.SearchByTags(ctx, []string{"WEB", "search", "git"}, list, nil)))
	// equal overlap is ordered by usage
	assert.Equal(t, []string{"git"}, ids(s.SearchByTags(ctx, []string{"web", "git"}, list, &search.Options{MaxResults: 1})))
	assert.Empty(t, s.SearchByTags(ctx, []string{"none"}, list, nil))
	assert.Empty(t, s.SearchByTags(ctx, nil, list, nil))
}

func TestFindSimilar(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newSearcher(t)
	list := testCatalog()

	res := s.FindSimilar(ctx, list[0], list, nil)
	assert.NotContains(t, ids(res), "git")
	assert.Contains(t, ids(res), "web")

	assert.Nil(t, s.FindSimilar(ctx, nil, list, nil))
	assert.Nil(t, s.FindSimilar(ctx, &tools.Tool{ID: "empty"}, list, nil))
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	s := newSearcher(t)
	list := testCatalog()

	assert.Equal(t, []string{"search"}, s.Suggest("se", list, 0))
	assert.Equal(t, []string{"CSV Viewer", "Code Formatter"}, s.Suggest("C", list, 5))
	assert.Equal(t, []string{"CSV Viewer"}, s.Suggest("c", list, 1))
	assert.Equal(t, []string{"Git Status", "git"}, s.Suggest("gi", list, 5))
	assert.Empty(t, s.Suggest("", list, 5))
	assert.Empty(t, s.Suggest("zz", list, 5))
}
