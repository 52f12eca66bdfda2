package tools_test

import (
	"context"
	"testing"
	"time"

	"github.com/effective-security/toolpilot/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name        string
	description string
}

func (t *fakeTool) Name() string        { return t.name }
func (t *fakeTool) Description() string { return t.description }
func (t *fakeTool) Parameters() any     { return map[string]any{"type": "object"} }
func (t *fakeTool) Call(ctx context.Context, parameters map[string]any) (any, error) {
	return nil, nil
}

func TestGetInfos(t *testing.T) {
	infos := tools.GetInfos(
		&fakeTool{name: "t1", description: "tool 1"},
		&fakeTool{name: "t2", description: "tool 2"},
	)
	require.Len(t, infos, 2)
	assert.Equal(t, "t1", infos[0].Name)
	assert.Equal(t, "tool 2", infos[1].Description)
	assert.NotNil(t, infos[0].Parameters)
}

func TestTool(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	used := now.Add(-3 * time.Hour)
	tool := &tools.Tool{
		ID:          "fmt",
		Name:        "Code Formatter",
		Description: "Formats SOURCE files",
		Tags:        []string{"Format", "lint"},
		ContextRelevance: tools.ContextRelevance{
			Keywords: []string{"gofmt"},
		},
		LastUsed: &used,
	}

	assert.Equal(t, "code formatter formats source files format lint gofmt", tool.Text())
	assert.True(t, tool.HasTag("format"))
	assert.False(t, tool.HasTag("build"))

	h, ok := tool.HoursSinceLastUse(now)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, h, 0.0001)

	_, ok = (&tools.Tool{}).HoursSinceLastUse(now)
	assert.False(t, ok)

	assert.True(t, tools.ContainsFold([]string{"Go", "Rust"}, "go"))
	assert.False(t, tools.ContainsFold(nil, "go"))
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	c, err := tools.LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, c.Tools, 2)

	git := c.ByID("git-status")
	require.NotNil(t, git)
	assert.Equal(t, tools.SourceBuiltin, git.Source.Type)
	assert.Equal(t, 42, git.UsageCount)
	require.NotNil(t, git.LastUsed)
	assert.Equal(t, 2026, git.LastUsed.Year())
	assert.Equal(t, []string{"web", "cli"}, git.ContextRelevance.ProjectTypes)

	web := c.ByID("web-search")
	require.NotNil(t, web)
	assert.Equal(t, tools.SourceExternal, web.Source.Type)
	assert.Equal(t, "search-server", web.Source.ID)
	assert.Nil(t, c.ByID("missing"))

	_, err = tools.LoadCatalog("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = tools.ParseCatalog([]byte("tools:\n  - name: no id\n"))
	assert.EqualError(t, err, "invalid catalog: tool at index 0 has no id")

	_, err = tools.ParseCatalog([]byte("tools:\n  - id: x\n    source:\n      type: remote\n"))
	assert.EqualError(t, err, `invalid catalog: tool x has unsupported source type "remote"`)
}
