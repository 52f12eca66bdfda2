package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/effective-security/toolpilot/pkg/schema"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Engine string

const (
	Web   Engine = "web"
	Code  Engine = "code"
	Local Engine = "local"
)

// Lookup is a tool search request.
type Lookup struct {
	Topic  string     `json:"topic,omitempty" jsonschema:"title=Topic,description=Topic of the lookup\\, if any.,example=golang"`
	Query  string     `json:"query" jsonschema:"title=Query,description=Query to look up,example=what is golang"`
	Engine Engine     `json:"engine" jsonschema:"title=Engine,description=Engine to use,default=web,enum=web,enum=code,enum=local"`
	Args   []*Setting `json:"args,omitempty" jsonschema:"title=Args,description=Arguments for the engine"`
	Scope  *Setting   `json:"scope,omitempty" jsonschema:"title=Scope,description=Scope of the lookup"`
}

// Setting is a key-value pair.
type Setting struct {
	Key   string `json:"key" jsonschema:"title=Key,description=Key of the setting"`
	Value string `json:"value" jsonschema:"title=Value,description=Value of the setting"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("Lookup", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(Lookup{}))
		require.NoError(t, err)

		exp := `{
	"properties": {
		"topic": {
			"type": "string",
			"title": "Topic",
			"description": "Topic of the lookup, if any.",
			"examples": [
				"golang"
			]
		},
		"query": {
			"type": "string",
			"title": "Query",
			"description": "Query to look up",
			"examples": [
				"what is golang"
			]
		},
		"engine": {
			"type": "string",
			"enum": [
				"web",
				"code",
				"local"
			],
			"title": "Engine",
			"description": "Engine to use",
			"default": "web"
		},
		"args": {
			"items": {
				"properties": {
					"key": {
						"type": "string",
						"title": "Key",
						"description": "Key of the setting"
					},
					"value": {
						"type": "string",
						"title": "Value",
						"description": "Value of the setting"
					}
				},
				"type": "object",
				"required": [
					"key",
					"value"
				]
			},
			"type": "array",
			"title": "Args",
			"description": "Arguments for the engine"
		},
		"scope": {
			"properties": {
				"key": {
					"type": "string",
					"title": "Key",
					"description": "Key of the setting"
				},
				"value": {
					"type": "string",
					"title": "Value",
					"description": "Value of the setting"
				}
			},
			"type": "object",
			"required": [
				"key",
				"value"
			],
			"title": "Scope",
			"description": "Scope of the lookup"
		}
	},
	"type": "object",
	"required": [
		"query",
		"engine"
	]
}`
		assert.Equal(t, exp, s.String())

		again, err := schema.New(reflect.TypeOf(Lookup{}))
		require.NoError(t, err)
		assert.Same(t, s, again)
	})

	t.Run("ReadFile", func(t *testing.T) {
		t.Parallel()

		type readRequest struct {
			Path string `json:"path" jsonschema:"description=File path"`
			Mode string `json:"mode" jsonschema:"description=Read mode,enum=text,enum=binary"`
		}

		s, err := schema.New(reflect.TypeOf(readRequest{}))
		require.NoError(t, err)
		exp := `{
	"properties": {
		"path": {
			"type": "string",
			"description": "File path"
		},
		"mode": {
			"type": "string",
			"enum": [
				"text",
				"binary"
			],
			"description": "Read mode"
		}
	},
	"type": "object",
	"required": [
		"path",
		"mode"
	]
}`
		assert.Equal(t, exp, s.String())

		var sc jsonschema.Schema
		err = json.Unmarshal([]byte(exp), &sc)
		require.NoError(t, err)
		assert.Equal(t, 2, sc.Properties.Len())
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s, err := schema.New(reflect.TypeOf(Lookup{}))
	require.NoError(t, err)

	assert.NoError(t, s.Validate(map[string]any{
		"query":  "golang",
		"engine": "code",
		"args":   []any{map[string]any{"key": "k", "value": "v"}},
	}))

	err = s.Validate(map[string]any{"engine": "web"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed: ")
	assert.Contains(t, err.Error(), "query is required")

	err = s.Validate(map[string]any{"query": 42, "engine": "web"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid type")

	err = s.Validate(map[string]any{"query": "q", "engine": "video"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine")

	err = s.Validate(map[string]any{"query": "q", "engine": "web", "scope": map[string]any{"key": "k"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value is required")
}

func TestSchemaFromAny(t *testing.T) {
	t.Parallel()

	sc, err := schema.FromAny(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"query"},
	})
	require.NoError(t, err)

	exp := `{
	"properties": {
		"query": {
			"type": "string"
		}
	},
	"type": "object",
	"required": [
		"query"
	]
}`
	js, err := json.MarshalIndent(sc, "", "\t")
	require.NoError(t, err)
	assert.Equal(t, exp, string(js))

	_, err = schema.FromAny(map[string]any{"type": func() {}})
	assert.Error(t, err)
}
