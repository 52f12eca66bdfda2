package tools

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Catalog is a static list of tools, as exported by the catalog owner.
type Catalog struct {
	Tools []*Tool `json:"tools" yaml:"tools"`
}

// LoadCatalog reads a YAML catalog export from file.
func LoadCatalog(file string) (*Catalog, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ParseCatalog(bs)
}

// ParseCatalog parses a YAML catalog export.
func ParseCatalog(bs []byte) (*Catalog, error) {
	c := new(Catalog)
	if err := yaml.Unmarshal(bs, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}
	for i, t := range c.Tools {
		if t == nil || t.ID == "" {
			return nil, errors.Errorf("invalid catalog: tool at index %d has no id", i)
		}
		if t.Source.Type == "" {
			t.Source.Type = SourceBuiltin
		}
		if t.Source.Type != SourceBuiltin && t.Source.Type != SourceExternal {
			return nil, errors.Errorf("invalid catalog: tool %s has unsupported source type %q", t.ID, t.Source.Type)
		}
	}
	return c, nil
}

// ByID returns the tool with the given ID, or nil.
func (c *Catalog) ByID(id string) *Tool {
	for _, t := range c.Tools {
		if t.ID == id {
			return t
		}
	}
	return nil
}
