package thinking

import (
	_ "embed"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed rules.yaml
	defaultRulesYAML []byte

	//go:embed capabilities.yaml
	defaultCapabilitiesYAML []byte
)

// KeywordBonus adds Bonus when any of the keywords is found.
type KeywordBonus struct {
	Bonus    int      `json:"bonus" yaml:"bonus" validate:"gte=0"`
	Keywords []string `json:"keywords" yaml:"keywords" validate:"required,min=1"`
}

// ThresholdBonus adds Bonus when a measure exceeds Threshold.
type ThresholdBonus struct {
	Bonus     int `json:"bonus" yaml:"bonus" validate:"gte=0"`
	Threshold int `json:"threshold" yaml:"threshold" validate:"gte=0"`
}

// SizeBonus adds Bonus when the project size equals Size.
type SizeBonus struct {
	Bonus int    `json:"bonus" yaml:"bonus" validate:"gte=0"`
	Size  string `json:"size" yaml:"size" validate:"required"`
}

// ComplexityRules are the complexity scoring rules.
type ComplexityRules struct {
	High            KeywordBonus   `json:"high" yaml:"high"`
	Medium          KeywordBonus   `json:"medium" yaml:"medium"`
	LongDescription ThresholdBonus `json:"long_description" yaml:"long_description"`
	Sentences       ThresholdBonus `json:"sentences" yaml:"sentences"`
	FileCount       ThresholdBonus `json:"file_count" yaml:"file_count"`
	LargeProject    SizeBonus      `json:"large_project" yaml:"large_project"`
}

// Match is an entry of an ordered keyword table.
type Match struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Keywords []string `json:"keywords" yaml:"keywords" validate:"required,min=1"`
}

// Rules are the classification tables.
type Rules struct {
	Complexity      ComplexityRules `json:"complexity" yaml:"complexity"`
	TaskTypes       []Match         `json:"task_types" yaml:"task_types" validate:"required,min=1,dive"`
	DefaultTaskType string          `json:"default_task_type" yaml:"default_task_type" validate:"required"`
	Domains         []Match         `json:"domains" yaml:"domains" validate:"dive"`
	DefaultDomain   string          `json:"default_domain" yaml:"default_domain" validate:"required"`
}

// ParseRules parses and validates classification tables.
func ParseRules(bs []byte) (*Rules, error) {
	r := new(Rules)
	if err := yaml.Unmarshal(bs, r); err != nil {
		return nil, errors.Wrap(err, "failed to parse rules")
	}
	if err := validator.New().Struct(r); err != nil {
		return nil, errors.Wrap(err, "invalid rules")
	}
	r.normalize()
	return r, nil
}

// LoadRules loads classification tables from a YAML file.
func LoadRules(file string) (*Rules, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r, err := ParseRules(bs)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load rules from %s", file)
	}
	return r, nil
}

func (r *Rules) normalize() {
	lower := func(list []string) []string {
		res := make([]string, len(list))
		for i, s := range list {
			res[i] = strings.ToLower(s)
		}
		return res
	}
	r.Complexity.High.Keywords = lower(r.Complexity.High.Keywords)
	r.Complexity.Medium.Keywords = lower(r.Complexity.Medium.Keywords)
	for i := range r.TaskTypes {
		r.TaskTypes[i].Keywords = lower(r.TaskTypes[i].Keywords)
	}
	for i := range r.Domains {
		r.Domains[i].Keywords = lower(r.Domains[i].Keywords)
	}
}

type capabilities struct {
	List []*CapabilityConfig `validate:"required,min=1,dive,required"`
}

// ParseCapabilities parses and validates capability configs.
func ParseCapabilities(bs []byte) ([]*CapabilityConfig, error) {
	var c capabilities
	if err := yaml.Unmarshal(bs, &c.List); err != nil {
		return nil, errors.Wrap(err, "failed to parse capabilities")
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, errors.Wrap(err, "invalid capabilities")
	}
	return c.List, nil
}

// LoadCapabilities loads capability configs from a YAML file.
func LoadCapabilities(file string) ([]*CapabilityConfig, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	list, err := ParseCapabilities(bs)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load capabilities from %s", file)
	}
	return list, nil
}

// containsAny returns true if text contains any of the keywords.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// firstMatch returns the name of the first entry with a keyword in text.
func firstMatch(text string, table []Match, fallback string) string {
	for _, m := range table {
		if containsAny(text, m.Keywords) {
			return m.Name
		}
	}
	return fallback
}
