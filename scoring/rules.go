package scoring

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Mode describes a subject mode.
type Mode struct {
	// Categories are tool categories that match the mode directly.
	Categories []string `json:"categories" yaml:"categories" validate:"required,min=1"`
	// Keywords are matched against the tool text when the category does not match.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Window is a business-hours window of a category.
type Window struct {
	Start int     `json:"start" yaml:"start" validate:"gte=0,lte=24"`
	End   int     `json:"end" yaml:"end" validate:"gte=0,lte=24,gtefield=Start"`
	In    float64 `json:"in" yaml:"in" validate:"gte=0,lte=1"`
	Out   float64 `json:"out" yaml:"out" validate:"gte=0,lte=1"`
}

// Score returns the window score for the hour.
func (w Window) Score(hour int) float64 {
	if hour >= w.Start && hour < w.End {
		return w.In
	}
	return w.Out
}

// Rules are the data tables used by the scorer.
type Rules struct {
	Modes             map[string]*Mode    `json:"modes" yaml:"modes" validate:"required,min=1,dive,required"`
	DefaultMode       string              `json:"default_mode" yaml:"default_mode" validate:"required"`
	CategoryFileTypes map[string][]string `json:"category_file_types" yaml:"category_file_types"`
	Temporal          map[string]Window   `json:"temporal" yaml:"temporal" validate:"dive"`
	DefaultTemporal   float64             `json:"default_temporal" yaml:"default_temporal" validate:"gte=0,lte=1"`
}

var defaultRules = sync.OnceValues(func() (*Rules, error) {
	return ParseRules(defaultRulesYAML)
})

// DefaultRules returns the built-in rule tables.
func DefaultRules() *Rules {
	r, err := defaultRules()
	if err != nil {
		panic(errors.WithMessage(err, "invalid built-in scoring rules"))
	}
	return r
}

// LoadRules loads rule tables from a YAML file.
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

// ParseRules parses and validates rule tables.
func ParseRules(bs []byte) (*Rules, error) {
	r := new(Rules)
	if err := yaml.Unmarshal(bs, r); err != nil {
		return nil, errors.Wrap(err, "failed to parse rules")
	}
	if err := validator.New().Struct(r); err != nil {
		return nil, errors.Wrap(err, "invalid rules")
	}
	r.normalize()
	if _, ok := r.Modes[r.DefaultMode]; !ok {
		return nil, errors.Errorf("invalid rules: default mode %q is not defined", r.DefaultMode)
	}
	return r, nil
}

func (r *Rules) normalize() {
	modes := make(map[string]*Mode, len(r.Modes))
	for name, m := range r.Modes {
		modes[strings.ToLower(name)] = m
	}
	r.Modes = modes
	r.DefaultMode = strings.ToLower(r.DefaultMode)

	ft := make(map[string][]string, len(r.CategoryFileTypes))
	for cat, exts := range r.CategoryFileTypes {
		list := make([]string, 0, len(exts))
		for _, ext := range exts {
			list = append(list, normalizeExt(ext))
		}
		ft[strings.ToLower(cat)] = list
	}
	r.CategoryFileTypes = ft

	tw := make(map[string]Window, len(r.Temporal))
	for cat, w := range r.Temporal {
		tw[strings.ToLower(cat)] = w
	}
	r.Temporal = tw
}

// mode returns the mode table, falling back to the default mode.
func (r *Rules) mode(name string) *Mode {
	if m, ok := r.Modes[strings.ToLower(name)]; ok {
		return m
	}
	return r.Modes[r.DefaultMode]
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
