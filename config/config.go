package config

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/scoring"
	"github.com/effective-security/toolpilot/search"
	"github.com/effective-security/toolpilot/thinking"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
)

// Config of the process
type Config struct {
	// Catalog specifies the tool catalog file
	Catalog  string         `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Router   RouterConfig   `json:"router" yaml:"router"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	Scoring  ScoringConfig  `json:"scoring" yaml:"scoring"`
	Thinking ThinkingConfig `json:"thinking" yaml:"thinking"`
}

// RouterConfig specifies the execution router options
type RouterConfig struct {
	// DefaultTimeoutMs is the execution timeout of requests without one,
	// 30 seconds if not set.
	DefaultTimeoutMs int `json:"default_timeout_ms,omitempty" yaml:"default_timeout_ms,omitempty" validate:"gte=0"`
}

// SearchConfig specifies the search options
type SearchConfig struct {
	// MaxResults is the default limit of search results
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty" validate:"gte=0"`
}

// ScoringConfig specifies the relevance scoring options
type ScoringConfig struct {
	// RulesFile replaces the built-in scoring rules
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
}

// ThinkingConfig specifies the task classifier options
type ThinkingConfig struct {
	// RulesFile replaces the built-in classification tables
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
	// CapabilitiesFile replaces the built-in capability configs
	CapabilitiesFile string `json:"capabilities_file,omitempty" yaml:"capabilities_file,omitempty"`
	// StrictPrerequisites rejects unknown or cyclic prerequisites
	StrictPrerequisites bool `json:"strict_prerequisites,omitempty" yaml:"strict_prerequisites,omitempty"`
}

// Load returns the configuration from file, or the defaults if file is empty.
// Environment variables in the file are expanded, and relative paths are
// resolved against the folder of the file.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load config from %s", file)
	}
	if err = validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", file)
	}

	dir := filepath.Dir(file)
	for _, p := range []*string{
		&cfg.Catalog,
		&cfg.Scoring.RulesFile,
		&cfg.Thinking.RulesFile,
		&cfg.Thinking.CapabilitiesFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}

// DefaultTimeout returns the router timeout.
func (c *RouterConfig) DefaultTimeout() time.Duration {
	return time.Duration(values.NumbersCoalesce(c.DefaultTimeoutMs, int(router.DefaultTimeout/time.Millisecond))) * time.Millisecond
}

// RouterOptions returns the router options.
func (c *Config) RouterOptions(opts ...router.Option) []router.Option {
	return append([]router.Option{router.WithDefaultTimeout(c.Router.DefaultTimeout())}, opts...)
}

// SearchOptions returns the searcher options.
func (c *Config) SearchOptions(opts ...search.Option) []search.Option {
	n := values.NumbersCoalesce(c.Search.MaxResults, search.DefaultMaxResults)
	return append([]search.Option{search.WithMaxResults(n)}, opts...)
}

// ScorerOptions returns the scorer options, loading the rules file if configured.
func (c *Config) ScorerOptions(opts ...scoring.Option) ([]scoring.Option, error) {
	if c.Scoring.RulesFile == "" {
		return opts, nil
	}
	rules, err := scoring.LoadRules(c.Scoring.RulesFile)
	if err != nil {
		return nil, err
	}
	return append([]scoring.Option{scoring.WithRules(rules)}, opts...), nil
}

// ClassifierOptions returns the classifier options.
func (c *Config) ClassifierOptions() []thinking.Option {
	var opts []thinking.Option
	if c.Thinking.RulesFile != "" {
		opts = append(opts, thinking.WithRulesFile(c.Thinking.RulesFile))
	}
	if c.Thinking.CapabilitiesFile != "" {
		opts = append(opts, thinking.WithCapabilitiesFile(c.Thinking.CapabilitiesFile))
	}
	opts = append(opts, thinking.WithStrictPrerequisites(c.Thinking.StrictPrerequisites))
	return opts
}
