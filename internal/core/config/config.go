// Package config handles loading and merging triage configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/triagehq/triage-bot/internal/taxonomy"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Workflow is a preset workflow name (e.g., "issue-triage").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`

	// Defaults contains default behavior settings.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Taxonomy optionally replaces the built-in category definitions.
	Taxonomy TaxonomyConfig `yaml:"taxonomy,omitempty"`

	// Rules pin issues to a category ahead of keyword scoring.
	Rules []CategoryRule `yaml:"rules,omitempty"`

	// Repositories lists the repositories this config applies to.
	Repositories []RepositoryConfig `yaml:"repositories,omitempty"`

	// BotUsers lists author logins whose issues are skipped.
	BotUsers []string `yaml:"bot_users,omitempty"`
}

// DefaultsConfig holds default behavior settings.
type DefaultsConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinGroupSize        int     `yaml:"min_group_size"`
	ApplyLabels         bool    `yaml:"apply_labels"`
	PostComments        bool    `yaml:"post_comments"`
}

// TaxonomyConfig optionally overrides the built-in categories.
type TaxonomyConfig struct {
	Categories []taxonomy.Category `yaml:"categories,omitempty"`
}

// CategoryRule pins matching issues to a category before keyword scoring.
// All specified condition types must match.
type CategoryRule struct {
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Priority      int      `yaml:"priority,omitempty"`
	Enabled       *bool    `yaml:"enabled,omitempty"`
	Labels        []string `yaml:"labels,omitempty"`
	LabelsAny     []string `yaml:"labels_any,omitempty"`
	TitleContains []string `yaml:"title_contains,omitempty"`
	BodyContains  []string `yaml:"body_contains,omitempty"`
	Author        []string `yaml:"author,omitempty"`
}

// RepositoryConfig defines a repository and its settings.
type RepositoryConfig struct {
	Org     string   `yaml:"org"`
	Repo    string   `yaml:"repo"`
	Labels  []string `yaml:"labels,omitempty"`
	Enabled bool     `yaml:"enabled"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults
	cfg.ApplyDefaults()

	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		return cfg, nil
	}

	// Fetch and parse the parent config
	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	expanded := os.ExpandEnv(string(parentData))
	var parentCfg Config
	if err := yaml.Unmarshal([]byte(expanded), &parentCfg); err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(&parentCfg, cfg)
	merged.ApplyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".github/triage.yaml",
		".github/triage.yml",
		".triage.yaml",
		".triage.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// Categories returns the configured taxonomy, falling back to the built-in
// category set when the config does not override it.
func (c *Config) Categories() []taxonomy.Category {
	if len(c.Taxonomy.Categories) > 0 {
		return c.Taxonomy.Categories
	}
	return taxonomy.DefaultCategories()
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Defaults.SimilarityThreshold == 0 {
		c.Defaults.SimilarityThreshold = 0.7
	}
	if c.Defaults.MinGroupSize == 0 {
		c.Defaults.MinGroupSize = 2
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	// String fields: override if non-empty
	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	// Defaults: override if non-zero
	if child.Defaults.SimilarityThreshold != 0 {
		result.Defaults.SimilarityThreshold = child.Defaults.SimilarityThreshold
	}
	if child.Defaults.MinGroupSize != 0 {
		result.Defaults.MinGroupSize = child.Defaults.MinGroupSize
	}
	// Booleans: always take the child value so it can override parent true -> false and vice versa
	result.Defaults.ApplyLabels = child.Defaults.ApplyLabels
	result.Defaults.PostComments = child.Defaults.PostComments

	// Taxonomy: child completely overrides if non-empty
	if len(child.Taxonomy.Categories) > 0 {
		result.Taxonomy = child.Taxonomy
	}

	// Rules: child completely overrides if non-empty
	if len(child.Rules) > 0 {
		result.Rules = child.Rules
	}

	// Repositories: child completely overrides if non-empty
	if len(child.Repositories) > 0 {
		result.Repositories = child.Repositories
	}

	if len(child.BotUsers) > 0 {
		result.BotUsers = child.BotUsers
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	// Check for path
	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/triage.yaml" // default path
	}

	return org, repo, branch, path, nil
}
