// Package config provides the Config struct and loader for .prflight.yaml
// project-level configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prflight/prflight/internal/expect"
	"github.com/prflight/prflight/internal/rules"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file prflight looks for.
const ConfigFileName = ".prflight.yaml"

// WorkflowConfig holds the workflow document settings: where to find it and
// which expectations to validate it against.
type WorkflowConfig struct {
	Paths      []string     `yaml:"paths,omitempty"`
	Name       string       `yaml:"name,omitempty"`
	Branches   []string     `yaml:"branches,omitempty"`
	Restricted []string     `yaml:"restricted,omitempty"`
	Floating   []string     `yaml:"floating,omitempty"`
	Rules      []rules.Spec `yaml:"rules,omitempty"`
}

// ReadmeConfig holds the README document settings.
type ReadmeConfig struct {
	Paths []string     `yaml:"paths,omitempty"`
	Rules []rules.Spec `yaml:"rules,omitempty"`
}

// Config is the top-level configuration loaded from .prflight.yaml.
type Config struct {
	Workflow WorkflowConfig `yaml:"workflow,omitempty"`
	Readme   ReadmeConfig   `yaml:"readme,omitempty"`
}

// New returns a Config with all defaults populated from the expect package.
func New() *Config {
	return &Config{
		Workflow: WorkflowConfig{
			Paths:      append([]string(nil), expect.WorkflowPaths...),
			Name:       expect.WorkflowName,
			Branches:   []string{expect.TriggerBranch},
			Restricted: append([]string(nil), expect.RestrictedBranches...),
			Floating:   append([]string(nil), expect.FloatingRefs...),
		},
		Readme: ReadmeConfig{
			Paths: append([]string(nil), expect.ReadmePaths...),
		},
	}
}

// WorkflowRules returns the workflow rule set: custom rules from the config
// file when declared, otherwise the default contract with the configured
// name, branch, and version overrides applied.
func (c *Config) WorkflowRules() ([]rules.Rule, error) {
	if len(c.Workflow.Rules) > 0 {
		return rules.CreateAll(c.Workflow.Rules)
	}
	ruleSet := expect.WorkflowRules()
	for _, r := range ruleSet {
		switch rule := r.(type) {
		case *rules.WorkflowNameRule:
			rule.Expected = c.Workflow.Name
		case *rules.TriggerRule:
			rule.Branches = c.Workflow.Branches
			rule.Restricted = c.Workflow.Restricted
		case *rules.PinnedVersionsRule:
			rule.Floating = c.Workflow.Floating
		}
	}
	return ruleSet, nil
}

// ReadmeRules returns the README rule set, preferring custom rules from the
// config file.
func (c *Config) ReadmeRules() ([]rules.Rule, error) {
	if len(c.Readme.Rules) > 0 {
		return rules.CreateAll(c.Readme.Rules)
	}
	return expect.ReadmeRules(), nil
}

// Load finds .prflight.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*Config, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .prflight.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates real
// I/O errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig copies non-zero fields from src onto dst.
func mergeConfig(dst, src *Config) {
	if len(src.Workflow.Paths) > 0 {
		dst.Workflow.Paths = src.Workflow.Paths
	}
	if src.Workflow.Name != "" {
		dst.Workflow.Name = src.Workflow.Name
	}
	if len(src.Workflow.Branches) > 0 {
		dst.Workflow.Branches = src.Workflow.Branches
	}
	if len(src.Workflow.Restricted) > 0 {
		dst.Workflow.Restricted = src.Workflow.Restricted
	}
	if len(src.Workflow.Floating) > 0 {
		dst.Workflow.Floating = src.Workflow.Floating
	}
	if len(src.Workflow.Rules) > 0 {
		dst.Workflow.Rules = src.Workflow.Rules
	}
	if len(src.Readme.Paths) > 0 {
		dst.Readme.Paths = src.Readme.Paths
	}
	if len(src.Readme.Rules) > 0 {
		dst.Readme.Rules = src.Readme.Rules
	}
}
