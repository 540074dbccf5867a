package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prflight/prflight/internal/expect"
	"github.com/prflight/prflight/internal/rules"
	"github.com/stretchr/testify/require"
)

func TestLoadNoConfigFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, expect.WorkflowName, cfg.Workflow.Name)
	require.Equal(t, []string{expect.TriggerBranch}, cfg.Workflow.Branches)
	require.Equal(t, expect.RestrictedBranches, cfg.Workflow.Restricted)
	require.Equal(t, expect.WorkflowPaths, cfg.Workflow.Paths)
	require.Equal(t, expect.ReadmePaths, cfg.Readme.Paths)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `workflow:
  name: my-pipeline
  branches:
    - feature-sync
readme:
  paths:
    - docs/README.md
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "my-pipeline", cfg.Workflow.Name)
	require.Equal(t, []string{"feature-sync"}, cfg.Workflow.Branches)
	require.Equal(t, []string{"docs/README.md"}, cfg.Readme.Paths)

	// Fields the file does not mention keep their defaults.
	require.Equal(t, expect.RestrictedBranches, cfg.Workflow.Restricted)
	require.Equal(t, expect.FloatingRefs, cfg.Workflow.Floating)
	require.Equal(t, expect.WorkflowPaths, cfg.Workflow.Paths)
}

func TestLoadWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("workflow:\n  name: from-root\n"), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	require.Equal(t, "from-root", cfg.Workflow.Name)
}

func TestLoadMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("workflow: [not: valid\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing "+ConfigFileName)
}

func TestWorkflowRulesDefaultsWithOverrides(t *testing.T) {
	cfg := New()
	cfg.Workflow.Name = "renamed"
	cfg.Workflow.Branches = []string{"other-branch"}
	cfg.Workflow.Floating = []string{"edge"}

	ruleSet, err := cfg.WorkflowRules()
	require.NoError(t, err)
	require.Len(t, ruleSet, len(expect.WorkflowRules()))

	var sawName, sawTrigger, sawPinned bool
	for _, r := range ruleSet {
		switch rule := r.(type) {
		case *rules.WorkflowNameRule:
			sawName = true
			require.Equal(t, "renamed", rule.Expected)
		case *rules.TriggerRule:
			sawTrigger = true
			require.Equal(t, []string{"other-branch"}, rule.Branches)
		case *rules.PinnedVersionsRule:
			sawPinned = true
			require.Equal(t, []string{"edge"}, rule.Floating)
		}
	}
	require.True(t, sawName)
	require.True(t, sawTrigger)
	require.True(t, sawPinned)
}

func TestWorkflowRulesCustomSpecs(t *testing.T) {
	cfg := New()
	cfg.Workflow.Rules = []rules.Spec{
		{Type: "workflow-name", Params: map[string]any{"expected": "custom"}},
	}

	ruleSet, err := cfg.WorkflowRules()
	require.NoError(t, err)
	require.Len(t, ruleSet, 1)
	require.Equal(t, &rules.WorkflowNameRule{Expected: "custom"}, ruleSet[0])
}

func TestWorkflowRulesBadSpec(t *testing.T) {
	cfg := New()
	cfg.Workflow.Rules = []rules.Spec{{Type: "does-not-exist"}}

	_, err := cfg.WorkflowRules()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown rule type")
}

func TestReadmeRulesCustomSpecs(t *testing.T) {
	cfg := New()
	cfg.Readme.Rules = []rules.Spec{{Type: "fenced-code"}}

	ruleSet, err := cfg.ReadmeRules()
	require.NoError(t, err)
	require.Len(t, ruleSet, 1)
	require.Equal(t, "fenced-code", ruleSet[0].Name())
}
