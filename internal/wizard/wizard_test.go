package wizard

import (
	"testing"

	"github.com/prflight/prflight/internal/document"
	"github.com/prflight/prflight/internal/expect"
	"github.com/prflight/prflight/internal/validate"
	"github.com/stretchr/testify/require"
)

func defaultSpec() *WorkflowSpec {
	return &WorkflowSpec{
		Name:              "auto-pr-demo",
		SourceBranch:      "auto-pr-branch-create",
		DestinationBranch: "main",
		Label:             "auto-pr",
		TokenSecret:       "GH_PAT",
	}
}

func TestGenerateWorkflowYAML(t *testing.T) {
	out, err := GenerateWorkflowYAML(defaultSpec())
	require.NoError(t, err)

	require.Contains(t, out, "name: auto-pr-demo")
	require.Contains(t, out, "- auto-pr-branch-create")
	// Template escapes must survive as literal workflow expressions.
	require.Contains(t, out, "${{ env.GIT_COMMIT_MESSAGE_SUBJECT }}")
	require.Contains(t, out, "${{ env.GIT_COMMIT_MESSAGE_BODY }}")
	require.Contains(t, out, "${{ secrets.GH_PAT }}")
}

func TestGeneratedWorkflowPassesDefaultRules(t *testing.T) {
	out, err := GenerateWorkflowYAML(defaultSpec())
	require.NoError(t, err)

	doc, err := document.FromYAML("workflow", out)
	require.NoError(t, err)

	report := validate.Evaluate(doc, expect.WorkflowRules())
	require.Truef(t, report.Passed, "violations: %+v", report.Violations)
}

func TestGenerateWorkflowYAMLCustomSpec(t *testing.T) {
	spec := &WorkflowSpec{
		Name:              "release-sync",
		SourceBranch:      "sync-branch",
		DestinationBranch: "develop",
		Label:             "sync",
		TokenSecret:       "SYNC_TOKEN",
	}
	out, err := GenerateWorkflowYAML(spec)
	require.NoError(t, err)

	require.Contains(t, out, "name: release-sync")
	require.Contains(t, out, `source_branch: "sync-branch"`)
	require.Contains(t, out, `destination_branch: "develop"`)
	require.Contains(t, out, "${{ secrets.SYNC_TOKEN }}")
}

func TestGenerateConfigYAML(t *testing.T) {
	out, err := GenerateConfigYAML(defaultSpec())
	require.NoError(t, err)

	require.Contains(t, out, "- .github/workflows/auto-pr-demo.yml")
	require.Contains(t, out, "name: auto-pr-demo")
	require.Contains(t, out, "- auto-pr-branch-create")
	require.Contains(t, out, "- README.md")
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "simple", input: "auto-pr-demo", ok: true},
		{name: "digits", input: "pr2main", ok: true},
		{name: "uppercase", input: "Auto-PR", ok: false},
		{name: "trailing hyphen", input: "auto-", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "spaces inside", input: "auto pr", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
