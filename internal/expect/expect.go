// Package expect holds the default validation contract for the auto-pr-demo
// repository: the expected workflow content and the expected README content,
// expressed as data consumed by the generic rules. These are the single
// source of truth; config overrides reference them and no other code should
// duplicate the literals.
package expect

import (
	"github.com/prflight/prflight/internal/document"
	"github.com/prflight/prflight/internal/rules"
)

const (
	// WorkflowName is the expected name field of the workflow.
	WorkflowName = "auto-pr-demo"
	// TriggerBranch is the only branch the workflow may fire on.
	TriggerBranch = "auto-pr-branch-create"
	// JobName is the single job the workflow must define.
	JobName = "pull-request"
	// Runner is the expected runs-on value.
	Runner = "ubuntu-latest"
	// MinSteps is the minimum number of steps in the job.
	MinSteps = 3

	// CheckoutAction through AutoPRAction are the pinned action references
	// the steps must use, in order.
	CheckoutAction   = "actions/checkout@v3"
	CommitDataAction = "rlespinasse/git-commit-data-action@v1"
	AutoPRAction     = "diillson/auto-pull-request@v1.0.1"

	// TokenSecret is the secret expression the PR step must authenticate with.
	TokenSecret = "${{ secrets.GH_PAT }}"
)

// RestrictedBranches are branches the workflow must never trigger on.
var RestrictedBranches = []string{"main", "master", "production", "release"}

// FloatingRefs are action version references that can change meaning over
// time and therefore fail the pinned-versions rule.
var FloatingRefs = []string{"main", "master", "latest", "develop"}

// WorkflowPaths are the candidate locations of the workflow file, tried in
// order.
var WorkflowPaths = []string{
	".github/workflows/auto-pr-demo.yml",
	".github/workflows/auto-pr-demo.yaml",
	"auto-pr-demo.yml",
	"auto-pr-demo.yaml",
}

// ReadmePaths are the candidate locations of the README.
var ReadmePaths = []string{"README.md", "docs/README.md"}

func str(s string) *string { return &s }

// WorkflowRules returns the default rule set for the workflow document.
func WorkflowRules() []rules.Rule {
	return []rules.Rule{
		&rules.RequiredKeysRule{Keys: []string{"name", "on", "jobs"}},
		&rules.WorkflowNameRule{Expected: WorkflowName},
		&rules.TriggerRule{Branches: []string{TriggerBranch}, Restricted: RestrictedBranches},
		&rules.JobRule{Job: JobName, RunsOn: Runner, MinSteps: MinSteps},
		&rules.StepIdentityRule{Job: JobName, Steps: []rules.ExpectedStep{
			{Uses: CheckoutAction},
			{Name: "Expose commit data", Uses: CommitDataAction},
			{Name: "Create Pull Request", Uses: AutoPRAction},
		}},
		&rules.StepParamsRule{Job: JobName, Step: 2, Params: []rules.ExpectedParam{
			{Key: "source_branch", Value: str(TriggerBranch), Type: document.TypeString},
			{Key: "destination_branch", Value: str("main"), Type: document.TypeString},
			{Key: "pr_title", Type: document.TypeString, Contains: "${{ env.GIT_COMMIT_MESSAGE_SUBJECT }}"},
			{Key: "pr_body", Type: document.TypeString, Contains: "${{ env.GIT_COMMIT_MESSAGE_BODY }}"},
			{Key: "pr_label", Value: str("auto-pr"), Type: document.TypeString},
			{Key: "pr_reviewer", Value: str(""), Type: document.TypeString},
			{Key: "pr_allow_empty", Type: document.TypeBool},
			{Key: "github_token", Type: document.TypeString, Contains: TokenSecret},
		}},
		&rules.PinnedVersionsRule{Floating: FloatingRefs},
		&rules.FieldTypesRule{Fields: []rules.FieldType{
			{Path: "name", Type: document.TypeString},
			{Path: "jobs.pull-request.runs-on", Type: document.TypeString},
			{Path: "jobs.pull-request.steps[2].with.pr_allow_empty", Type: document.TypeBool},
		}},
	}
}

// ReadmeRules returns the default rule set for the README document.
func ReadmeRules() []rules.Rule {
	return []rules.Rule{
		&rules.RequiredSectionsRule{Headings: []string{
			"Overview",
			"Workflow Logic",
			"How to use this workflow",
			"Project Concerns & Design Considerations",
		}},
		&rules.RequiredContentRule{Items: []rules.ContentItem{
			{Text: TriggerBranch},
			{Text: "image-update"},
			{Text: "GH_PAT"},
			{Text: "personal access token", IgnoreCase: true},
			{Text: ".github/workflows/auto-pr-demo.yml"},
			{Text: CheckoutAction},
			{Text: CommitDataAction},
			{Text: AutoPRAction},
			{Text: "pr_allow_empty: true"},
			{Text: "already present in this repo"},
			{Text: "even if there are no changes"},
			{Text: "automation consistency", IgnoreCase: true},
			{Text: "Security:"},
			{Text: "authentication", IgnoreCase: true},
			{Text: "reviewer", IgnoreCase: true},
			{Text: "customize", IgnoreCase: true},
			{Text: "team's requirements", IgnoreCase: true},
			{Text: "Ubuntu"},
			{Text: "runner", IgnoreCase: true},
			{Text: "Trigger:", Section: "Workflow Logic"},
			{Text: "push", Section: "Workflow Logic", IgnoreCase: true},
			{Text: "checkout", Section: "Workflow Logic", IgnoreCase: true},
			{Text: "pull request", Section: "Workflow Logic", IgnoreCase: true},
			{Text: "image-update", Section: "How to use this workflow"},
			{Text: TriggerBranch, Section: "How to use this workflow"},
			{Text: "branches", Section: "How to use this workflow", IgnoreCase: true},
			{Text: "Automation:", Section: "Project Concerns & Design Considerations"},
			{Text: "Consistency:", Section: "Project Concerns & Design Considerations"},
			{Text: "Limitations:", Section: "Project Concerns & Design Considerations"},
			{Text: "Extensibility:", Section: "Project Concerns & Design Considerations"},
			{Text: "GitHub Actions"},
			{Text: "secrets", IgnoreCase: true},
		}},
		&rules.HeadingHierarchyRule{MinLevel2: 3},
		&rules.ListFormattingRule{Section: "How to use this workflow", MinNumbered: 3},
		&rules.BalancedEmphasisRule{Marker: "**"},
		&rules.FencedCodeRule{},
		&rules.LineLengthRule{MaxLength: 200, Tolerance: 5},
	}
}
