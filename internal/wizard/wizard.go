// Package wizard collects the parameters of a new auto-PR workflow
// interactively and renders the workflow file and project config from them.
package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WorkflowSpec holds all fields collected during the interactive wizard.
type WorkflowSpec struct {
	Name              string
	SourceBranch      string
	DestinationBranch string
	Label             string
	TokenSecret       string
}

const workflowTemplate = `name: {{ .Name }}

on:
  push:
    branches:
      - {{ .SourceBranch }}

jobs:
  pull-request:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v3

      - name: Expose commit data
        uses: rlespinasse/git-commit-data-action@v1

      - name: Create Pull Request
        uses: diillson/auto-pull-request@v1.0.1
        with:
          source_branch: "{{ .SourceBranch }}"
          destination_branch: "{{ .DestinationBranch }}"
          pr_title: "${{"{{"}} env.GIT_COMMIT_MESSAGE_SUBJECT {{"}}"}}"
          pr_body: |

            ${{"{{"}} env.GIT_COMMIT_MESSAGE_BODY {{"}}"}}

          pr_label: "{{ .Label }}"
          pr_reviewer: ""
          pr_allow_empty: true
          github_token: ${{"{{"}} secrets.{{ .TokenSecret }} {{"}}"}}
`

const configTemplate = `workflow:
  paths:
    - .github/workflows/{{ .Name }}.yml
    - .github/workflows/{{ .Name }}.yaml
    - {{ .Name }}.yml
    - {{ .Name }}.yaml
  name: {{ .Name }}
  branches:
    - {{ .SourceBranch }}
readme:
  paths:
    - README.md
`

// namePattern restricts workflow names to the characters that are safe in a
// file name: lowercase alphanumerics and hyphens.
var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validateName(s string) error {
	if !namePattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("use lowercase letters, digits, and hyphens")
	}
	return nil
}

func validateBranch(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("branch name is required")
	}
	return nil
}

// RunWorkflowWizard runs an interactive huh form to collect workflow
// parameters. If initialName is non-empty, it pre-populates the name field.
func RunWorkflowWizard(in io.Reader, out io.Writer, initialName string) (*WorkflowSpec, error) {
	var (
		name        = initialName
		source      = "auto-pr-branch-create"
		destination = "main"
		label       = "auto-pr"
		secret      = "GH_PAT"
	)
	if name == "" {
		name = "auto-pr-demo"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workflow name").
				Description("Used for the workflow file name and the name field").
				Placeholder("auto-pr-demo").
				Value(&name).
				Validate(validateName),
			huh.NewInput().
				Title("Source branch").
				Description("The push branch that triggers PR creation").
				Value(&source).
				Validate(validateBranch),
			huh.NewInput().
				Title("Destination branch").
				Description("The branch pull requests target").
				Value(&destination).
				Validate(validateBranch),
			huh.NewInput().
				Title("PR label").
				Value(&label),
			huh.NewInput().
				Title("Token secret name").
				Description("The repository secret holding a personal access token").
				Value(&secret).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("secret name is required")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &WorkflowSpec{
		Name:              strings.TrimSpace(name),
		SourceBranch:      strings.TrimSpace(source),
		DestinationBranch: strings.TrimSpace(destination),
		Label:             strings.TrimSpace(label),
		TokenSecret:       strings.TrimSpace(secret),
	}, nil
}

// GenerateWorkflowYAML renders the workflow file from the given spec.
func GenerateWorkflowYAML(spec *WorkflowSpec) (string, error) {
	return render("workflow", workflowTemplate, spec)
}

// GenerateConfigYAML renders the .prflight.yaml contents from the given spec.
func GenerateConfigYAML(spec *WorkflowSpec) (string, error) {
	return render("config", configTemplate, spec)
}

func render(name, text string, spec *WorkflowSpec) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
