package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prflight/prflight/internal/config"
	"github.com/prflight/prflight/internal/document"
	"github.com/prflight/prflight/internal/report"
	"github.com/prflight/prflight/internal/schema"
	"github.com/prflight/prflight/internal/validate"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate the workflow and README documents",
		Long: `Validate the auto-PR workflow file and the README against the rule set.

Runs the following stages per document:
  1. Load    - first existing candidate path wins
  2. Parse   - YAML node tree / Markdown section list
  3. Schema  - workflow structure against the embedded JSON Schema
  4. Rules   - every rule runs; all violations are collected

Load, parse, and schema failures abort that document's run and are
reported apart from rule violations. Rule violations never abort.

With no arguments the current directory is used:
  prflight check            # validate workflow + README here
  prflight check path/to/repo
  prflight check --skip-readme --format junit --junit-out report.xml`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheck,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "text", "Output format: text | json | junit")
	cmd.Flags().String("junit-out", "prflight-report.xml", "Output path for JUnit XML")
	cmd.Flags().Bool("skip-workflow", false, "Skip workflow validation")
	cmd.Flags().Bool("skip-readme", false, "Skip README validation")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	junitOut, _ := cmd.Flags().GetString("junit-out")
	skipWorkflow, _ := cmd.Flags().GetBool("skip-workflow")
	skipReadme, _ := cmd.Flags().GetBool("skip-readme")

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	var reports []*validate.Report
	if !skipWorkflow {
		r, err := checkWorkflow(root, cfg)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}
	if !skipReadme {
		r, err := checkReadme(root, cfg)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}
	if len(reports) == 0 {
		return fmt.Errorf("nothing to check: both documents skipped")
	}

	switch format {
	case "text":
		report.WriteText(cmd.OutOrStdout(), reports)
	case "json":
		if err := report.WriteJSON(cmd.OutOrStdout(), reports, time.Now()); err != nil {
			return err
		}
	case "junit":
		suites := report.ConvertToJUnit(reports, time.Now())
		if err := report.WriteJUnitXML(suites, junitOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "JUnit report written to %s\n", junitOut)
	default:
		return fmt.Errorf("unknown format %q (expected text, json, or junit)", format)
	}

	var failed []string
	for _, r := range reports {
		if !r.Passed {
			failed = append(failed, r.Document)
		}
	}
	if len(failed) > 0 {
		return &ValidationFailedError{
			Message: fmt.Sprintf("validation failed: %s", strings.Join(failed, ", ")),
		}
	}
	return nil
}

// checkWorkflow loads, parses, schema-checks, and rule-checks the workflow
// document.
func checkWorkflow(root string, cfg *config.Config) (*validate.Report, error) {
	path, content, err := document.Load(root, "workflow", cfg.Workflow.Paths)
	if err != nil {
		if document.IsNotFound(err) {
			return nil, fmt.Errorf("%w (run 'prflight init' to scaffold one)", err)
		}
		return nil, err
	}
	slog.Debug("checking workflow", "path", path)

	// Parse first: the parser's errors carry line info (duplicate keys,
	// malformed structure) that the schema layer would flatten.
	doc, err := document.FromYAML("workflow", content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if errs := schema.ValidateWorkflowBytes([]byte(content)); len(errs) > 0 {
		return nil, fmt.Errorf("workflow %s does not match the workflow schema:\n  %s",
			path, strings.Join(errs, "\n  "))
	}
	ruleSet, err := cfg.WorkflowRules()
	if err != nil {
		return nil, err
	}
	return validate.Evaluate(doc, ruleSet), nil
}

// checkReadme loads, parses, and rule-checks the README document.
func checkReadme(root string, cfg *config.Config) (*validate.Report, error) {
	path, content, err := document.Load(root, "README", cfg.Readme.Paths)
	if err != nil {
		return nil, err
	}
	slog.Debug("checking README", "path", path)

	doc, err := document.FromMarkdown("README", content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	ruleSet, err := cfg.ReadmeRules()
	if err != nil {
		return nil, err
	}
	return validate.Evaluate(doc, ruleSet), nil
}
