// Package validate evaluates a rule set against one parsed document and
// aggregates the results into a report.
package validate

import (
	"github.com/prflight/prflight/internal/document"
	"github.com/prflight/prflight/internal/rules"
)

// RuleResult holds one rule's outcome within a report.
type RuleResult struct {
	Rule       string            `json:"rule"`
	Passed     bool              `json:"passed"`
	Violations []rules.Violation `json:"violations,omitempty"`
}

// Report is the outcome of validating one document. It is built during
// evaluation and never mutated afterwards.
type Report struct {
	Document       string            `json:"document"`
	Passed         bool              `json:"passed"`
	RulesEvaluated int               `json:"rulesEvaluated"`
	Results        []RuleResult      `json:"results"`
	Violations     []rules.Violation `json:"violations,omitempty"`
}

// Evaluate runs every rule against the document. There is no short-circuit:
// every rule runs every time so the report carries complete diagnostics, and
// violations appear in rule order. Given the same document and rule set the
// output is identical on every call.
func Evaluate(doc *document.Document, ruleSet []rules.Rule) *Report {
	report := &Report{
		Document:       doc.Name,
		RulesEvaluated: len(ruleSet),
	}
	for _, rule := range ruleSet {
		vs := rule.Check(doc)
		report.Results = append(report.Results, RuleResult{
			Rule:       rule.Name(),
			Passed:     len(vs) == 0,
			Violations: vs,
		})
		report.Violations = append(report.Violations, vs...)
	}
	report.Passed = len(report.Violations) == 0
	return report
}
