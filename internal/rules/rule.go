// Package rules provides the Rule interface and the rule libraries for
// workflow YAML and README Markdown documents.
package rules

import "github.com/prflight/prflight/internal/document"

// Violation is one reported breach of a rule's invariant. Path locates the
// offending value within the document when one applies.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Rule checks a single invariant against a parsed document. Rules are
// stateless, never mutate the document, and report every breach they find
// rather than stopping at the first.
type Rule interface {
	Name() string
	Check(doc *document.Document) []Violation
}
