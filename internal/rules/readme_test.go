package rules

import (
	"strings"
	"testing"

	"github.com/prflight/prflight/internal/document"
	"github.com/stretchr/testify/require"
)

var fence = strings.Repeat("`", 3)

// goodReadme stands in for a complete document; ~~~ marks code fences so the
// fixture can live in a raw string.
var goodReadme = strings.ReplaceAll(`# Auto PR Demo

## Overview

This repository demonstrates **automatic pull requests** driven by GitHub Actions.

## Workflow Logic

- Trigger: a push to the working branch
- Automation: a pull request is opened against main

## How to use this workflow

1. Create a personal access token
2. Store it as a secret
3. Push to the trigger branch

~~~yaml
name: auto-pr-demo
~~~
`, "~~~", fence)

func mdDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	doc, err := document.FromMarkdown("readme", text)
	require.NoError(t, err)
	return doc
}

func TestRequiredSectionsRule(t *testing.T) {
	rule := &RequiredSectionsRule{Headings: []string{"Overview", "Workflow Logic", "How to use this workflow"}}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("missing section", func(t *testing.T) {
		trimmed := strings.ReplaceAll(goodReadme, "## Workflow Logic", "## Something Else")
		vs := rule.Check(mdDoc(t, trimmed))
		require.Len(t, vs, 1)
		require.Equal(t, `missing required section "Workflow Logic"`, vs[0].Message)
	})
}

func TestRequiredContentRule(t *testing.T) {
	rule := &RequiredContentRule{Items: []ContentItem{
		{Text: "personal access token", IgnoreCase: true},
		{Text: "Trigger:", Section: "Workflow Logic"},
		{Text: "pull request", Section: "Overview"},
	}}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("missing scoped content", func(t *testing.T) {
		broken := strings.ReplaceAll(goodReadme, "Trigger:", "Fires on")
		vs := rule.Check(mdDoc(t, broken))
		require.Len(t, vs, 1)
		require.Equal(t, `missing required content "Trigger:" in section "Workflow Logic"`, vs[0].Message)
	})

	t.Run("section itself missing", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "# Title\n\nText with Trigger: here\n"))
		require.Len(t, vs, 3)
		require.Contains(t, vs[1].Message, `section "Workflow Logic" not found`)
	})

	t.Run("case folding", func(t *testing.T) {
		doc := mdDoc(t, "# T\n\nPERSONAL ACCESS TOKEN\n")
		vs := (&RequiredContentRule{Items: []ContentItem{{Text: "personal access token", IgnoreCase: true}}}).Check(doc)
		require.Empty(t, vs)
	})
}

func TestHeadingHierarchyRule(t *testing.T) {
	rule := &HeadingHierarchyRule{MinLevel2: 3}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("not enough level-2 headings", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "# Title\n\n## Only One\n\ntext\n"))
		require.Len(t, vs, 1)
		require.Equal(t, "document has 1 level-2 headings, expected at least 3", vs[0].Message)
	})

	t.Run("no level-1 heading", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "## A\n\n## B\n\n## C\n"))
		require.Len(t, vs, 1)
		require.Equal(t, "document has no level-1 heading", vs[0].Message)
	})
}

func TestListFormattingRule(t *testing.T) {
	rule := &ListFormattingRule{}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("numbered list counts", func(t *testing.T) {
		require.Empty(t, rule.Check(mdDoc(t, "# T\n\n1. first\n")))
	})

	t.Run("no lists", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "# T\n\nProse only, no lists at all.\n"))
		require.Len(t, vs, 1)
		require.Contains(t, vs[0].Message, "no bullet or numbered list")
	})
}

func TestListFormattingRuleMinNumbered(t *testing.T) {
	rule := &ListFormattingRule{Section: "How to use this workflow", MinNumbered: 3}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("too few numbered steps", func(t *testing.T) {
		broken := strings.ReplaceAll(goodReadme, "2. Store it as a secret", "- Store it as a secret")
		vs := rule.Check(mdDoc(t, broken))
		require.Len(t, vs, 1)
		require.Equal(t, `found 2 numbered steps in section "How to use this workflow", expected at least 3`, vs[0].Message)
	})

	t.Run("section missing", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "# T\n\n1. one\n2. two\n3. three\n"))
		require.Len(t, vs, 1)
		require.Contains(t, vs[0].Message, `section "How to use this workflow" not found`)
	})

	t.Run("whole document when unscoped", func(t *testing.T) {
		uns := &ListFormattingRule{MinNumbered: 2}
		require.Empty(t, uns.Check(mdDoc(t, "# T\n\n1. one\n2. two\n")))

		vs := uns.Check(mdDoc(t, "# T\n\n1. only\n"))
		require.Len(t, vs, 1)
		require.Contains(t, vs[0].Message, "found 1 numbered steps, expected at least 2")
	})
}

func TestBalancedEmphasisRule(t *testing.T) {
	rule := &BalancedEmphasisRule{}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("unbalanced", func(t *testing.T) {
		vs := rule.Check(mdDoc(t, "# T\n\nThis **bold never closes.\n"))
		require.Len(t, vs, 1)
		require.Contains(t, vs[0].Message, "appears 1 times")
	})
}

func TestFencedCodeRule(t *testing.T) {
	rule := &FencedCodeRule{}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	t.Run("unclosed fence", func(t *testing.T) {
		raw := strings.ReplaceAll("# T\n\n~~~yaml\nname: x\n", "~~~", fence)
		vs := rule.Check(mdDoc(t, raw))
		require.Len(t, vs, 1)
		require.Equal(t, "code fence opened on line 3 is never closed", vs[0].Message)
	})
}

func TestLineLengthRule(t *testing.T) {
	rule := &LineLengthRule{MaxLength: 200, Tolerance: 5}

	require.Empty(t, rule.Check(mdDoc(t, goodReadme)))

	long := strings.Repeat("x", 201)

	t.Run("under tolerance passes", func(t *testing.T) {
		raw := "# T\n\n" + strings.Repeat(long+"\n", 4)
		require.Empty(t, rule.Check(mdDoc(t, raw)))
	})

	t.Run("at tolerance fails", func(t *testing.T) {
		raw := "# T\n\n" + strings.Repeat(long+"\n", 5)
		vs := rule.Check(mdDoc(t, raw))
		require.Len(t, vs, 1)
		require.Equal(t, "5 lines exceed 200 characters (tolerance 5)", vs[0].Message)
	})
}

func TestRulesIgnoreWrongVariant(t *testing.T) {
	workflow := yamlDoc(t, "name: demo\n")
	readme := mdDoc(t, "# Title\n")

	for _, rule := range []Rule{
		&RequiredSectionsRule{Headings: []string{"Overview"}},
		&RequiredContentRule{Items: []ContentItem{{Text: "x"}}},
		&HeadingHierarchyRule{MinLevel2: 3},
		&ListFormattingRule{},
		&BalancedEmphasisRule{},
		&FencedCodeRule{},
		&LineLengthRule{MaxLength: 200, Tolerance: 5},
	} {
		require.Empty(t, rule.Check(workflow), "markdown rule %s on yaml document", rule.Name())
	}

	for _, rule := range []Rule{
		&RequiredKeysRule{Keys: []string{"name"}},
		&WorkflowNameRule{Expected: "x"},
		&TriggerRule{Branches: []string{"x"}},
		&PinnedVersionsRule{},
	} {
		require.Empty(t, rule.Check(readme), "yaml rule %s on markdown document", rule.Name())
	}
}
