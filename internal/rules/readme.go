package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prflight/prflight/internal/document"
)

// RequiredSectionsRule checks that each configured heading appears at least
// once, at any level, matched exactly.
type RequiredSectionsRule struct {
	Headings []string
}

var _ Rule = (*RequiredSectionsRule)(nil)

func (*RequiredSectionsRule) Name() string { return "required-sections" }

func (r *RequiredSectionsRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	var vs []Violation
	for _, heading := range r.Headings {
		if _, ok := md.Section(heading); !ok {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("missing required section %q", heading)})
		}
	}
	return vs
}

// ContentItem is one literal substring the document must contain. Section,
// when set, scopes the search to that section's body; otherwise the full text
// is searched. IgnoreCase folds both sides before matching.
type ContentItem struct {
	Text       string
	Section    string
	IgnoreCase bool
}

// RequiredContentRule checks that each configured substring appears in the
// document, or within its named section.
type RequiredContentRule struct {
	Items []ContentItem
}

var _ Rule = (*RequiredContentRule)(nil)

func (*RequiredContentRule) Name() string { return "required-content" }

func (r *RequiredContentRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	var vs []Violation
	for _, item := range r.Items {
		haystack := md.Raw
		where := ""
		if item.Section != "" {
			section, ok := md.Section(item.Section)
			if !ok {
				vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("section %q not found while looking for %q", item.Section, item.Text)})
				continue
			}
			haystack = section.Body
			where = fmt.Sprintf(" in section %q", item.Section)
		}
		needle := item.Text
		if item.IgnoreCase {
			haystack = strings.ToLower(haystack)
			needle = strings.ToLower(needle)
		}
		if !strings.Contains(haystack, needle) {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("missing required content %q%s", item.Text, where)})
		}
	}
	return vs
}

// HeadingHierarchyRule checks that the document has at least one level-1
// heading and at least MinLevel2 level-2 headings.
type HeadingHierarchyRule struct {
	MinLevel2 int
}

var _ Rule = (*HeadingHierarchyRule)(nil)

func (*HeadingHierarchyRule) Name() string { return "heading-hierarchy" }

func (r *HeadingHierarchyRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	h1, h2 := 0, 0
	for _, s := range md.Sections {
		switch s.Level {
		case 1:
			h1++
		case 2:
			h2++
		}
	}
	var vs []Violation
	if h1 < 1 {
		vs = append(vs, Violation{Rule: r.Name(), Message: "document has no level-1 heading"})
	}
	if h2 < r.MinLevel2 {
		vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("document has %d level-2 headings, expected at least %d", h2, r.MinLevel2)})
	}
	return vs
}

// listItemPattern matches bullet or numbered list items at line start,
// allowing leading whitespace.
var listItemPattern = regexp.MustCompile(`(?m)^\s*(?:[-*]|\d+\.)\s+`)

// numberedItemPattern matches numbered list items only.
var numberedItemPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)

// ListFormattingRule checks that the document contains at least one bullet or
// numbered list item. When MinNumbered is set, it additionally requires that
// many numbered steps, counted within the named Section's body when Section
// is set, otherwise across the full text.
type ListFormattingRule struct {
	Section     string
	MinNumbered int
}

var _ Rule = (*ListFormattingRule)(nil)

func (*ListFormattingRule) Name() string { return "list-formatting" }

func (r *ListFormattingRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	var vs []Violation
	if !listItemPattern.MatchString(md.Raw) {
		vs = append(vs, Violation{Rule: r.Name(), Message: "document contains no bullet or numbered list items"})
	}
	if r.MinNumbered > 0 {
		haystack := md.Raw
		where := ""
		if r.Section != "" {
			section, ok := md.Section(r.Section)
			if !ok {
				vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("section %q not found while counting numbered steps", r.Section)})
				return vs
			}
			haystack = section.Body
			where = fmt.Sprintf(" in section %q", r.Section)
		}
		if n := len(numberedItemPattern.FindAllString(haystack, -1)); n < r.MinNumbered {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("found %d numbered steps%s, expected at least %d", n, where, r.MinNumbered)})
		}
	}
	return vs
}

// BalancedEmphasisRule checks that occurrences of the configured emphasis
// marker pair up: an odd count means an opening marker was never closed.
type BalancedEmphasisRule struct {
	Marker string
}

var _ Rule = (*BalancedEmphasisRule)(nil)

func (*BalancedEmphasisRule) Name() string { return "balanced-emphasis" }

func (r *BalancedEmphasisRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	marker := r.Marker
	if marker == "" {
		marker = "**"
	}
	if count := strings.Count(md.Raw, marker); count%2 != 0 {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("emphasis marker %q appears %d times; markers must pair up", marker, count)}}
	}
	return nil
}

// FencedCodeRule checks that every opening triple-backtick fence has a
// matching closing fence before end of document.
type FencedCodeRule struct{}

var _ Rule = (*FencedCodeRule)(nil)

func (*FencedCodeRule) Name() string { return "fenced-code" }

func (r *FencedCodeRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	open := false
	openLine := 0
	for i, line := range strings.Split(md.Raw, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "```") {
			open = !open
			if open {
				openLine = i + 1
			}
		}
	}
	if open {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("code fence opened on line %d is never closed", openLine)}}
	}
	return nil
}

// LineLengthRule flags the document when the number of lines longer than
// MaxLength reaches Tolerance. A handful of long lines is acceptable; this is
// a soft limit on how many.
type LineLengthRule struct {
	MaxLength int
	Tolerance int
}

var _ Rule = (*LineLengthRule)(nil)

func (*LineLengthRule) Name() string { return "line-length" }

func (r *LineLengthRule) Check(doc *document.Document) []Violation {
	md := doc.Markdown
	if md == nil {
		return nil
	}
	long := 0
	for _, line := range strings.Split(md.Raw, "\n") {
		if len(line) > r.MaxLength {
			long++
		}
	}
	if long >= r.Tolerance {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("%d lines exceed %d characters (tolerance %d)", long, r.MaxLength, r.Tolerance)}}
	}
	return nil
}
