package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one heading of a Markdown document together with the raw body
// text that follows it, up to (not including) the next heading of the same or
// a shallower level. Bodies are verbatim source text, fences included, so
// rules can search them literally.
type Section struct {
	Level int
	Title string
	Body  string
	Line  int
}

// MarkdownDoc is the parsed form of a Markdown document: the sections in
// document order plus the full raw text.
type MarkdownDoc struct {
	Sections []Section
	Raw      string
}

// Section returns the first section whose title matches exactly.
func (d *MarkdownDoc) Section(title string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Title == title {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// heading is an ATX heading located in the source text.
type heading struct {
	level     int
	title     string
	lineStart int // byte offset of the start of the heading line
	lineEnd   int // byte offset just past the heading line's newline
	line      int // 1-based source line
}

// ParseMarkdown parses text into an ordered list of sections. Headings are
// recognized with a real Markdown parser so that `# lines` inside fenced code
// blocks are not mistaken for headings.
func ParseMarkdown(raw string) (*MarkdownDoc, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Line: 1, Msg: "document is empty"}
	}

	source := []byte(raw)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var headings []heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		first := h.Lines().At(0)
		last := h.Lines().At(h.Lines().Len() - 1)
		lineStart := lineStartBefore(source, first.Start)

		// Only ATX headings ("#".."######" plus a space) count as section
		// boundaries; setext underline headings are left in the body text.
		prefix := strings.TrimLeft(string(source[lineStart:first.Start]), " ")
		if !strings.HasPrefix(prefix, "#") {
			return ast.WalkContinue, nil
		}

		headings = append(headings, heading{
			level:     h.Level,
			title:     strings.TrimSpace(string(source[first.Start:last.Stop])),
			lineStart: lineStart,
			lineEnd:   lineEndAfter(source, last.Stop),
			line:      1 + strings.Count(raw[:lineStart], "\n"),
		})
		return ast.WalkContinue, nil
	})

	doc := &MarkdownDoc{Raw: raw}
	for i, h := range headings {
		bodyEnd := len(raw)
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				bodyEnd = next.lineStart
				break
			}
		}
		doc.Sections = append(doc.Sections, Section{
			Level: h.level,
			Title: h.title,
			Body:  raw[h.lineEnd:bodyEnd],
			Line:  h.line,
		})
	}
	return doc, nil
}

// lineStartBefore returns the offset of the first byte of the line containing pos.
func lineStartBefore(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEndAfter returns the offset just past the newline that ends the line at pos.
func lineEndAfter(source []byte, pos int) int {
	for pos < len(source) && source[pos] != '\n' {
		pos++
	}
	if pos < len(source) {
		pos++
	}
	return pos
}
