package document

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoadError reports that a document could not be read. NotFound distinguishes
// "no candidate path exists" from "a candidate exists but is unreadable";
// callers treat the two differently.
type LoadError struct {
	Name     string
	Path     string   // the path that failed to read (empty when NotFound)
	Searched []string // candidate paths tried, in order
	NotFound bool
	Err      error
}

func (e *LoadError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("%s: not found (searched %s)", e.Name, strings.Join(e.Searched, ", "))
	}
	return fmt.Sprintf("%s: reading %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a LoadError for a missing document.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.NotFound
}

// Load reads the named document from the first candidate path that exists,
// resolved relative to root. It is the only I/O in a validation run; the
// returned text is parsed once and shared by every rule.
func Load(root, name string, candidates []string) (path string, content string, err error) {
	searched := make([]string, 0, len(candidates))
	for _, rel := range candidates {
		p := filepath.Join(root, rel)
		searched = append(searched, rel)
		info, statErr := os.Stat(p)
		if statErr != nil || info.IsDir() {
			slog.Debug("candidate not found", "document", name, "path", p)
			continue
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return "", "", &LoadError{Name: name, Path: p, Searched: searched, Err: readErr}
		}
		slog.Debug("document loaded", "document", name, "path", p, "bytes", len(data))
		return p, string(data), nil
	}
	return "", "", &LoadError{Name: name, Searched: searched, NotFound: true}
}

// Document is one parsed document handed to rules. Exactly one of YAML and
// Markdown is set; rules written for the other variant report nothing.
type Document struct {
	Name     string
	YAML     *Node
	Markdown *MarkdownDoc
}

// FromYAML parses text and wraps it as a named YAML document.
func FromYAML(name, text string) (*Document, error) {
	node, err := ParseYAML(text)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, YAML: node}, nil
}

// FromMarkdown parses text and wraps it as a named Markdown document.
func FromMarkdown(name, text string) (*Document, error) {
	md, err := ParseMarkdown(text)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Markdown: md}, nil
}
