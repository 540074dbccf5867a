// Package document loads and parses the documents prflight validates: the
// workflow YAML and the repository README.
package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeKind identifies the shape of a parsed YAML node.
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindMapping
	KindSequence
)

// ScalarType identifies the resolved type of a scalar node.
type ScalarType string

const (
	TypeString ScalarType = "string"
	TypeBool   ScalarType = "bool"
	TypeInt    ScalarType = "int"
	TypeFloat  ScalarType = "float"
	TypeNull   ScalarType = "null"
)

// Node is one node of a parsed YAML document. Mappings preserve key order and
// reject duplicate keys at parse time; rules rely on both.
type Node struct {
	Kind NodeKind
	Line int

	// Scalar fields.
	Type  ScalarType
	Value string // raw scalar text
	Bool  bool
	Int   int64

	// Mapping fields.
	Keys     []string
	children map[string]*Node

	// Sequence fields.
	Items []*Node
}

// ParseError reports malformed document content with the line it occurred on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// yamlErrLine pulls the line number out of yaml.v3 error strings
// ("yaml: line 4: mapping values are not allowed in this context").
var yamlErrLine = regexp.MustCompile(`line (\d+):`)

// ParseYAML parses text into a Node tree. Mapping key order and sequence
// order are preserved; duplicate mapping keys are a ParseError rather than a
// silent overwrite.
func ParseYAML(text string) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, parseErrorFrom(err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &ParseError{Line: 1, Msg: "document is empty"}
	}
	return convertNode(root.Content[0])
}

func parseErrorFrom(err error) *ParseError {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	line := 0
	if m := yamlErrLine.FindStringSubmatch(err.Error()); m != nil {
		line, _ = strconv.Atoi(m[1])
		msg = strings.TrimSpace(msg[strings.Index(msg, m[0])+len(m[0]):])
	}
	return &ParseError{Line: line, Msg: msg}
}

func convertNode(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return convertNode(n.Alias)
	case yaml.ScalarNode:
		return convertScalar(n), nil
	case yaml.MappingNode:
		out := &Node{Kind: KindMapping, Line: n.Line, children: map[string]*Node{}}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key := keyNode.Value
			if _, dup := out.children[key]; dup {
				return nil, &ParseError{Line: keyNode.Line, Msg: fmt.Sprintf("duplicate mapping key %q", key)}
			}
			val, err := convertNode(valNode)
			if err != nil {
				return nil, err
			}
			out.Keys = append(out.Keys, key)
			out.children[key] = val
		}
		return out, nil
	case yaml.SequenceNode:
		out := &Node{Kind: KindSequence, Line: n.Line}
		for _, item := range n.Content {
			val, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, val)
		}
		return out, nil
	default:
		return nil, &ParseError{Line: n.Line, Msg: fmt.Sprintf("unsupported node kind %d", n.Kind)}
	}
}

func convertScalar(n *yaml.Node) *Node {
	out := &Node{Kind: KindScalar, Line: n.Line, Value: n.Value}
	switch n.Tag {
	case "!!bool":
		out.Type = TypeBool
		out.Bool, _ = strconv.ParseBool(n.Value)
	case "!!int":
		out.Type = TypeInt
		out.Int, _ = strconv.ParseInt(n.Value, 10, 64)
	case "!!float":
		out.Type = TypeFloat
	case "!!null":
		out.Type = TypeNull
	default:
		out.Type = TypeString
	}
	return out
}

// Get returns the value for key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	v, ok := n.children[key]
	return v, ok
}

// At returns the i-th item of a sequence node.
func (n *Node) At(i int) (*Node, bool) {
	if n == nil || n.Kind != KindSequence || i < 0 || i >= len(n.Items) {
		return nil, false
	}
	return n.Items[i], true
}

// Len returns the number of mapping keys or sequence items.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindMapping:
		return len(n.Keys)
	case KindSequence:
		return len(n.Items)
	}
	return 0
}

// IsString reports whether the node is a string scalar.
func (n *Node) IsString() bool {
	return n != nil && n.Kind == KindScalar && n.Type == TypeString
}

// IsBool reports whether the node is a boolean scalar.
func (n *Node) IsBool() bool {
	return n != nil && n.Kind == KindScalar && n.Type == TypeBool
}

// Strings returns the sequence items as strings. The second return is false
// when the node is not a sequence of string scalars.
func (n *Node) Strings() ([]string, bool) {
	if n == nil || n.Kind != KindSequence {
		return nil, false
	}
	out := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if !item.IsString() {
			return nil, false
		}
		out = append(out, item.Value)
	}
	return out, true
}

// pathSegment matches one dotted path segment with optional [i] indexes,
// e.g. "steps[2]" in "jobs.pull-request.steps[2].uses".
var pathSegment = regexp.MustCompile(`^([^[\]]*)((?:\[\d+\])*)$`)

// Lookup resolves a dotted path like "jobs.pull-request.steps[2].with.pr_allow_empty".
func (n *Node) Lookup(path string) (*Node, bool) {
	cur := n
	if path == "" {
		return cur, cur != nil
	}
	for _, seg := range strings.Split(path, ".") {
		m := pathSegment.FindStringSubmatch(seg)
		if m == nil {
			return nil, false
		}
		if key := m[1]; key != "" {
			var ok bool
			if cur, ok = cur.Get(key); !ok {
				return nil, false
			}
		}
		for _, idx := range strings.Split(strings.Trim(m[2], "[]"), "][") {
			if idx == "" {
				continue
			}
			i, _ := strconv.Atoi(idx)
			var ok bool
			if cur, ok = cur.At(i); !ok {
				return nil, false
			}
		}
	}
	return cur, true
}

// MarshalYAML re-serializes the tree, preserving mapping key order.
func (n *Node) MarshalYAML() (any, error) {
	return n.encode(), nil
}

func (n *Node) encode() *yaml.Node {
	switch n.Kind {
	case KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range n.Keys {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				n.children[key].encode(),
			)
		}
		return out
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			out.Content = append(out.Content, item.encode())
		}
		return out
	default:
		tag := "!!str"
		switch n.Type {
		case TypeBool:
			tag = "!!bool"
		case TypeInt:
			tag = "!!int"
		case TypeFloat:
			tag = "!!float"
		case TypeNull:
			tag = "!!null"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Value}
	}
}
