package rules

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/prflight/prflight/internal/document"
)

// Spec declares one rule as data: a type name plus type-specific parameters.
// Rule sets in .prflight.yaml are lists of these.
type Spec struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params,omitempty"`
}

// Create builds a rule from its declared type and parameters.
func Create(spec Spec) (Rule, error) {
	switch spec.Type {
	case "required-keys":
		var v struct {
			Keys []string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &RequiredKeysRule{Keys: v.Keys}, nil
	case "workflow-name":
		var v struct {
			Expected string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &WorkflowNameRule{Expected: v.Expected}, nil
	case "push-trigger":
		var v struct {
			Branches   []string
			Restricted []string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &TriggerRule{Branches: v.Branches, Restricted: v.Restricted}, nil
	case "job-shape":
		var v struct {
			Job      string
			RunsOn   string `mapstructure:"runs_on"`
			MinSteps int    `mapstructure:"min_steps"`
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &JobRule{Job: v.Job, RunsOn: v.RunsOn, MinSteps: v.MinSteps}, nil
	case "step-identity":
		var v struct {
			Job   string
			Steps []struct {
				Name string
				Uses string
			}
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		r := &StepIdentityRule{Job: v.Job}
		for _, s := range v.Steps {
			r.Steps = append(r.Steps, ExpectedStep{Name: s.Name, Uses: s.Uses})
		}
		return r, nil
	case "step-params":
		var v struct {
			Job    string
			Step   int
			Params []struct {
				Key      string
				Value    *string
				Type     string
				Contains string
			}
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		r := &StepParamsRule{Job: v.Job, Step: v.Step}
		for _, p := range v.Params {
			r.Params = append(r.Params, ExpectedParam{
				Key:      p.Key,
				Value:    p.Value,
				Type:     document.ScalarType(p.Type),
				Contains: p.Contains,
			})
		}
		return r, nil
	case "pinned-versions":
		var v struct {
			Floating []string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &PinnedVersionsRule{Floating: v.Floating}, nil
	case "field-types":
		var v struct {
			Fields []struct {
				Path string
				Type string
			}
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		r := &FieldTypesRule{}
		for _, f := range v.Fields {
			r.Fields = append(r.Fields, FieldType{Path: f.Path, Type: document.ScalarType(f.Type)})
		}
		return r, nil
	case "required-sections":
		var v struct {
			Headings []string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &RequiredSectionsRule{Headings: v.Headings}, nil
	case "required-content":
		var v struct {
			Items []struct {
				Text       string
				Section    string
				IgnoreCase bool `mapstructure:"ignore_case"`
			}
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		r := &RequiredContentRule{}
		for _, item := range v.Items {
			r.Items = append(r.Items, ContentItem{Text: item.Text, Section: item.Section, IgnoreCase: item.IgnoreCase})
		}
		return r, nil
	case "heading-hierarchy":
		var v struct {
			MinLevel2 int `mapstructure:"min_level2"`
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &HeadingHierarchyRule{MinLevel2: v.MinLevel2}, nil
	case "list-formatting":
		var v struct {
			Section     string
			MinNumbered int `mapstructure:"min_numbered"`
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &ListFormattingRule{Section: v.Section, MinNumbered: v.MinNumbered}, nil
	case "balanced-emphasis":
		var v struct {
			Marker string
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &BalancedEmphasisRule{Marker: v.Marker}, nil
	case "fenced-code":
		return &FencedCodeRule{}, nil
	case "line-length":
		var v struct {
			MaxLength int `mapstructure:"max_length"`
			Tolerance int
		}
		if err := decodeParams(spec, &v); err != nil {
			return nil, err
		}
		return &LineLengthRule{MaxLength: v.MaxLength, Tolerance: v.Tolerance}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", spec.Type)
	}
}

// CreateAll builds every rule in the list, preserving order.
func CreateAll(specs []Spec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		r, err := Create(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeParams(spec Spec, target any) error {
	if err := mapstructure.Decode(spec.Params, target); err != nil {
		return fmt.Errorf("decoding %s params: %w", spec.Type, err)
	}
	return nil
}
