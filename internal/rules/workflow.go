package rules

import (
	"fmt"
	"strings"

	"github.com/prflight/prflight/internal/document"
)

// RequiredKeysRule checks that the configured top-level keys exist. When
// "jobs" is among them it must also be a non-empty mapping.
type RequiredKeysRule struct {
	Keys []string
}

var _ Rule = (*RequiredKeysRule)(nil)

func (*RequiredKeysRule) Name() string { return "required-keys" }

func (r *RequiredKeysRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	var vs []Violation
	for _, key := range r.Keys {
		val, ok := root.Get(key)
		if !ok {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("missing required top-level key %q", key), Path: key})
			continue
		}
		if key == "jobs" && val.Len() == 0 {
			vs = append(vs, Violation{Rule: r.Name(), Message: "jobs must define at least one job", Path: key})
		}
	}
	return vs
}

// WorkflowNameRule checks that the workflow's name field equals the expected
// literal.
type WorkflowNameRule struct {
	Expected string
}

var _ Rule = (*WorkflowNameRule)(nil)

func (*WorkflowNameRule) Name() string { return "workflow-name" }

func (r *WorkflowNameRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	name, ok := root.Get("name")
	if !ok {
		return []Violation{{Rule: r.Name(), Message: "workflow has no name field", Path: "name"}}
	}
	if !name.IsString() || name.Value != r.Expected {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("workflow name is %q, expected %q", name.Value, r.Expected), Path: "name"}}
	}
	return nil
}

// TriggerRule checks the push trigger: on.push.branches must be a sequence
// holding exactly the configured branches, and none of the restricted
// branches may appear. The restriction is a safety property, not a presence
// check: a workflow that fires on main can open pull requests from every
// push to the default branch.
type TriggerRule struct {
	Branches   []string
	Restricted []string
}

var _ Rule = (*TriggerRule)(nil)

func (*TriggerRule) Name() string { return "push-trigger" }

func (r *TriggerRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	branchesNode, ok := root.Lookup("on.push.branches")
	if !ok {
		return []Violation{{Rule: r.Name(), Message: "on.push.branches is not configured", Path: "on.push.branches"}}
	}
	branches, ok := branchesNode.Strings()
	if !ok {
		return []Violation{{Rule: r.Name(), Message: "on.push.branches must be a sequence of branch names", Path: "on.push.branches"}}
	}

	var vs []Violation
	have := make(map[string]bool, len(branches))
	for _, b := range branches {
		have[b] = true
	}
	for _, want := range r.Branches {
		if !have[want] {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("trigger branch %q is missing", want), Path: "on.push.branches"})
		}
	}
	expected := make(map[string]bool, len(r.Branches))
	for _, b := range r.Branches {
		expected[b] = true
	}
	for i, b := range branches {
		path := fmt.Sprintf("on.push.branches[%d]", i)
		for _, restricted := range r.Restricted {
			if b == restricted {
				vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("workflow must not trigger on restricted branch %q", b), Path: path})
			}
		}
		if !expected[b] {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("unexpected trigger branch %q", b), Path: path})
		}
	}
	return vs
}

// JobRule checks the shape of a named job: it exists, runs on the expected
// runner, and declares at least MinSteps steps.
type JobRule struct {
	Job      string
	RunsOn   string
	MinSteps int
}

var _ Rule = (*JobRule)(nil)

func (*JobRule) Name() string { return "job-shape" }

func (r *JobRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	jobPath := "jobs." + r.Job
	job, ok := root.Lookup(jobPath)
	if !ok {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("job %q is not defined", r.Job), Path: jobPath}}
	}

	var vs []Violation
	runsOn, ok := job.Get("runs-on")
	switch {
	case !ok:
		vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("job %q does not declare runs-on", r.Job), Path: jobPath + ".runs-on"})
	case !runsOn.IsString() || runsOn.Value != r.RunsOn:
		vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("job %q runs on %q, expected %q", r.Job, runsOn.Value, r.RunsOn), Path: jobPath + ".runs-on"})
	}

	steps, ok := job.Get("steps")
	switch {
	case !ok || steps.Kind != document.KindSequence:
		vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("job %q must declare steps as a sequence", r.Job), Path: jobPath + ".steps"})
	case steps.Len() < r.MinSteps:
		vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("job %q has %d steps, expected at least %d", r.Job, steps.Len(), r.MinSteps), Path: jobPath + ".steps"})
	}
	return vs
}

// ExpectedStep describes one step of a job by position. Name is only checked
// when non-empty.
type ExpectedStep struct {
	Name string
	Uses string
}

// StepIdentityRule checks that each expected step, by position, uses the
// expected action and carries the expected display name.
type StepIdentityRule struct {
	Job   string
	Steps []ExpectedStep
}

var _ Rule = (*StepIdentityRule)(nil)

func (*StepIdentityRule) Name() string { return "step-identity" }

func (r *StepIdentityRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	steps, ok := root.Lookup("jobs." + r.Job + ".steps")
	if !ok {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("job %q has no steps to check", r.Job), Path: "jobs." + r.Job + ".steps"}}
	}

	var vs []Violation
	for i, want := range r.Steps {
		path := fmt.Sprintf("jobs.%s.steps[%d]", r.Job, i)
		step, ok := steps.At(i)
		if !ok {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("step %d is missing (expected %s)", i+1, want.Uses), Path: path})
			continue
		}
		uses, ok := step.Get("uses")
		switch {
		case !ok:
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("step %d has no uses field (expected %s)", i+1, want.Uses), Path: path + ".uses"})
		case !uses.IsString() || uses.Value != want.Uses:
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("step %d uses %q, expected %q", i+1, uses.Value, want.Uses), Path: path + ".uses"})
		}
		if want.Name == "" {
			continue
		}
		name, ok := step.Get("name")
		switch {
		case !ok:
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("step %d has no name (expected %q)", i+1, want.Name), Path: path + ".name"})
		case !name.IsString() || name.Value != want.Name:
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("step %d is named %q, expected %q", i+1, name.Value, want.Name), Path: path + ".name"})
		}
	}
	return vs
}

// ExpectedParam describes one required key of a step's with mapping.
// Value, when non-nil, requires an exact scalar match. Type requires a scalar
// type ("string" or "bool"). Contains requires a literal substring, used to
// verify that templated expressions survive intact.
type ExpectedParam struct {
	Key      string
	Value    *string
	Type     document.ScalarType
	Contains string
}

// StepParamsRule checks the with mapping of one step against a table of
// expected parameters.
type StepParamsRule struct {
	Job    string
	Step   int
	Params []ExpectedParam
}

var _ Rule = (*StepParamsRule)(nil)

func (*StepParamsRule) Name() string { return "step-params" }

func (r *StepParamsRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	base := fmt.Sprintf("jobs.%s.steps[%d].with", r.Job, r.Step)
	with, ok := root.Lookup(base)
	if !ok {
		return []Violation{{Rule: r.Name(), Message: fmt.Sprintf("step %d has no with mapping", r.Step+1), Path: base}}
	}

	var vs []Violation
	for _, want := range r.Params {
		path := base + "." + want.Key
		val, ok := with.Get(want.Key)
		if !ok {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("missing required parameter %q", want.Key), Path: path})
			continue
		}
		if want.Value != nil && val.Value != *want.Value {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("parameter %q is %q, expected %q", want.Key, val.Value, *want.Value), Path: path})
		}
		if want.Type != "" && (val.Kind != document.KindScalar || val.Type != want.Type) {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("parameter %q should be a %s, got %s", want.Key, want.Type, scalarTypeOf(val)), Path: path})
		}
		if want.Contains != "" && !strings.Contains(val.Value, want.Contains) {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("parameter %q must contain %q", want.Key, want.Contains), Path: path})
		}
	}
	return vs
}

func scalarTypeOf(n *document.Node) string {
	switch n.Kind {
	case document.KindMapping:
		return "mapping"
	case document.KindSequence:
		return "sequence"
	}
	return string(n.Type)
}

// PinnedVersionsRule checks that every step's uses reference pins a version:
// exactly one @, and the reference after it is not a mutable branch name.
// An action pinned to main can change underneath the workflow at any time.
type PinnedVersionsRule struct {
	Floating []string
}

var _ Rule = (*PinnedVersionsRule)(nil)

func (*PinnedVersionsRule) Name() string { return "pinned-versions" }

func (r *PinnedVersionsRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	jobs, ok := root.Get("jobs")
	if !ok {
		return nil
	}

	var vs []Violation
	for _, jobName := range jobs.Keys {
		job, _ := jobs.Get(jobName)
		steps, ok := job.Get("steps")
		if !ok {
			continue
		}
		for i, step := range steps.Items {
			uses, ok := step.Get("uses")
			if !ok || !uses.IsString() {
				continue
			}
			path := fmt.Sprintf("jobs.%s.steps[%d].uses", jobName, i)
			ref := uses.Value
			if strings.Count(ref, "@") != 1 {
				vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("action reference %q must pin a version with a single @", ref), Path: path})
				continue
			}
			version := ref[strings.Index(ref, "@")+1:]
			for _, floating := range r.Floating {
				if version == floating {
					vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("action reference %q uses floating version %q", ref, version), Path: path})
				}
			}
		}
	}
	return vs
}

// FieldType pairs a document path with the scalar type expected there.
type FieldType struct {
	Path string
	Type document.ScalarType
}

// FieldTypesRule checks that configured paths hold scalars of the expected
// type. This is what catches pr_allow_empty given as the string "true".
type FieldTypesRule struct {
	Fields []FieldType
}

var _ Rule = (*FieldTypesRule)(nil)

func (*FieldTypesRule) Name() string { return "field-types" }

func (r *FieldTypesRule) Check(doc *document.Document) []Violation {
	root := doc.YAML
	if root == nil {
		return nil
	}
	var vs []Violation
	for _, f := range r.Fields {
		val, ok := root.Lookup(f.Path)
		if !ok {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("no value at %s (expected %s)", f.Path, f.Type), Path: f.Path})
			continue
		}
		if val.Kind != document.KindScalar || val.Type != f.Type {
			vs = append(vs, Violation{Rule: r.Name(), Message: fmt.Sprintf("%s should be a %s, got %s", f.Path, f.Type, scalarTypeOf(val)), Path: f.Path})
		}
	}
	return vs
}
