// Package report renders validation reports as text, JSON, and JUnit XML.
package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prflight/prflight/internal/validate"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one validated document.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one rule.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure carries the violations of a failed rule.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// ConvertToJUnit converts validation reports to JUnit XML format, one suite
// per document and one testcase per rule.
func ConvertToJUnit(reports []*validate.Report, now time.Time) *JUnitTestSuites {
	out := &JUnitTestSuites{}
	for _, r := range reports {
		suite := JUnitTestSuite{
			Name:      r.Document,
			Tests:     r.RulesEvaluated,
			Timestamp: now.Format(time.RFC3339),
		}
		for _, res := range r.Results {
			tc := JUnitTestCase{
				Name:      res.Rule,
				Classname: r.Document,
			}
			if !res.Passed {
				suite.Failures++
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("%s: %d violation(s)", res.Rule, len(res.Violations)),
					Type:    "RuleViolation",
					Body:    formatViolations(res),
				}
			}
			suite.TestCases = append(suite.TestCases, tc)
		}
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func formatViolations(res validate.RuleResult) string {
	var b strings.Builder
	for _, v := range res.Violations {
		if v.Path != "" {
			fmt.Fprintf(&b, "[FAIL] %s — %s (%s)\n", v.Rule, v.Message, v.Path)
		} else {
			fmt.Fprintf(&b, "[FAIL] %s — %s\n", v.Rule, v.Message)
		}
	}
	return b.String()
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(suites *JUnitTestSuites, path string) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	content := xml.Header + string(data) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
