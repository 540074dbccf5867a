package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/prflight/prflight/internal/validate"
)

// WriteText renders reports as a human-readable summary: one table row per
// rule, followed by the violations of any failed rules.
func WriteText(w io.Writer, reports []*validate.Report) {
	for _, r := range reports {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s: %s (%d rules, %d violations)\n", r.Document, status, r.RulesEvaluated, len(r.Violations))

		width := 0
		for _, res := range r.Results {
			if sw := runewidth.StringWidth(res.Rule); sw > width {
				width = sw
			}
		}
		for _, res := range r.Results {
			mark := "✓"
			if !res.Passed {
				mark = "✗"
			}
			fmt.Fprintf(w, "  %s %s\n", mark, pad(res.Rule, width))
		}

		if len(r.Violations) > 0 {
			fmt.Fprintln(w)
			for _, v := range r.Violations {
				if v.Path != "" {
					fmt.Fprintf(w, "  [%s] %s (%s)\n", v.Rule, v.Message, v.Path)
				} else {
					fmt.Fprintf(w, "  [%s] %s\n", v.Rule, v.Message)
				}
			}
		}
		fmt.Fprintln(w)
	}
}

// pad right-pads s to the given display width. Display width, not len():
// rule names stay aligned even if one contains multi-width runes.
func pad(s string, width int) string {
	if sw := runewidth.StringWidth(s); sw < width {
		return s + strings.Repeat(" ", width-sw)
	}
	return s
}
