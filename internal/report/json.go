package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/prflight/prflight/internal/validate"
)

// jsonReport is the top-level JSON output shape.
type jsonReport struct {
	Timestamp string             `json:"timestamp"`
	Passed    bool               `json:"passed"`
	Documents []*validate.Report `json:"documents"`
}

// WriteJSON renders reports as indented JSON for structured consumers.
func WriteJSON(w io.Writer, reports []*validate.Report, now time.Time) error {
	out := jsonReport{
		Timestamp: now.UTC().Format(time.RFC3339),
		Passed:    true,
		Documents: reports,
	}
	for _, r := range reports {
		if !r.Passed {
			out.Passed = false
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
