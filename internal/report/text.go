package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/realbeans/storeprobe/internal/models"
)

// TextWriter prints a terminal summary, one line per scenario
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

var outcomeMarks = map[models.Outcome]string{
	models.OutcomePassed:  "PASS",
	models.OutcomeFailed:  "FAIL",
	models.OutcomeSkipped: "SKIP",
	models.OutcomePending: "....",
}

// Write outputs the run summary
func (w *TextWriter) Write(run *models.Run) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Storefront probe %s\n", run.ID)
	fmt.Fprintf(&sb, "Target: %s (driver: %s)\n\n", run.BaseURL, run.Driver)

	for _, r := range run.Results {
		line := fmt.Sprintf("  %s  %-12s %8s", outcomeMarks[r.Outcome()], r.Name, r.Duration().Round(time.Millisecond))
		if d := detail(r); d != "" {
			line += "  " + d
		}
		sb.WriteString(line + "\n")
	}

	s := run.Summary()
	fmt.Fprintf(&sb, "\n%d scenarios: %d passed, %d failed, %d skipped in %s\n",
		s.Total, s.Passed, s.Failed, s.Skipped, run.Duration().Round(time.Millisecond))

	return io.WriteString(w.output, sb.String())
}
