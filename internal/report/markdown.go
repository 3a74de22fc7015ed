package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/realbeans/storeprobe/internal/models"
)

// MarkdownWriter outputs runs for pull requests and chat
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

var outcomeLabels = map[models.Outcome]string{
	models.OutcomePassed:  "✅ Passed",
	models.OutcomeFailed:  "❌ Failed",
	models.OutcomeSkipped: "⏭️ Skipped",
	models.OutcomePending: "⏳ Pending",
}

// Write outputs the run as a Markdown document
func (w *MarkdownWriter) Write(run *models.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Storefront Probe Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + run.ID + "`"},
			{"Storefront", run.BaseURL},
			{"Driver", run.Driver},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	w.writeSummary(md, run)
	w.writeScenarios(md, run)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *models.Run) {
	s := run.Summary()

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{outcomeLabels[models.OutcomePassed], strconv.Itoa(s.Passed)},
			{outcomeLabels[models.OutcomeFailed], strconv.Itoa(s.Failed)},
			{outcomeLabels[models.OutcomeSkipped], strconv.Itoa(s.Skipped)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case s.Failed > 0:
		md.Cautionf("%d scenario(s) failed against %s.", s.Failed, run.BaseURL)
	case s.Skipped > 0:
		md.Note("Some storefront features were not present and their scenarios were skipped.")
	default:
		md.Tip("Every scenario passed.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeScenarios(md *markdown.Markdown, run *models.Run) {
	md.H2("Scenarios")
	md.PlainText("")

	if len(run.Results) == 0 {
		md.PlainText("No scenarios were run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(run.Results))
	for _, r := range run.Results {
		rows = append(rows, []string{
			r.Name,
			outcomeLabels[r.Outcome()],
			r.Duration().Round(time.Millisecond).String(),
			escapeCell(detail(r)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Scenario", "Outcome", "Duration", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// escapeCell keeps a value on one table row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
