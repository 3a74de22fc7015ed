package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/realbeans/storeprobe/internal/models"
)

// JSONWriter outputs runs for tool integration
type JSONWriter struct {
	baseWriter
	indent string
}

// JSONWriterOption configures a JSONWriter
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indentation
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = "  "
	}
}

// NewJSONWriter creates a JSONWriter
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONRun is the serialized form of a run
type JSONRun struct {
	ID         string         `json:"id"`
	BaseURL    string         `json:"base_url"`
	Driver     string         `json:"driver"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DurationMS int64          `json:"duration_ms"`
	ExitCode   int            `json:"exit_code"`
	Summary    JSONSummary    `json:"summary"`
	Scenarios  []JSONScenario `json:"scenarios"`
}

// JSONSummary counts outcomes
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONScenario is the serialized form of one scenario result
type JSONScenario struct {
	Name       string `json:"name"`
	Outcome    string `json:"outcome"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	Error      string `json:"error,omitempty"`
	URL        string `json:"url,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// NewJSONRun converts a run into its serialized form
func NewJSONRun(run *models.Run) JSONRun {
	s := run.Summary()
	out := JSONRun{
		ID:         run.ID,
		BaseURL:    run.BaseURL,
		Driver:     run.Driver,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.Duration().Milliseconds(),
		ExitCode:   run.ExitCode(),
		Summary: JSONSummary{
			Total:   s.Total,
			Passed:  s.Passed,
			Failed:  s.Failed,
			Skipped: s.Skipped,
		},
		Scenarios: make([]JSONScenario, 0, len(run.Results)),
	}
	for _, r := range run.Results {
		out.Scenarios = append(out.Scenarios, JSONScenario{
			Name:       r.Name,
			Outcome:    string(r.Outcome()),
			Status:     string(r.Status),
			Note:       r.Note,
			Error:      r.Error,
			URL:        r.URL,
			DurationMS: r.Duration().Milliseconds(),
		})
	}
	return out
}

// Write outputs the run as a single JSON document
func (w *JSONWriter) Write(run *models.Run) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent != "" {
		data, err = json.MarshalIndent(NewJSONRun(run), "", w.indent)
	} else {
		data, err = json.Marshal(NewJSONRun(run))
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}
