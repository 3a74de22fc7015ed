// Package report renders a finished probe run as text, JSON or Markdown.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/realbeans/storeprobe/internal/models"
)

// Format names an output format
type Format string

// Supported formats
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown}

// ErrUnknownFormat is returned by New for an unsupported format
var ErrUnknownFormat = errors.New("unknown report format")

// Writer outputs a run summary to its destination
type Writer interface {
	// Write returns the number of bytes written.
	Write(run *models.Run) (int, error)
}

// ParseFormat maps a flag value onto a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// New returns the writer for format
func New(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// detail is the human-readable explanation printed next to an outcome
func detail(r *models.ScenarioResult) string {
	switch {
	case r.Error != "":
		return r.Error
	case r.Note != "":
		return r.Note
	default:
		return ""
	}
}
