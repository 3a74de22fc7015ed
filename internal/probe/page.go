package probe

import (
	"context"
	"fmt"

	"github.com/realbeans/storeprobe/internal/dom"
)

// Page is the browser surface a scenario drives. Every blocking call is bounded
// by the driver's own timeout.
type Page interface {
	// Goto navigates to an absolute URL
	Goto(url string) error
	// URL returns the current address
	URL() string
	// Content returns the rendered HTML of the current document
	Content() (string, error)
	// Fill types text into the first element matching selector
	Fill(selector, text string) error
	// Click clicks the first element matching selector. Force skips
	// actionability checks such as visibility and overlap.
	Click(selector string, force bool) error
	// Submit submits the form enclosing the first element matching selector
	Submit(selector string) error
	// WaitForURL blocks until match accepts the current address
	WaitForURL(match func(string) bool) error
	// IsVisible reports whether the first element matching selector is visible
	IsVisible(selector string) (bool, error)
	// Close releases the page and any isolated browser state behind it
	Close() error
}

// Driver opens isolated pages, one per scenario
type Driver interface {
	Name() string
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Snapshot parses the current page content for detection
func Snapshot(page Page) (*dom.Snapshot, error) {
	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return dom.ParseString(content)
}
