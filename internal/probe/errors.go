package probe

import (
	"errors"
	"fmt"
	"strings"
)

// Assertion errors
var (
	ErrAssertion       = errors.New("assertion failed")
	ErrURLMismatch     = fmt.Errorf("%w: unexpected address", ErrAssertion)
	ErrElementMissing  = fmt.Errorf("%w: element not found", ErrAssertion)
	ErrElementHidden   = fmt.Errorf("%w: element not visible", ErrAssertion)
	ErrGateNotCleared  = fmt.Errorf("%w: password gate was not cleared", ErrAssertion)
	ErrUnknownScenario = errors.New("unknown scenario")
)

// urlContains returns a predicate matching addresses containing fragment
func urlContains(fragment string) func(string) bool {
	return func(u string) bool {
		return strings.Contains(u, fragment)
	}
}

// urlExcludes returns a predicate matching addresses not containing fragment
func urlExcludes(fragment string) func(string) bool {
	return func(u string) bool {
		return !strings.Contains(u, fragment)
	}
}

// expectURLContains waits for the address to contain fragment
func expectURLContains(page Page, fragment string) error {
	if err := page.WaitForURL(urlContains(fragment)); err != nil {
		return fmt.Errorf("%w: expected %q to include %q: %v", ErrURLMismatch, page.URL(), fragment, err)
	}
	return nil
}

// expectExists checks the current document for selector
func expectExists(page Page, selector string) error {
	snap, err := Snapshot(page)
	if err != nil {
		return err
	}
	if !snap.Has(selector) {
		return fmt.Errorf("%w: %s on %s", ErrElementMissing, selector, page.URL())
	}
	return nil
}

// expectVisible checks that the first match of selector is visible
func expectVisible(page Page, selector string) error {
	visible, err := page.IsVisible(selector)
	if err != nil {
		return fmt.Errorf("failed to check visibility of %s: %w", selector, err)
	}
	if !visible {
		return fmt.Errorf("%w: %s", ErrElementHidden, selector)
	}
	return nil
}
