package probe

import (
	"fmt"
	"log/slog"

	"github.com/realbeans/storeprobe/internal/dom"
)

// GateState is the password gate state of a page
type GateState int

// Gate states
const (
	GateCleared GateState = iota
	GateChallenged
)

func (s GateState) String() string {
	if s == GateChallenged {
		return "challenged"
	}
	return "cleared"
}

// Selectors used by the gate bypass
const (
	PasswordInputSelector = `input[type="password"]`
	SubmitButtonSelector  = `form:has(input[type="password"]) button[type="submit"]`
)

// DetectGate reports whether the snapshot shows a password challenge
func DetectGate(snap *dom.Snapshot) GateState {
	if snap.Has(PasswordInputSelector) {
		return GateChallenged
	}
	return GateCleared
}

// Gate satisfies the storefront password challenge
type Gate struct {
	Secret        string
	ChallengePath string
	Logger        *slog.Logger
}

// Bypass enters the secret when the current page is challenged. It is a no-op on
// a page without a password input, so calling it repeatedly is safe.
func (g *Gate) Bypass(page Page) (GateState, error) {
	snap, err := Snapshot(page)
	if err != nil {
		return GateCleared, err
	}

	if DetectGate(snap) == GateCleared {
		return GateCleared, nil
	}

	g.logger().Debug("password gate detected", "url", page.URL())

	if err := page.Fill(PasswordInputSelector, g.Secret); err != nil {
		return GateChallenged, fmt.Errorf("failed to enter password: %w", err)
	}

	// Challenge pages may carry other forms, such as a newsletter signup,
	// so only the button of the password form is pressed.
	if snap.Has(SubmitButtonSelector) {
		err = page.Click(SubmitButtonSelector, false)
	} else {
		err = page.Submit(PasswordInputSelector)
	}
	if err != nil {
		return GateChallenged, fmt.Errorf("failed to submit password: %w", err)
	}

	if err := page.WaitForURL(urlExcludes(g.ChallengePath)); err != nil {
		return GateChallenged, fmt.Errorf("%w: still at %s: %v", ErrGateNotCleared, page.URL(), err)
	}

	g.logger().Debug("password gate cleared", "url", page.URL())
	return GateCleared, nil
}

func (g *Gate) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
