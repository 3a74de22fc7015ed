// Package browser provides the harnesses the probe drives: a real browser via
// Playwright and a script-free HTTP client for quick offline checks.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/realbeans/storeprobe/internal/config"
	"github.com/realbeans/storeprobe/internal/probe"
)

// ErrNavigation is returned when a page load answers with an error status
var ErrNavigation = errors.New("navigation failed")

// PlaywrightDriver opens one isolated browser context per page
type PlaywrightDriver struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	timeoutMS float64
	owned     bool
}

// NewPlaywrightDriver starts Playwright and launches the configured browser
func NewPlaywrightDriver(cfg *config.ProbeConfig) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	return &PlaywrightDriver{
		pw:        pw,
		browser:   b,
		timeoutMS: cfg.TimeoutMillis(),
		owned:     true,
	}, nil
}

// NewPlaywrightDriverWithBrowser wraps an already launched browser. Close
// leaves the browser running.
func NewPlaywrightDriverWithBrowser(b playwright.Browser, timeoutMS float64) *PlaywrightDriver {
	return &PlaywrightDriver{browser: b, timeoutMS: timeoutMS}
}

// Name identifies the driver in reports
func (d *PlaywrightDriver) Name() string {
	return "playwright"
}

// NewPage opens a fresh context so cookies never leak between scenarios
func (d *PlaywrightDriver) NewPage(ctx context.Context) (probe.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := d.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(d.timeoutMS)
	bctx.SetDefaultNavigationTimeout(d.timeoutMS)

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &playwrightPage{context: bctx, page: page}, nil
}

// Close shuts the browser down when this driver launched it
func (d *PlaywrightDriver) Close() error {
	if !d.owned {
		return nil
	}
	var errs []error
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// playwrightPage adapts a Playwright page to probe.Page
type playwrightPage struct {
	context playwright.BrowserContext
	page    playwright.Page
}

func (p *playwrightPage) Goto(url string) error {
	resp, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return err
	}
	if resp != nil && resp.Status() >= 400 {
		return fmt.Errorf("%w: %s answered %d", ErrNavigation, url, resp.Status())
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Fill(selector, text string) error {
	return p.page.Locator(selector).First().Fill(text)
}

func (p *playwrightPage) Click(selector string, force bool) error {
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Force: playwright.Bool(force),
	})
}

func (p *playwrightPage) Submit(selector string) error {
	_, err := p.page.Locator(selector).First().Evaluate(
		`el => (el.tagName === "FORM" ? el : (el.form || el.closest("form"))).requestSubmit()`, nil)
	return err
}

func (p *playwrightPage) WaitForURL(match func(string) bool) error {
	if match(p.page.URL()) {
		return nil
	}
	return p.page.WaitForURL(match)
}

func (p *playwrightPage) IsVisible(selector string) (bool, error) {
	return p.page.Locator(selector).First().IsVisible()
}

// Close tears down the whole context, which closes the page with it
func (p *playwrightPage) Close() error {
	return p.context.Close()
}
