package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/realbeans/storeprobe/internal/dom"
	"github.com/realbeans/storeprobe/internal/probe"
)

// Errors raised by the HTTP driver
var (
	ErrNoElement      = errors.New("no element matches selector")
	ErrNoForm         = errors.New("element is not inside a form")
	ErrURLNotMatched  = errors.New("address does not match")
	ErrNotInteractive = errors.New("element has no name to fill")
)

const maxBodyBytes = 5 << 20

// HTTPDriver renders pages without a browser. Links are followed and forms
// submitted; scripted behavior such as menus opening is not modelled.
type HTTPDriver struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// NewHTTPDriver creates a driver whose requests time out after timeout.
// A nil transport uses http.DefaultTransport.
func NewHTTPDriver(timeout time.Duration, transport http.RoundTripper) *HTTPDriver {
	return &HTTPDriver{timeout: timeout, transport: transport}
}

// Name identifies the driver in reports
func (d *HTTPDriver) Name() string {
	return "http"
}

// NewPage opens a page with its own cookie jar
func (d *HTTPDriver) NewPage(ctx context.Context) (probe.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &httpPage{
		ctx: ctx,
		client: &http.Client{
			Jar:       jar,
			Timeout:   d.timeout,
			Transport: d.transport,
		},
		fields: map[string]string{},
	}, nil
}

// Close is a no-op; pages own their clients
func (d *HTTPDriver) Close() error {
	return nil
}

type httpPage struct {
	ctx     context.Context
	client  *http.Client
	current *url.URL
	body    string
	fields  map[string]string
}

func (p *httpPage) Goto(rawURL string) error {
	status, err := p.load(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("%w: %s answered %d", ErrNavigation, rawURL, status)
	}
	return nil
}

func (p *httpPage) URL() string {
	if p.current == nil {
		return "about:blank"
	}
	return p.current.String()
}

func (p *httpPage) Content() (string, error) {
	return p.body, nil
}

func (p *httpPage) Fill(selector, text string) error {
	el, err := p.first(selector)
	if err != nil {
		return err
	}
	name, ok := el.Attr("name")
	if !ok || name == "" {
		return fmt.Errorf("%w: %s", ErrNotInteractive, selector)
	}
	p.fields[name] = text
	return nil
}

// Click follows anchors and submits forms. Other elements need scripting to
// react, so clicking them changes nothing.
func (p *httpPage) Click(selector string, _ bool) error {
	el, err := p.first(selector)
	if err != nil {
		return err
	}

	switch el.Tag {
	case "a":
		href, ok := el.Attr("href")
		if !ok {
			return nil
		}
		target, err := p.resolve(href)
		if err != nil {
			return err
		}
		_, err = p.load(http.MethodGet, target, nil)
		return err
	case "button":
		if t, _ := el.Attr("type"); t == "" || strings.EqualFold(t, "submit") {
			return p.submitIfInForm(selector)
		}
	case "input":
		if t, _ := el.Attr("type"); strings.EqualFold(t, "submit") || strings.EqualFold(t, "image") {
			return p.submitIfInForm(selector)
		}
	}
	return nil
}

func (p *httpPage) submitIfInForm(selector string) error {
	err := p.Submit(selector)
	if errors.Is(err, ErrNoForm) {
		return nil
	}
	return err
}

func (p *httpPage) Submit(selector string) error {
	snap, err := dom.ParseString(p.body)
	if err != nil {
		return err
	}
	form, ok := snap.FormFor(selector)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoForm, selector)
	}

	values := form.Values
	for name, v := range p.fields {
		if values.Has(name) {
			values.Set(name, v)
		}
	}

	action := form.Action
	if action == "" {
		action = p.URL()
	}
	target, err := p.resolve(action)
	if err != nil {
		return err
	}

	if form.Method == http.MethodPost {
		_, err = p.load(http.MethodPost, target, values)
		return err
	}

	u, err := url.Parse(target)
	if err != nil {
		return err
	}
	u.RawQuery = values.Encode()
	_, err = p.load(http.MethodGet, u.String(), nil)
	return err
}

// WaitForURL checks the address once; without scripts nothing changes later
func (p *httpPage) WaitForURL(match func(string) bool) error {
	if match(p.URL()) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrURLNotMatched, p.URL())
}

func (p *httpPage) IsVisible(selector string) (bool, error) {
	el, err := p.first(selector)
	if errors.Is(err, ErrNoElement) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, hidden := el.Attr("hidden"); hidden {
		return false, nil
	}
	if t, _ := el.Attr("type"); strings.EqualFold(t, "hidden") {
		return false, nil
	}
	return true, nil
}

func (p *httpPage) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *httpPage) first(selector string) (dom.Element, error) {
	snap, err := dom.ParseString(p.body)
	if err != nil {
		return dom.Element{}, err
	}
	el, ok := snap.First(selector)
	if !ok {
		return dom.Element{}, fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	return el, nil
}

func (p *httpPage) resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", ref, err)
	}
	if p.current == nil {
		return u.String(), nil
	}
	return p.current.ResolveReference(u).String(), nil
}

// load performs a request, following redirects, and makes the response the
// current document. Form fields typed on the previous document are dropped.
func (p *httpPage) load(method, target string, form url.Values) (int, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(p.ctx, method, target, body)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %w", target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", target, err)
	}

	p.current = resp.Request.URL
	p.body = string(data)
	p.fields = map[string]string{}
	return resp.StatusCode, nil
}
