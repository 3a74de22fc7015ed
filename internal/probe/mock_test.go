package probe

import (
	"context"
	"strings"
)

// MockPage is a scripted Page. Unset funcs fall back to serving HTML at URLValue.
type MockPage struct {
	URLValue string
	HTML     string

	GotoFunc       func(string) error
	FillFunc       func(string, string) error
	ClickFunc      func(string, bool) error
	SubmitFunc     func(string) error
	WaitForURLFunc func(func(string) bool) error
	IsVisibleFunc  func(string) (bool, error)

	Filled  map[string]string
	Clicked []string
	Closed  bool
}

func (m *MockPage) Goto(url string) error {
	if m.GotoFunc != nil {
		return m.GotoFunc(url)
	}
	m.URLValue = url
	return nil
}

func (m *MockPage) URL() string {
	return m.URLValue
}

func (m *MockPage) Content() (string, error) {
	return m.HTML, nil
}

func (m *MockPage) Fill(selector, text string) error {
	if m.Filled == nil {
		m.Filled = map[string]string{}
	}
	m.Filled[selector] = text
	if m.FillFunc != nil {
		return m.FillFunc(selector, text)
	}
	return nil
}

func (m *MockPage) Click(selector string, force bool) error {
	m.Clicked = append(m.Clicked, selector)
	if m.ClickFunc != nil {
		return m.ClickFunc(selector, force)
	}
	return nil
}

func (m *MockPage) Submit(selector string) error {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(selector)
	}
	return nil
}

func (m *MockPage) WaitForURL(match func(string) bool) error {
	if m.WaitForURLFunc != nil {
		return m.WaitForURLFunc(match)
	}
	if match(m.URLValue) {
		return nil
	}
	return ErrURLMismatch
}

func (m *MockPage) IsVisible(selector string) (bool, error) {
	if m.IsVisibleFunc != nil {
		return m.IsVisibleFunc(selector)
	}
	return strings.Contains(m.HTML, "<"+selector), nil
}

func (m *MockPage) Close() error {
	m.Closed = true
	return nil
}

// MockDriver hands out pages from NewPageFunc
type MockDriver struct {
	NewPageFunc func(context.Context) (Page, error)
	Opened      int
}

func (d *MockDriver) Name() string {
	return "mock"
}

func (d *MockDriver) NewPage(ctx context.Context) (Page, error) {
	d.Opened++
	if d.NewPageFunc != nil {
		return d.NewPageFunc(ctx)
	}
	return &MockPage{}, nil
}

func (d *MockDriver) Close() error {
	return nil
}

const challengeHTML = `<html><body>
<form action="/password" method="post">
  <input type="password" name="password">
  <button type="submit">Enter</button>
</form>
</body></html>`

const challengeNoButtonHTML = `<html><body>
<form action="/password" method="post"><input type="password" name="password"></form>
</body></html>`

const challengeWithNewsletterHTML = `<html><body>
<form action="/contact" method="post">
  <input type="email" name="contact[email]">
  <button type="submit">Subscribe</button>
</form>
<form action="/password" method="post">
  <input type="password" name="password">
  <button type="submit">Enter</button>
</form>
</body></html>`

const storeHTML = `<html><body><header><a href="/cart">Cart</a></header><main>Welcome</main></body></html>`
