// Package dom answers selector queries over a rendered page without a browser.
//
// Detection logic in the probe runs against a Snapshot so that it can be
// exercised with plain HTML fixtures. Queries never fail: an invalid selector
// simply matches nothing, which the probe treats the same as an absent feature.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Snapshot is an immutable parsed copy of a page
type Snapshot struct {
	doc *goquery.Document
}

// Element is a detached view of one matched node
type Element struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Parse reads an HTML document into a Snapshot
func Parse(r io.Reader) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Snapshot{doc: doc}, nil
}

// ParseString is Parse for an in-memory document
func ParseString(content string) (*Snapshot, error) {
	return Parse(strings.NewReader(content))
}

// Count returns the number of elements matching selector
func (s *Snapshot) Count(selector string) int {
	return s.doc.Find(selector).Length()
}

// Has reports whether at least one element matches selector
func (s *Snapshot) Has(selector string) bool {
	return s.Count(selector) > 0
}

// FirstMatching returns the first selector, in argument order, that matches
// anything in the document.
func (s *Snapshot) FirstMatching(selectors ...string) (string, bool) {
	for _, sel := range selectors {
		if s.Has(sel) {
			return sel, true
		}
	}
	return "", false
}

// First returns the first element in document order matching selector
func (s *Snapshot) First(selector string) (Element, bool) {
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return Element{}, false
	}
	return newElement(sel), true
}

func newElement(sel *goquery.Selection) Element {
	node := sel.Get(0)
	attrs := make(map[string]string, len(node.Attr))
	for _, a := range node.Attr {
		attrs[a.Key] = a.Val
	}
	return Element{
		Tag:   tagName(node),
		Attrs: attrs,
		Text:  strings.TrimSpace(sel.Text()),
	}
}

func tagName(node *html.Node) string {
	if node.Type != html.ElementNode {
		return ""
	}
	return node.Data
}

// Attr returns the named attribute, if present
func (e Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}
