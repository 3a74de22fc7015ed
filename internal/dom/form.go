package dom

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Form describes an HTML form and the values it would submit
type Form struct {
	Action string
	Method string
	Values url.Values
}

// FormFor returns the form enclosing the first element matching selector.
// A selector that matches a form element itself returns that form.
func (s *Snapshot) FormFor(selector string) (Form, bool) {
	match := s.doc.Find(selector).First()
	if match.Length() == 0 {
		return Form{}, false
	}

	form := match
	if goquery.NodeName(match) != "form" {
		form = match.Closest("form")
	}
	if form.Length() == 0 {
		return Form{}, false
	}

	method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "GET")))
	if method == "" {
		method = "GET"
	}

	values := url.Values{}
	form.Find("input[name], textarea[name], select[name]").Each(func(_ int, field *goquery.Selection) {
		name, _ := field.Attr("name")
		switch strings.ToLower(field.AttrOr("type", "")) {
		case "submit", "button", "image", "reset", "file":
			return
		case "checkbox", "radio":
			if _, checked := field.Attr("checked"); !checked {
				return
			}
		}
		if goquery.NodeName(field) == "textarea" {
			values.Add(name, field.Text())
			return
		}
		if goquery.NodeName(field) == "select" {
			values.Add(name, field.Find("option[selected]").First().AttrOr("value", ""))
			return
		}
		values.Add(name, field.AttrOr("value", ""))
	})

	return Form{
		Action: form.AttrOr("action", ""),
		Method: method,
		Values: values,
	}, true
}
