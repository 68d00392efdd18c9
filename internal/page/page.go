// Package page composes server-rendered HTML: templates produce the markup, components then
// mount themselves onto anchors of the parsed document before it is written out.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrMissingMount is returned when a display anchor is absent from the document.
var ErrMissingMount = errors.New("page: missing mount")

// MissingMountError names the selector that matched nothing.
type MissingMountError struct {
	Selector string
}

func (e *MissingMountError) Error() string {
	return fmt.Sprintf("page: missing mount %q", e.Selector)
}

func (e *MissingMountError) Unwrap() error { return ErrMissingMount }

// Document is a parsed page or fragment.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) (*Document, error) { return Parse(bytes.NewReader(b)) }

// Find runs a selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection { return d.doc.Find(selector) }

// Mount returns the nodes matching selector or a *MissingMountError.
func (d *Document) Mount(selector string) (*goquery.Selection, error) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, &MissingMountError{Selector: selector}
	}
	return sel, nil
}

// Render writes the full document.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("page: render: %w", err)
		}
	}
	return nil
}

// RenderBody writes the children of <body>, which is how fragments go back to htmx.
func (d *Document) RenderBody(w io.Writer) error {
	body := d.doc.Find("body")
	for _, n := range body.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return fmt.Errorf("page: render: %w", err)
			}
		}
	}
	return nil
}
