// Package html adapts parsed HTML documents to the domain.Element capability.
// Context boundaries are elements carrying the data-phocus-context-name attribute.
package html

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/phocus/pkg/domain"
	"golang.org/x/net/html"
)

// Document is a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML fragment or document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// GetElementByID returns the first element whose id attribute equals id.
func (d *Document) GetElementByID(id string) (*Element, bool) {
	n := find(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if n == nil {
		return nil, false
	}
	return &Element{node: n}, true
}

// Body returns the body element, which the parser always synthesizes.
func (d *Document) Body() *Element {
	n := find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

// Element wraps an html.Node.
type Element struct {
	node *html.Node
}

// Tag returns the element tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// ContextMarker implements domain.Element. A context name attribute with an
// empty value is treated as no marker.
func (e *Element) ContextMarker() (domain.Marker, bool) {
	if e == nil || e.node.Type != html.ElementNode {
		return domain.Marker{}, false
	}
	name, ok := attr(e.node, domain.AttrContextName)
	if !ok || name == "" {
		return domain.Marker{}, false
	}
	m := domain.Marker{Context: name}
	if arg, ok := attr(e.node, domain.AttrContextArgument); ok {
		m.Argument = arg
		m.HasArgument = true
	}
	return m, true
}

// Parent implements domain.Element. The document node ends the chain.
func (e *Element) Parent() domain.Element {
	if e == nil || e.node.Parent == nil || e.node.Parent.Type == html.DocumentNode {
		return nil
	}
	return &Element{node: e.node.Parent}
}

func attr(n *html.Node, key string) (string, bool) {
	if n.Type != html.ElementNode {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}
