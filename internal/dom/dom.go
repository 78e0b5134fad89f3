// Package dom wraps golang.org/x/net/html trees with the small element API the
// carousel needs: attribute lookup, element children, text content, selector
// matching and explicit node ownership transfer.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Parse parses a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing html: %w", err)
	}
	return doc, nil
}

// ParseString parses a full HTML document from a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Compile compiles a CSS selector.
func Compile(selector string) (cascadia.Sel, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("error compiling selector %q: %w", selector, err)
	}
	return sel, nil
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when it is absent.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// RemoveAttr drops every occurrence of the named attribute.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// Children returns the element children of n in document order.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildNodes returns every child of n, text nodes included.
func ChildNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// FirstElementChild returns the first element child of n, or nil.
func FirstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Text returns the concatenated text content of n and its descendants.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return goquery.NewDocumentFromNode(n).Text()
}

// Matches reports whether n itself matches sel.
func Matches(n *html.Node, sel cascadia.Sel) bool {
	return IsElement(n) && sel.Match(n)
}

// Query returns the first descendant of n matching sel, or nil.
func Query(n *html.Node, sel cascadia.Sel) *html.Node {
	return cascadia.Query(n, sel)
}

// QueryAll returns every descendant of n matching sel in document order.
func QueryAll(n *html.Node, sel cascadia.Sel) []*html.Node {
	return cascadia.QueryAll(n, sel)
}

// Find runs a goquery selection rooted at n.
func Find(n *html.Node, selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Find(selector)
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// Clone returns a deep copy of n that shares nothing with the source tree.
func Clone(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// Render serializes n as HTML.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
