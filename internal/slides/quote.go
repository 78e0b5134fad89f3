package slides

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/abcnews/content-carousel/internal/dom"
)

// parseQuote detaches the child elements of el into a QuoteBlock. When there
// are at least two paragraphs and the last one consists solely of an em or
// strong element, that element's children become the attribution.
func parseQuote(el *html.Node, kind QuoteKind) QuoteBlock {
	content := dom.TakeAll(dom.Children(el))
	for _, c := range content {
		dom.RemoveAttr(c.Node(), "class")
	}

	q := QuoteBlock{Kind: kind, Content: content}

	if len(content) < 2 {
		return q
	}

	last := content[len(content)-1]
	text := last.Text()
	if text == "" {
		return q
	}

	first := dom.FirstElementChild(last.Node())
	if !isEmphasis(first) {
		return q
	}
	if emText := dom.Text(first); emText == "" || emText != text {
		return q
	}

	q.Content = content[:len(content)-1]
	q.Attribution = dom.TakeAll(dom.ChildNodes(first))

	return q
}

func isEmphasis(n *html.Node) bool {
	return dom.IsElement(n) && (n.DataAtom == atom.Em || n.DataAtom == atom.Strong)
}
