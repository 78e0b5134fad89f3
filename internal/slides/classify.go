package slides

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/abcnews/content-carousel/internal/dom"
)

const (
	componentAttr = "data-component"
	uriAttr       = "data-uri"

	imageURIPrefix = "coremedia://image"
	audioURIPrefix = "coremedia://audio"
)

// classifier turns an element into a block. A nil block means the element is
// discarded.
type classifier func(p *Parser, el *html.Node) (Block, error)

// components maps data-component values to their classifier. Values missing
// from the table resolve to unsupported.
var components = map[string]classifier{
	"Heading":    textOf(BlockHeading),
	"List":       textOf(BlockList),
	"Blockquote": blockquote,
	"Pullquote":  pullquote,
	"Figure":     figure,
	"Image":      image,
}

func (p *Parser) classify(el *html.Node) (Block, error) {
	name, ok := dom.Attr(el, componentAttr)
	if !ok {
		return plain(p, el)
	}
	c, ok := components[name]
	if !ok {
		c = unsupported
	}
	return c(p, el)
}

// plain keeps untyped elements that carry visible text.
func plain(p *Parser, el *html.Node) (Block, error) {
	if strings.TrimSpace(dom.Text(el)) == "" {
		return nil, nil
	}
	return TextBlock{Kind: BlockText, Content: dom.Clone(el)}, nil
}

func textOf(kind BlockType) classifier {
	return func(p *Parser, el *html.Node) (Block, error) {
		return TextBlock{Kind: kind, Content: dom.Clone(el)}, nil
	}
}

func blockquote(p *Parser, el *html.Node) (Block, error) {
	return parseQuote(el, KindBlockquote), nil
}

func pullquote(p *Parser, el *html.Node) (Block, error) {
	bq := dom.Find(el, "blockquote")
	if bq.Length() == 0 {
		return nil, ErrMissingBlockquote
	}
	return parseQuote(bq.Nodes[0], KindPullquote), nil
}

func figure(p *Parser, el *html.Node) (Block, error) {
	uri := dom.AttrOr(el, uriAttr, "")
	switch {
	case strings.HasPrefix(uri, imageURIPrefix):
		return parseImage(el)
	case strings.HasPrefix(uri, audioURIPrefix):
		return parseAudio(el), nil
	default:
		p.logger.Debug("Unsupported figure", "uri", uri)
		return nil, nil
	}
}

func image(p *Parser, el *html.Node) (Block, error) {
	return parseImage(el)
}

func unsupported(p *Parser, el *html.Node) (Block, error) {
	p.logger.Debug("Unsupported content",
		"component", dom.AttrOr(el, componentAttr, ""),
		"tag", el.Data)
	return nil, nil
}
