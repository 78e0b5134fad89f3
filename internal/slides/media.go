package slides

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/abcnews/content-carousel/internal/dom"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// parseImage reads an image block from an img element or from the first img
// inside a figure.
func parseImage(el *html.Node) (Block, error) {
	img := el
	if el.DataAtom != atom.Img {
		found := dom.Find(el, "img")
		if found.Length() == 0 {
			return nil, fmt.Errorf("%w (component %q)", ErrMissingImage, dom.AttrOr(el, componentAttr, el.Data))
		}
		img = found.Nodes[0]
	}

	caption := findText(el, "figcaption")
	cite := findText(el, "figcaption cite")
	byline := findText(el, "figcaption cite :first-child")

	src := dom.AttrOr(img, "data-src", "")
	if src == "" {
		src = dom.AttrOr(img, "src", "")
	}

	return ImageBlock{
		Src:    src,
		Alt:    dom.AttrOr(img, "alt", ""),
		Title:  stripCitation(caption, cite),
		Byline: byline,
	}, nil
}

// stripCitation returns the part of caption that precedes the citation.
func stripCitation(caption, cite string) string {
	if cite == "" {
		return caption
	}
	i := strings.Index(caption, cite)
	if i < 0 {
		return caption
	}
	return strings.TrimSpace(caption[:i])
}

func findText(el *html.Node, selector string) string {
	return strings.TrimSpace(dom.Find(el, selector).First().Text())
}

// parseAudio reads the content id from the trailing digits of the resource URI.
func parseAudio(el *html.Node) Block {
	var id *string
	if uri, ok := dom.Attr(el, uriAttr); ok {
		if m := trailingDigits.FindString(uri); m != "" {
			id = &m
		}
	}
	return AudioBlock{ContentID: id}
}
