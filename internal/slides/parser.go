// Package slides turns carousel markup into slides of typed content blocks.
package slides

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/abcnews/content-carousel/internal/dom"
)

// DefaultMarkerSelector matches the slide break markers inserted by the CMS.
const DefaultMarkerSelector = `[data-mount][id^="br"]`

var (
	// ErrMissingImage is returned when an image component carries no img element.
	ErrMissingImage = errors.New("image component has no img element")
	// ErrMissingBlockquote is returned when a pullquote has no nested blockquote.
	ErrMissingBlockquote = errors.New("pullquote component has no blockquote element")
)

// Options configures a Parser.
type Options struct {
	MarkerSelector string
}

// Parser converts a root element into slides.
// It has no dependencies beyond a logger and a compiled marker selector.
type Parser struct {
	logger *slog.Logger
	marker cascadia.Sel
}

// NewParser creates a parser. An empty marker selector falls back to
// DefaultMarkerSelector.
func NewParser(logger *slog.Logger, opts Options) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	selector := opts.MarkerSelector
	if selector == "" {
		selector = DefaultMarkerSelector
	}
	marker, err := dom.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("error creating parser: %w", err)
	}
	return &Parser{logger: logger, marker: marker}, nil
}

var defaultParser = func() *Parser {
	p, err := NewParser(nil, Options{})
	if err != nil {
		panic(err)
	}
	return p
}()

// ParseSlides parses root with the default marker selector.
func ParseSlides(root *html.Node) ([]Slide, error) {
	return defaultParser.ParseSlides(root)
}

// ParseSlides partitions the children of root into chunks and classifies each
// element of every chunk. Chunks without any surviving block produce no slide.
// Quote content is detached from root; every other node is left untouched.
func (p *Parser) ParseSlides(root *html.Node) ([]Slide, error) {
	var slides []Slide

	for i, chunk := range p.chunks(root) {
		var slide Slide
		for _, el := range chunk {
			block, err := p.classify(el)
			if err != nil {
				return nil, fmt.Errorf("error parsing slide %d: %w", i+1, err)
			}
			if block != nil {
				slide = append(slide, block)
			}
		}
		if len(slide) > 0 {
			slides = append(slides, slide)
		}
	}

	p.logger.Debug("Parsed slides", "slides", len(slides))

	return slides, nil
}

// chunks groups the element children of root between marker elements. When
// the subtree holds no marker at all, each child forms its own chunk.
func (p *Parser) chunks(root *html.Node) [][]*html.Node {
	children := dom.Children(root)

	if dom.Query(root, p.marker) == nil {
		out := make([][]*html.Node, 0, len(children))
		for _, el := range children {
			out = append(out, []*html.Node{el})
		}
		return out
	}

	var out [][]*html.Node
	var chunk []*html.Node

	commit := func() {
		if len(chunk) > 0 {
			out = append(out, chunk)
		}
		chunk = nil
	}

	for _, el := range children {
		if dom.Matches(el, p.marker) {
			commit()
			continue
		}
		chunk = append(chunk, el)
	}
	commit()

	return out
}
