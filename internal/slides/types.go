package slides

import (
	"encoding/json"

	"github.com/abcnews/content-carousel/internal/dom"
	"golang.org/x/net/html"
)

// BlockType tags the variant of a content block.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockHeading BlockType = "heading"
	BlockList    BlockType = "list"
	BlockImage   BlockType = "image"
	BlockAudio   BlockType = "audio"
	BlockQuote   BlockType = "quote"
)

// Block is a classified unit of slide content. The set of implementations is
// closed: TextBlock, ImageBlock, AudioBlock and QuoteBlock.
type Block interface {
	Type() BlockType
	block()
}

// Slide is a non-empty ordered sequence of blocks.
type Slide []Block

// TextBlock wraps a generic content element (paragraphs, headings, lists).
// Content is a private copy of the source element.
type TextBlock struct {
	Kind    BlockType
	Content *html.Node
}

func (b TextBlock) Type() BlockType { return b.Kind }
func (TextBlock) block()            {}

// MarshalJSON encodes the block with its serialized element.
func (b TextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		HTML string    `json:"html"`
	}{b.Kind, dom.Render(b.Content)})
}

// ImageBlock describes a captioned image.
type ImageBlock struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Byline string `json:"byline"`
}

func (ImageBlock) Type() BlockType { return BlockImage }
func (ImageBlock) block()          {}

// MarshalJSON adds the type tag.
func (b ImageBlock) MarshalJSON() ([]byte, error) {
	type alias ImageBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockImage, alias(b)})
}

// AudioBlock references an audio document by content id. ContentID is nil when
// the resource URI carries no trailing id.
type AudioBlock struct {
	ContentID *string `json:"cmid"`
}

func (AudioBlock) Type() BlockType { return BlockAudio }
func (AudioBlock) block()          {}

// MarshalJSON adds the type tag.
func (b AudioBlock) MarshalJSON() ([]byte, error) {
	type alias AudioBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockAudio, alias(b)})
}

// QuoteKind distinguishes inline blockquotes from pullquotes.
type QuoteKind string

const (
	KindBlockquote QuoteKind = "blockquote"
	KindPullquote  QuoteKind = "pullquote"
)

// QuoteBlock owns the detached content paragraphs of a quote and, when the
// last paragraph was a lone emphasis line, its attribution nodes.
type QuoteBlock struct {
	Kind        QuoteKind   `json:"kind"`
	Content     []dom.Owned `json:"content"`
	Attribution []dom.Owned `json:"attribution,omitempty"`
}

func (QuoteBlock) Type() BlockType { return BlockQuote }
func (QuoteBlock) block()          {}

// MarshalJSON adds the type tag.
func (b QuoteBlock) MarshalJSON() ([]byte, error) {
	type alias QuoteBlock
	return json.Marshal(struct {
		Type BlockType `json:"type"`
		alias
	}{BlockQuote, alias(b)})
}
