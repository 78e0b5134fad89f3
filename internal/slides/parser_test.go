package slides

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/abcnews/content-carousel/internal/dom"
)

const marker = `<a data-mount id="br1"></a>`

func newTestParser(t *testing.T) (*Parser, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p, err := NewParser(logger, Options{})
	require.NoError(t, err)
	return p, &buf
}

// rootOf parses markup wrapped in a root div and returns that div.
func rootOf(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := dom.ParseString(`<html><body><div id="root">` + markup + `</div></body></html>`)
	require.NoError(t, err)
	sel, err := dom.Compile("#root")
	require.NoError(t, err)
	root := dom.Query(doc, sel)
	require.NotNil(t, root)
	return root
}

func texts(chunks [][]*html.Node) [][]string {
	out := make([][]string, 0, len(chunks))
	for _, c := range chunks {
		var row []string
		for _, el := range c {
			row = append(row, dom.Text(el))
		}
		out = append(out, row)
	}
	return out
}

func TestChunks(t *testing.T) {
	p, _ := newTestParser(t)

	tests := []struct {
		name   string
		markup string
		want   [][]string
	}{
		{
			name:   "no markers, one chunk per child",
			markup: `<p>A</p><p>B</p><p></p>`,
			want:   [][]string{{"A"}, {"B"}, {""}},
		},
		{
			name:   "markers split children",
			markup: `<p>A</p>` + marker + `<p>B</p><p>C</p>` + marker + `<p>D</p>`,
			want:   [][]string{{"A"}, {"B", "C"}, {"D"}},
		},
		{
			name:   "leading, trailing and repeated markers leave no empty chunks",
			markup: marker + `<p>A</p>` + marker + marker + `<p>B</p>` + marker,
			want:   [][]string{{"A"}, {"B"}},
		},
		{
			name:   "nested marker switches to accumulation mode",
			markup: `<p>A</p><div><p>B</p>` + marker + `</div><p>C</p>`,
			want:   [][]string{{"A", "B", "C"}},
		},
		{
			name:   "marker id must follow the house convention",
			markup: `<p>A</p><a data-mount id="other"></a><p>B</p>`,
			want:   [][]string{{"A"}, {""}, {"B"}},
		},
		{
			name:   "empty root",
			markup: ``,
			want:   [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(p.chunks(rootOf(t, tt.markup)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunks_NoMarkerYieldsSingletons(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<p>1</p><h2>2</h2><ul><li>3</li></ul><div></div><p>5</p>`)

	chunks := p.chunks(root)

	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Len(t, c, 1)
	}
}

func TestParseSlides_DropsEmptySlides(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<p>A</p>`+marker+`<p>   </p><div data-component="Interactive">x</div>`+marker+`<p>B</p>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)

	require.Len(t, slides, 2)
	assert.Equal(t, "A", dom.Text(slides[0][0].(TextBlock).Content))
	assert.Equal(t, "B", dom.Text(slides[1][0].(TextBlock).Content))
}

func TestParseSlides_Classification(t *testing.T) {
	p, logs := newTestParser(t)
	root := rootOf(t, ``+
		`<p>Body copy</p>`+
		`<h2 data-component="Heading">Heading</h2>`+
		`<ul data-component="List"><li>one</li></ul>`+
		`<blockquote data-component="Blockquote"><p>Quoted</p></blockquote>`+
		`<aside data-component="Pullquote"><blockquote><p>Pulled</p></blockquote></aside>`+
		`<figure data-component="Figure" data-uri="coremedia://image/123"><img src="a.jpg" alt="A"></figure>`+
		`<div data-component="Figure" data-uri="coremedia://audio/456"></div>`+
		`<div data-component="Figure" data-uri="coremedia://video/789"></div>`+
		`<img data-component="Image" src="b.jpg" alt="B">`+
		`<div data-component="Timeline">ignored</div>`+
		`<p></p>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)

	var types []BlockType
	for _, s := range slides {
		require.Len(t, s, 1)
		types = append(types, s[0].Type())
	}
	assert.Equal(t, []BlockType{
		BlockText, BlockHeading, BlockList, BlockQuote, BlockQuote, BlockImage, BlockAudio, BlockImage,
	}, types)

	assert.Equal(t, KindBlockquote, slides[3][0].(QuoteBlock).Kind)
	assert.Equal(t, KindPullquote, slides[4][0].(QuoteBlock).Kind)
	assert.Equal(t, "b.jpg", slides[7][0].(ImageBlock).Src)
	assert.Contains(t, logs.String(), "Unsupported content")
	assert.Contains(t, logs.String(), "component=Timeline")
}

func TestParseSlides_TextBlocksDoNotAliasSource(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<p class="lede">Hello</p>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)

	block := slides[0][0].(TextBlock)
	assert.Nil(t, block.Content.Parent)
	assert.Len(t, dom.Children(root), 1, "text elements stay in the source tree")
	assert.Equal(t, `<p class="lede">Hello</p>`, dom.Render(block.Content))
}

func TestParseSlides_QuoteAttribution(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<blockquote data-component="Blockquote"><p class="x">Text</p><p><strong>Name</strong></p></blockquote>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)
	q := slides[0][0].(QuoteBlock)

	require.Len(t, q.Content, 1)
	assert.Equal(t, "<p>Text</p>", q.Content[0].HTML())
	require.Len(t, q.Attribution, 1)
	assert.Equal(t, html.TextNode, q.Attribution[0].Node().Type)
	assert.Equal(t, "Name", q.Attribution[0].Text())

	// content has been moved out of the source blockquote
	bq := dom.Children(root)[0]
	assert.Nil(t, bq.FirstChild)
}

func TestParseQuote(t *testing.T) {
	tests := []struct {
		name            string
		markup          string
		wantContent     []string
		wantAttribution []string
	}{
		{
			name:        "single emphasised paragraph is content, not attribution",
			markup:      `<p><strong>Name</strong></p>`,
			wantContent: []string{"<p><strong>Name</strong></p>"},
		},
		{
			name:            "em attribution is unwrapped",
			markup:          `<p>One</p><p>Two</p><p><em>By <a href="#">Someone</a></em></p>`,
			wantContent:     []string{"<p>One</p>", "<p>Two</p>"},
			wantAttribution: []string{"By ", `<a href="#">Someone</a>`},
		},
		{
			name:        "emphasis with trailing text is not an attribution",
			markup:      `<p>Text</p><p><strong>Name</strong>, later</p>`,
			wantContent: []string{"<p>Text</p>", "<p><strong>Name</strong>, later</p>"},
		},
		{
			name:        "non-emphasis first child is not an attribution",
			markup:      `<p>Text</p><p><span>Name</span></p>`,
			wantContent: []string{"<p>Text</p>", "<p><span>Name</span></p>"},
		},
		{
			name:        "empty last paragraph is kept",
			markup:      `<p>Text</p><p><em></em></p>`,
			wantContent: []string{"<p>Text</p>", "<p><em></em></p>"},
		},
		{
			name:        "no children",
			markup:      ``,
			wantContent: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := rootOf(t, `<blockquote>`+tt.markup+`</blockquote>`)
			q := parseQuote(dom.Children(root)[0], KindBlockquote)

			content := []string{}
			for _, c := range q.Content {
				content = append(content, c.HTML())
			}
			assert.Equal(t, tt.wantContent, content)

			var attribution []string
			for _, a := range q.Attribution {
				attribution = append(attribution, a.HTML())
			}
			assert.Equal(t, tt.wantAttribution, attribution)
		})
	}
}

func TestParseSlides_Image(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<figure data-component="Figure" data-uri="coremedia://image/123">`+
		`<img src="small.jpg" data-src="large.jpg" alt="Harbour at dawn">`+
		`<figcaption>The harbour at dawn <cite><span>Jane Doe</span>: AAP</cite></figcaption>`+
		`</figure>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)

	assert.Equal(t, ImageBlock{
		Src:    "large.jpg",
		Alt:    "Harbour at dawn",
		Title:  "The harbour at dawn",
		Byline: "Jane Doe",
	}, slides[0][0])
}

func TestStripCitation(t *testing.T) {
	assert.Equal(t, "Caption", stripCitation("Caption", ""))
	assert.Equal(t, "Caption", stripCitation("Caption Photo: X", "Photo: X"))
	assert.Equal(t, "Caption", stripCitation("Caption", "missing"))
}

func TestParseSlides_MissingImage(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<figure data-component="Figure" data-uri="coremedia://image/1"><figcaption>x</figcaption></figure>`)

	_, err := p.ParseSlides(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingImage)
}

func TestParseSlides_PullquoteWithoutBlockquote(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<aside data-component="Pullquote"><p>loose</p></aside>`)

	_, err := p.ParseSlides(root)
	assert.ErrorIs(t, err, ErrMissingBlockquote)
}

func TestParseSlides_Audio(t *testing.T) {
	p, _ := newTestParser(t)
	root := rootOf(t, `<div data-component="Figure" data-uri="coremedia://audio/10423"></div>`+
		`<div data-component="Figure" data-uri="coremedia://audio/latest"></div>`)

	slides, err := p.ParseSlides(root)
	require.NoError(t, err)
	require.Len(t, slides, 2)

	first := slides[0][0].(AudioBlock)
	require.NotNil(t, first.ContentID)
	assert.Equal(t, "10423", *first.ContentID)
	assert.Nil(t, slides[1][0].(AudioBlock).ContentID)
}

func TestParseSlides_Idempotent(t *testing.T) {
	markup := `<p>A</p>` + marker +
		`<blockquote data-component="Blockquote"><p>Q</p><p><em>W</em></p></blockquote>` +
		`<figure data-component="Image"><img src="x.jpg" alt=""><figcaption>Cap</figcaption></figure>` +
		marker + `<h2 data-component="Heading">H</h2>`

	encode := func() any {
		slides, err := ParseSlides(rootOf(t, markup))
		require.NoError(t, err)
		data, err := json.Marshal(slides)
		require.NoError(t, err)
		var out any
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}

	if diff := cmp.Diff(encode(), encode()); diff != "" {
		t.Errorf("ParseSlides not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseSlides_JSON(t *testing.T) {
	root := rootOf(t, `<blockquote data-component="Blockquote"><p>Q</p><p><em>W</em></p></blockquote>`+
		`<div data-component="Figure" data-uri="coremedia://audio/"></div>`)

	slides, err := ParseSlides(root)
	require.NoError(t, err)

	data, err := json.Marshal(slides)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		[{"type":"quote","kind":"blockquote","content":["<p>Q</p>"],"attribution":["W"]}],
		[{"type":"audio","cmid":null}]
	]`, string(data))
}

func TestNewParser_CustomMarker(t *testing.T) {
	p, err := NewParser(nil, Options{MarkerSelector: "hr"})
	require.NoError(t, err)

	slides, err := p.ParseSlides(rootOf(t, `<p>A</p><p>B</p><hr><p>C</p>`))
	require.NoError(t, err)

	require.Len(t, slides, 2)
	assert.Len(t, slides[0], 2)
	assert.Len(t, slides[1], 1)
}

func TestNewParser_InvalidMarker(t *testing.T) {
	_, err := NewParser(nil, Options{MarkerSelector: "[["})
	assert.Error(t, err)
}
