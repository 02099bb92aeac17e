// Package markdown turns article bodies into HTML and extracts a table of
// contents from their headings.
package markdown

import (
	"bytes"
	"context"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

const DefaultStyle = "github"

// Rendered is the output of one conversion.
type Rendered struct {
	HTML    string      `json:"html"`
	TOC     []*TOCEntry `json:"toc"`
	TOCHTML string      `json:"tocHtml"`
}

type Option func(*options)

type options struct {
	style    string
	safeMode bool
}

// WithStyle selects the chroma style used for fenced code blocks.
func WithStyle(style string) Option {
	return func(o *options) { o.style = style }
}

// WithSafeMode drops raw HTML from the source instead of passing it through.
func WithSafeMode(on bool) Option {
	return func(o *options) { o.safeMode = on }
}

// Renderer converts markdown with extended syntax (tables, footnotes,
// definition lists, attributes), highlighted code and heading ids.
// A Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer(opts ...Option) *Renderer {
	o := options{style: DefaultStyle}
	for _, opt := range opts {
		opt(&o)
	}

	rendererOptions := []goldmark.Option{}
	if !o.safeMode {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	md := goldmark.New(append(rendererOptions,
		goldmark.WithExtensions(
			extension.Table,
			extension.Footnote,
			extension.DefinitionList,
			highlighting.NewHighlighting(
				highlighting.WithStyle(o.style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
	)...)

	return &Renderer{md: md}
}

// Render converts source. The key is accepted so Renderer and CachedRenderer
// share a signature; it is not used here.
func (r *Renderer) Render(_ context.Context, _ string, source string) (*Rendered, error) {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	toc := buildTOC(doc, src)

	return &Rendered{
		HTML:    buf.String(),
		TOC:     toc,
		TOCHTML: renderTOC(toc),
	}, nil
}
