// Package markdown renders the site's content pages.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"go.abhg.dev/goldmark/frontmatter"
)

// Meta is the YAML header of a content page. All keys are optional.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	CTA         string `yaml:"cta"`
}

type Document struct {
	Meta Meta
	HTML string
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
				&frontmatter.Extender{},
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts source to HTML. Raw HTML in the source is dropped.
func (p *Parser) Render(source []byte) (*Document, error) {
	pctx := parser.NewContext()
	var buf bytes.Buffer

	err := p.md.Convert(source, &buf, parser.WithContext(pctx))
	if err != nil {
		return nil, err
	}

	doc := &Document{HTML: buf.String()}
	if data := frontmatter.Get(pctx); data != nil {
		err = data.Decode(&doc.Meta)
		if err != nil {
			return nil, fmt.Errorf("invalid front matter: %w", err)
		}
	}
	return doc, nil
}
