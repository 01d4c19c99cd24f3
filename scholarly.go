// Package scholarly provides a goldmark extension that recognizes a fenced
// front matter block at the start of a Markdown document, decodes it as
// YAML metadata, extracts a scholarly title block (title, subtitle,
// abstract, dates, DOI, authors with affiliations and ORCID ids), and
// renders the result as an HTML title block followed by a dump of the
// remaining metadata. Malformed front matter never fails a render: the
// worst case for bad input is an empty metadata section.
package scholarly

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-scholarly/metadata"
)

type config struct {
	hook func(raw []byte)
}

// Option customizes the extension.
type Option func(*config)

// WithSourceHook registers fn to be invoked once per recognized front
// matter block with the raw, unparsed inner text. The hook fires before
// decoding, so it sees the text even when the YAML turns out malformed.
func WithSourceHook(fn func(raw []byte)) Option {
	return func(cfg *config) {
		cfg.hook = fn
	}
}

// Extender wires front matter recognition and title block rendering into a
// goldmark.Markdown instance.
type Extender struct {
	cfg config
}

var _ goldmark.Extender = (*Extender)(nil)

// New builds the extension. Install it with goldmark.WithExtensions.
func New(opts ...Option) *Extender {
	e := &Extender{}
	for _, opt := range opts {
		opt(&e.cfg)
	}
	return e
}

// Extend implements goldmark.Extender. The block parser registers at
// priority 0 so the front matter rule gets first refusal on line 0, ahead
// of the thematic break, setext heading, paragraph, and list rules that
// would otherwise claim a dash run.
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&frontMatterParser{hook: e.cfg.hook}, 0),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(), 0),
	))
}

var contextKey = parser.NewContextKey()

// FromContext returns the front matter document recorded during the most
// recent parse that used the supplied context, or nil when the document had
// no usable front matter.
func FromContext(pc parser.Context) *metadata.Document {
	value := pc.Get(contextKey)
	if value == nil {
		return nil
	}
	doc, ok := value.(*metadata.Document)
	if !ok {
		return nil
	}
	return doc
}
