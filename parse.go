package scholarly

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-scholarly/metadata"
)

// frontMatterParser recognizes the fenced front matter block incrementally.
// It applies the same boundary rules as Scan: Open validates the fence run
// at line 0, Continue accepts a closing fence or swallows the line as body
// content, and goldmark's own end-of-input handling supplies the auto-close.
type frontMatterParser struct {
	hook func(raw []byte)
}

var _ parser.BlockParser = (*frontMatterParser)(nil)

// NewFrontMatterParser returns the block parser on its own, for callers
// assembling parser options manually instead of using the Extender.
func NewFrontMatterParser(opts ...Option) parser.BlockParser {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &frontMatterParser{hook: cfg.hook}
}

func (p *frontMatterParser) Trigger() []byte {
	return []byte{fenceMarker}
}

func (p *frontMatterParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	linenum, _ := reader.Position()
	if linenum != 0 {
		return nil, parser.NoChildren
	}

	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos != 0 || len(line) == 0 || line[0] != fenceMarker {
		return nil, parser.NoChildren
	}

	run := markerRun(line)
	if run < minMarkers {
		return nil, parser.NoChildren
	}

	return &Block{openRun: run}, parser.NoChildren
}

func (p *frontMatterParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	block := node.(*Block)
	line, segment := reader.PeekLine()

	width, pos := util.IndentWidth(line, reader.LineOffset())
	if width < maxCloseIndent && pos < len(line) && line[pos] == fenceMarker {
		i := pos
		for ; i < len(line) && line[i] == fenceMarker; i++ {
		}
		if i-pos >= block.openRun && util.IsBlank(line[i:]) {
			newline := 1
			if len(line) > 0 && line[len(line)-1] != '\n' {
				newline = 0
			}
			reader.Advance(segment.Stop - segment.Start - newline - segment.Padding)
			return parser.Close
		}
	}

	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (p *frontMatterParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {
	block := node.(*Block)

	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(reader.Source()))
	}
	raw := buf.Bytes()

	if p.hook != nil {
		p.hook(raw)
	}

	if doc := metadata.Parse(raw); doc != nil {
		block.doc = doc
		pc.Set(contextKey, doc)
	}
}

func (p *frontMatterParser) CanInterruptParagraph() bool {
	return false
}

func (p *frontMatterParser) CanAcceptIndentedLine() bool {
	return false
}
