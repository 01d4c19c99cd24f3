package scholarly

import (
	gast "github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-scholarly/metadata"
)

// Block is the AST node emitted for a recognized front matter block. The
// node is raw: its lines never enter the inline flow, so the base renderer
// ignores them and only the title block renderer produces output.
type Block struct {
	gast.BaseBlock

	openRun int
	doc     *metadata.Document
}

// KindBlock identifies front matter blocks in the goldmark AST.
var KindBlock = gast.NewNodeKind("FrontMatterBlock")

// Kind implements ast.Node.
func (n *Block) Kind() gast.NodeKind {
	return KindBlock
}

// Dump implements ast.Node.
func (n *Block) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// IsRaw implements ast.Node.
func (n *Block) IsRaw() bool {
	return true
}

// Document returns the parsed metadata, or nil when the captured text did
// not decode to a top-level mapping.
func (n *Block) Document() *metadata.Document {
	return n.doc
}
