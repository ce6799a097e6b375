package render

import (
	gast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/highlight"
	"git.home.luguber.info/inful/snipdoc/internal/registry"
)

// SnippetBlock is the document node carrying a verified, highlighted
// snippet. The payload (Tree + Diagnostics) is JSON-serializable so
// downstream tooling can consume it without re-processing.
type SnippetBlock struct {
	gast.BaseBlock

	Tree        *highlight.Tree
	Diagnostics diag.Log
	Name        string
}

// KindSnippetBlock identifies SnippetBlock nodes.
var KindSnippetBlock = gast.NewNodeKind("SnippetBlock")

func (n *SnippetBlock) Kind() gast.NodeKind { return KindSnippetBlock }

func (n *SnippetBlock) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// OutputBlock is the document node for an expected-output fragment that
// matched a recorded entry.
type OutputBlock struct {
	gast.BaseBlock

	Name  string
	Entry registry.Entry
}

// KindOutputBlock identifies OutputBlock nodes.
var KindOutputBlock = gast.NewNodeKind("OutputBlock")

func (n *OutputBlock) Kind() gast.NodeKind { return KindOutputBlock }

func (n *OutputBlock) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Name": n.Name}, nil)
}

// InlineSnippet is the inline counterpart of SnippetBlock.
type InlineSnippet struct {
	gast.BaseInline

	Tree *highlight.Tree
}

// KindInlineSnippet identifies InlineSnippet nodes.
var KindInlineSnippet = gast.NewNodeKind("InlineSnippet")

func (n *InlineSnippet) Kind() gast.NodeKind { return KindInlineSnippet }

func (n *InlineSnippet) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}
