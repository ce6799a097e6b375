// Package render integrates the snippet pipeline with the goldmark
// document tree: an AST transformer replaces tagged fenced blocks and
// inline code spans with verified snippet nodes, and node renderers emit
// the HTML (and, separately, TeX) for them.
package render

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/snipdoc/internal/highlight"
	"git.home.luguber.info/inful/snipdoc/internal/snippet"
)

// Extension wires the transformer and renderer into a goldmark instance.
// One Extension serves one document conversion: it carries the document's
// path and collects that document's transformation errors.
type Extension struct {
	transformer *Transformer
	renderer    *HTMLRenderer
}

func NewExtension(proc *snippet.Processor, index *highlight.SymbolIndex, opts Options) *Extension {
	return &Extension{
		transformer: NewTransformer(proc, index, opts),
		renderer:    NewHTMLRenderer(index, opts.DocPath),
	}
}

// Err reports the errors collected during conversion, if any.
func (e *Extension) Err() error { return e.transformer.Err() }

// Stats reports what the conversion processed.
func (e *Extension) Stats() Stats { return e.transformer.Stats() }

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(e.transformer, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.renderer, 500),
	))
}
