package render

import (
	"fmt"
	"html"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/snipdoc/internal/highlight"
)

// HTMLRenderer renders snippet nodes to <pre>/<code> structures with
// hover tooltips and cross-reference links.
type HTMLRenderer struct {
	index   *highlight.SymbolIndex
	docPath string
}

func NewHTMLRenderer(index *highlight.SymbolIndex, docPath string) *HTMLRenderer {
	return &HTMLRenderer{index: index, docPath: docPath}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSnippetBlock, r.renderSnippetBlock)
	reg.Register(KindOutputBlock, r.renderOutputBlock)
	reg.Register(KindInlineSnippet, r.renderInlineSnippet)
}

func (r *HTMLRenderer) renderSnippetBlock(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*SnippetBlock)

	_, _ = w.WriteString(`<pre class="snipdoc"><code>`)
	for i, line := range n.Tree.Lines {
		if i > 0 {
			_ = w.WriteByte('\n')
		}
		for _, span := range line {
			r.writeSpan(w, span)
		}
	}
	_, _ = w.WriteString("</code></pre>\n")

	if len(n.Diagnostics) > 0 {
		_, _ = w.WriteString(`<div class="snipdoc-diagnostics">`)
		for _, d := range n.Diagnostics {
			fmt.Fprintf(w, `<div class="snipdoc-diagnostic snipdoc-%s">%s</div>`,
				d.Severity, html.EscapeString(d.Message))
		}
		_, _ = w.WriteString("</div>\n")
	}
	return gast.WalkSkipChildren, nil
}

func (r *HTMLRenderer) renderOutputBlock(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*OutputBlock)
	fmt.Fprintf(w, `<pre class="snipdoc-output snipdoc-%s">%s</pre>`,
		n.Entry.Severity, html.EscapeString(n.Entry.Text))
	_ = w.WriteByte('\n')
	return gast.WalkSkipChildren, nil
}

func (r *HTMLRenderer) renderInlineSnippet(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		return gast.WalkContinue, nil
	}
	n := node.(*InlineSnippet)
	_, _ = w.WriteString(`<code class="snipdoc-inline">`)
	for _, line := range n.Tree.Lines {
		for _, span := range line {
			r.writeSpan(w, span)
		}
	}
	_, _ = w.WriteString("</code>")
	return gast.WalkSkipChildren, nil
}

// writeSpan emits one classified span: a plain text run, an anchored
// binding site, or a hyperlinked reference, with hover metadata carried in
// data attributes consumed by the tooltip script.
func (r *HTMLRenderer) writeSpan(w util.BufWriter, span highlight.Span) {
	if span.Kind == highlight.KindText {
		_, _ = w.WriteString(html.EscapeString(span.Text))
		return
	}

	href := ""
	if span.Ref != "" {
		if loc, ok := r.index.Resolve(span.Ref); ok {
			href = loc.Anchor
			if loc.Document != r.docPath {
				href = loc.Document + "#" + loc.Anchor
			} else {
				href = "#" + loc.Anchor
			}
		}
	}
	if href != "" {
		fmt.Fprintf(w, `<a class="snipdoc-ref" href="%s">`, html.EscapeString(href))
	}

	fmt.Fprintf(w, `<span class="tok-%s"`, span.Kind)
	if span.Def != "" {
		fmt.Fprintf(w, ` id="def-%s"`, html.EscapeString(span.Def))
	}
	if span.Hover != nil {
		fmt.Fprintf(w, ` data-hover-sig="%s"`, html.EscapeString(span.Hover.Signature))
		if span.Hover.Doc != "" {
			fmt.Fprintf(w, ` data-hover-doc="%s"`, html.EscapeString(span.Hover.Doc))
		}
	}
	fmt.Fprintf(w, `>%s</span>`, html.EscapeString(span.Text))

	if href != "" {
		_, _ = w.WriteString("</a>")
	}
}
