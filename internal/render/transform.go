package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/expect"
	"git.home.luguber.info/inful/snipdoc/internal/highlight"
	"git.home.luguber.info/inful/snipdoc/internal/metrics"
	"git.home.luguber.info/inful/snipdoc/internal/snippet"
)

// Options configures one document's snippet transformation.
type Options struct {
	// Tag is the fenced-block language that marks snippets ("lean");
	// Tag+"Output" marks expected-output blocks.
	Tag string
	// DocPath is the output-relative path of the document being built,
	// used for error reporting and symbol index entries.
	DocPath string
	// MaxLineWidth and IndentOffset feed the long-line lint.
	MaxLineWidth int
	IndentOffset int
	// Whitespace is the default output-matching mode.
	Whitespace expect.WhitespaceMode
	// Recorder receives per-snippet metrics; nil means no metrics.
	Recorder metrics.Recorder
}

// Stats summarizes one document's snippet processing.
type Stats struct {
	Snippets    int
	Diagnostics int
}

// Transformer rewrites tagged fenced code blocks and inline code spans
// into verified snippet nodes. goldmark transformers cannot return errors,
// so failures accumulate and must be collected through Err after the
// conversion.
type Transformer struct {
	proc  *snippet.Processor
	index *highlight.SymbolIndex
	opts  Options
	stats Stats
	errs  []error
}

func NewTransformer(proc *snippet.Processor, index *highlight.SymbolIndex, opts Options) *Transformer {
	if opts.Tag == "" {
		opts.Tag = "lean"
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Transformer{proc: proc, index: index, opts: opts}
}

// Err returns every failure the transformation collected, joined.
func (t *Transformer) Err() error { return errors.Join(t.errs...) }

// Stats reports what the transformation processed.
func (t *Transformer) Stats() Stats { return t.stats }

func (t *Transformer) observe(kind string, log diag.Log) {
	t.stats.Snippets++
	t.stats.Diagnostics += len(log)
	t.opts.Recorder.IncSnippetProcessed(kind)
	for _, d := range log {
		t.opts.Recorder.IncDiagnostic(d.Severity.String())
	}
}

// Transform implements parser.ASTTransformer. Snippets are processed in
// document order, strictly one at a time; replacements are applied after
// the walk so the traversal never sees a half-rewritten tree.
func (t *Transformer) Transform(doc *gast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	type replacement struct {
		old, new gast.Node
	}
	var replacements []replacement

	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gast.FencedCodeBlock:
			lang := string(node.Language(source))
			switch lang {
			case t.opts.Tag:
				built, err := t.buildSnippet(node, source)
				if err != nil {
					t.errs = append(t.errs, t.located(node, source, err))
					return gast.WalkContinue, nil
				}
				replacements = append(replacements, replacement{old: node, new: built})
			case t.opts.Tag + "Output":
				built, err := t.buildOutput(node, source)
				if err != nil {
					t.errs = append(t.errs, t.located(node, source, err))
					return gast.WalkContinue, nil
				}
				replacements = append(replacements, replacement{old: node, new: built})
			}
			return gast.WalkSkipChildren, nil

		case *gast.CodeSpan:
			spec, ok := parseInline(codeSpanText(node, source), t.opts.Tag)
			if !ok {
				return gast.WalkSkipChildren, nil
			}
			built, err := t.buildInline(spec)
			if err != nil {
				t.errs = append(t.errs, fmt.Errorf("%s: inline snippet: %w", t.opts.DocPath, err))
				return gast.WalkSkipChildren, nil
			}
			replacements = append(replacements, replacement{old: node, new: built})
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	})

	for _, r := range replacements {
		parent := r.old.Parent()
		if parent == nil {
			continue
		}
		if r.new == nil {
			parent.RemoveChild(parent, r.old)
			continue
		}
		parent.ReplaceChild(parent, r.old, r.new)
	}
}

// buildSnippet processes one tagged fenced block. A hidden (show=false)
// snippet is still fully processed for its side effects; it returns a nil
// node so the block disappears from the document.
func (t *Transformer) buildSnippet(node *gast.FencedCodeBlock, source []byte) (gast.Node, error) {
	attrs, err := parseBlockAttrs(infoFields(node, source))
	if err != nil {
		return nil, err
	}

	src := blockText(node, source)
	cfg := attrs.snippetConfig(t.opts.MaxLineWidth, t.opts.IndentOffset)
	res, err := t.proc.ProcessBlock(src, cfg)
	if err != nil {
		return nil, err
	}
	t.observe("block", res.Diagnostics)

	for _, name := range res.Defined {
		t.index.Add(name, t.opts.DocPath)
	}

	if !attrs.Show {
		return nil, nil
	}

	tree, err := highlight.Emit(strings.TrimRight(src, "\n"), res.Dedent, res.Defined, t.proc.Env(), t.proc.Scope())
	if err != nil {
		return nil, err
	}
	return &SnippetBlock{Tree: tree, Diagnostics: res.Diagnostics, Name: attrs.Name}, nil
}

// buildOutput matches an expected-output block against the registry.
func (t *Transformer) buildOutput(node *gast.FencedCodeBlock, source []byte) (gast.Node, error) {
	attrs, err := parseBlockAttrs(infoFields(node, source))
	if err != nil {
		return nil, err
	}
	if attrs.Name == "" {
		return nil, fmt.Errorf("%sOutput block needs a name", t.opts.Tag)
	}

	entries, err := t.proc.Registry().Lookup(attrs.Name)
	if err != nil {
		return nil, err
	}

	mode := t.opts.Whitespace
	if attrs.Whitespace != nil {
		mode = *attrs.Whitespace
	}
	entry, err := expect.MatchOutput(entries, blockText(node, source), mode, attrs.Severity)
	if err != nil {
		return nil, fmt.Errorf("output %q: %w", attrs.Name, err)
	}
	t.observe("output", nil)
	return &OutputBlock{Name: attrs.Name, Entry: entry}, nil
}

func (t *Transformer) buildInline(spec inlineSpec) (gast.Node, error) {
	cfg := snippet.DefaultConfig()
	cfg.ExpectedType = spec.ExpectedType
	res, err := t.proc.ProcessInline(strings.TrimSpace(spec.Source), cfg)
	if err != nil {
		return nil, err
	}
	t.observe("inline", res.Diagnostics)
	tree, err := highlight.Emit(res.Source, 0, nil, t.proc.Env(), t.proc.Scope())
	if err != nil {
		return nil, err
	}
	return &InlineSnippet{Tree: tree}, nil
}

// located wraps an error with the document path and the 1-based source
// line of the offending block.
func (t *Transformer) located(node *gast.FencedCodeBlock, source []byte, err error) error {
	offset := 0
	if node.Info != nil {
		offset = node.Info.Segment.Start
	} else if node.Lines().Len() > 0 {
		offset = node.Lines().At(0).Start
	}
	line := 1 + bytes.Count(source[:min(offset, len(source))], []byte{'\n'})
	return fmt.Errorf("%s:%d: %w", t.opts.DocPath, line, err)
}

// infoFields returns the info-string fields after the language tag.
func infoFields(node *gast.FencedCodeBlock, source []byte) []string {
	if node.Info == nil {
		return nil
	}
	fields := strings.Fields(string(node.Info.Segment.Value(source)))
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// blockText concatenates a fenced block's body lines.
func blockText(node *gast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// codeSpanText concatenates a code span's child text segments.
func codeSpanText(node *gast.CodeSpan, source []byte) string {
	var b strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.String()
}
