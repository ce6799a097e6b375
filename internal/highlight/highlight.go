// Package highlight converts processed snippets into a render-ready,
// JSON-serializable tree of classified token spans, and records declared
// symbols in a build-wide index for cross-linking.
//
// Emission is pure with respect to the environment: it only reads
// elaboration artifacts (declarations, docs) that already exist.
package highlight

import (
	"strings"

	"git.home.luguber.info/inful/snipdoc/internal/lang"
)

// SpanKind classifies a highlighted span. Values double as CSS class
// suffixes in the HTML renderer.
type SpanKind string

const (
	KindKeyword SpanKind = "keyword"
	KindCommand SpanKind = "command"
	KindIdent   SpanKind = "ident"
	KindInt     SpanKind = "int"
	KindString  SpanKind = "string"
	KindComment SpanKind = "comment"
	KindDoc     SpanKind = "doc"
	KindOp      SpanKind = "op"
	KindText    SpanKind = "text" // interstitial whitespace
)

// Hover is the tooltip payload attached to identifier spans.
type Hover struct {
	Signature string `json:"signature,omitempty"`
	Doc       string `json:"doc,omitempty"`
}

// Span is one classified run of source text.
type Span struct {
	Kind  SpanKind `json:"kind"`
	Text  string   `json:"text"`
	Hover *Hover   `json:"hover,omitempty"`
	// Def is the qualified name when this span is a binding site.
	Def string `json:"def,omitempty"`
	// Ref is the qualified name when this span references a known
	// declaration elsewhere.
	Ref string `json:"ref,omitempty"`
}

// Tree is the immutable highlighted representation of one snippet.
type Tree struct {
	Lines   [][]Span `json:"lines"`
	Defined []string `json:"defined,omitempty"`
}

// Text reconstructs the displayed source (after dedent).
func (t *Tree) Text() string {
	var b strings.Builder
	for i, line := range t.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, s := range line {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// emitter carries the per-snippet classification state: which bare names
// are binding sites, and whether the previous significant token was the
// def keyword (the only position where a binding site can occur).
type emitter struct {
	env      *lang.Environment
	scope    *lang.Scope
	defSites map[string]string // bare name -> qualified name
	afterDef bool
}

// Emit highlights a snippet's source. defined lists the qualified names
// the snippet declared; env supplies hover signatures and docs for
// identifier references; dedent is stripped uniformly from every line so
// nested snippets keep their relative indentation without a leading
// gutter.
func Emit(source string, dedent int, defined []string, env *lang.Environment, scope *lang.Scope) (*Tree, error) {
	em := &emitter{env: env, scope: scope, defSites: map[string]string{}}
	for _, name := range defined {
		em.defSites[bareName(name)] = name
	}

	tree := &Tree{Defined: append([]string(nil), defined...)}
	for _, srcLine := range strings.Split(source, "\n") {
		tree.Lines = append(tree.Lines, em.emitLine(applyDedent(srcLine, dedent)))
	}
	return tree, nil
}

// emitLine lexes one display line with comments kept and classifies every
// token, re-inserting the untokenized gaps (whitespace) as plain text
// spans so the line reconstructs exactly.
func (em *emitter) emitLine(line string) []Span {
	if line == "" {
		return nil
	}
	lx := lang.NewLexer(line, lang.LexerOptions{Comments: true})
	spans := []Span{}
	col := 0 // byte offset of the next unemitted source byte
	for {
		tok, err := lx.Next()
		if err != nil {
			// Highlighting runs after a successful parse, but one line in
			// isolation can still be unlexable (a block construct spanning
			// lines). Fall back to a single plain span for this line.
			return []Span{{Kind: KindText, Text: line}}
		}
		if tok.Kind == lang.TokEOF {
			break
		}
		start := strings.Index(line[col:], tok.Text)
		if start < 0 {
			return []Span{{Kind: KindText, Text: line}}
		}
		if start > 0 {
			spans = append(spans, Span{Kind: KindText, Text: line[col : col+start]})
		}
		spans = append(spans, em.classify(tok))
		col += start + len(tok.Text)
	}
	if col < len(line) {
		spans = append(spans, Span{Kind: KindText, Text: line[col:]})
	}
	return spans
}

func (em *emitter) classify(tok lang.Token) Span {
	afterDef := em.afterDef
	em.afterDef = tok.Kind == lang.TokKeyword && tok.Text == "def"

	switch tok.Kind {
	case lang.TokKeyword:
		return Span{Kind: KindKeyword, Text: tok.Text}
	case lang.TokCommand:
		return Span{Kind: KindCommand, Text: tok.Text}
	case lang.TokInt:
		return Span{Kind: KindInt, Text: tok.Text}
	case lang.TokString:
		return Span{Kind: KindString, Text: tok.Text}
	case lang.TokComment:
		return Span{Kind: KindComment, Text: tok.Text}
	case lang.TokDocComment:
		return Span{Kind: KindDoc, Text: tok.Text}
	case lang.TokIdent:
		return em.classifyIdent(tok.Text, afterDef)
	case lang.TokOp, lang.TokLParen, lang.TokRParen:
		return Span{Kind: KindOp, Text: tok.Text}
	default:
		return Span{Kind: KindText, Text: tok.Text}
	}
}

func (em *emitter) classifyIdent(name string, afterDef bool) Span {
	span := Span{Kind: KindIdent, Text: name}
	if afterDef {
		if qualified, ok := em.defSites[name]; ok {
			// Binding site. The declaration may be absent from the live
			// environment (keep = false rolls it back); the defined list
			// is authoritative here.
			span.Def = qualified
			if d, ok := em.env.Lookup(name, em.scope); ok {
				span.Hover = &Hover{Signature: d.Signature(), Doc: d.Doc}
			}
			return span
		}
	}
	if d, ok := em.env.Lookup(name, em.scope); ok {
		span.Hover = &Hover{Signature: d.Signature(), Doc: d.Doc}
		span.Ref = d.Name
	}
	return span
}

func applyDedent(line string, dedent int) string {
	for i := 0; i < dedent && line != ""; i++ {
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		line = line[1:]
	}
	return line
}

func bareName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
