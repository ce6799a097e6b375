package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/snipdoc/internal/highlight"
)

// texMacros maps span kinds to the macro names of the TeX style bundle.
var texMacros = map[highlight.SpanKind]string{
	highlight.KindKeyword: "SnipdocKw",
	highlight.KindCommand: "SnipdocCmd",
	highlight.KindIdent:   "SnipdocId",
	highlight.KindInt:     "SnipdocLit",
	highlight.KindString:  "SnipdocLit",
	highlight.KindComment: "SnipdocComment",
	highlight.KindDoc:     "SnipdocComment",
	highlight.KindOp:      "SnipdocOp",
}

// RenderTeX renders a highlighted tree as a sequential concatenation of
// macro calls inside a verbatim-like environment. Hover metadata has no
// TeX counterpart and is dropped.
func RenderTeX(tree *highlight.Tree) string {
	var b strings.Builder
	b.WriteString("\\begin{SnipdocCode}\n")
	for _, line := range tree.Lines {
		for _, span := range line {
			macro, ok := texMacros[span.Kind]
			if !ok {
				b.WriteString(escapeTeX(span.Text))
				continue
			}
			fmt.Fprintf(&b, "\\%s{%s}", macro, escapeTeX(span.Text))
		}
		b.WriteString("\\\\\n")
	}
	b.WriteString("\\end{SnipdocCode}\n")
	return b.String()
}

var texReplacer = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"{", "\\{",
	"}", "\\}",
	"$", "\\$",
	"&", "\\&",
	"#", "\\#",
	"^", "\\textasciicircum{}",
	"_", "\\_",
	"~", "\\textasciitilde{}",
	"%", "\\%",
)

func escapeTeX(s string) string { return texReplacer.Replace(s) }
