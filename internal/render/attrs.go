package render

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/expect"
	"git.home.luguber.info/inful/snipdoc/internal/snippet"
)

// blockAttrs is the parsed info-string configuration of a snippet or
// output block: `lean name=x keep=false error=true` or
// `leanOutput x severity=error whitespace=lax`.
type blockAttrs struct {
	Name       string
	Show       bool
	Keep       bool
	Error      *bool
	Severity   *diag.Severity
	Whitespace *expect.WhitespaceMode
}

// parseBlockAttrs parses the fields after the language tag. A single bare
// word is shorthand for name=WORD (the leanOutput form).
func parseBlockAttrs(fields []string) (blockAttrs, error) {
	attrs := blockAttrs{Show: true, Keep: true}
	for _, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found {
			if attrs.Name != "" {
				return attrs, fmt.Errorf("unexpected attribute %q", field)
			}
			attrs.Name = key
			continue
		}
		switch key {
		case "name":
			attrs.Name = value
		case "show":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return attrs, fmt.Errorf("attribute show: %w", err)
			}
			attrs.Show = b
		case "keep":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return attrs, fmt.Errorf("attribute keep: %w", err)
			}
			attrs.Keep = b
		case "error":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return attrs, fmt.Errorf("attribute error: %w", err)
			}
			attrs.Error = &b
		case "severity":
			sev, err := diag.ParseSeverity(value)
			if err != nil {
				return attrs, fmt.Errorf("attribute severity: %w", err)
			}
			attrs.Severity = &sev
		case "whitespace":
			mode, err := expect.ParseWhitespaceMode(value)
			if err != nil {
				return attrs, fmt.Errorf("attribute whitespace: %w", err)
			}
			attrs.Whitespace = &mode
		default:
			return attrs, fmt.Errorf("unknown attribute %q", key)
		}
	}
	return attrs, nil
}

// snippetConfig converts the parsed attributes to a processor config.
func (a blockAttrs) snippetConfig(maxWidth, indentOffset int) snippet.Config {
	return snippet.Config{
		Show:         a.Show,
		Keep:         a.Keep,
		Name:         a.Name,
		Error:        a.Error,
		MaxWidth:     maxWidth,
		IndentOffset: indentOffset,
	}
}

// inlineSpec is a parsed inline code span: `lean:EXPR` or
// `lean type:TYPE:EXPR`.
type inlineSpec struct {
	ExpectedType string
	Source       string
}

// parseInline recognizes an inline snippet span. The boolean is false when
// the span is ordinary code and should be left alone.
func parseInline(text, tag string) (inlineSpec, bool) {
	rest, ok := strings.CutPrefix(text, tag+":")
	if !ok {
		return inlineSpec{}, false
	}
	if after, ok := strings.CutPrefix(rest, "type:"); ok {
		ty, src, found := strings.Cut(after, ":")
		if !found {
			return inlineSpec{}, false
		}
		return inlineSpec{ExpectedType: strings.TrimSpace(ty), Source: src}, true
	}
	return inlineSpec{Source: rest}, true
}
