package lang

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

// Lexer scans snippet source into tokens. Whitespace is skipped; comments
// are skipped unless the lexer was built with Comments enabled (the
// highlighter wants them, the parser does not — except doc comments, which
// are always emitted so the parser can attach them to defs).
type Lexer struct {
	src      string
	off      int
	line     int
	col      int
	comments bool
}

// LexerOptions controls comment emission.
type LexerOptions struct {
	// Comments emits ordinary line and block comments as tokens.
	Comments bool
}

func NewLexer(src string, opts LexerOptions) *Lexer {
	return &Lexer{src: src, line: 1, col: 1, comments: opts.Comments}
}

func (lx *Lexer) eof() bool { return lx.off >= len(lx.src) }

func (lx *Lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *Lexer) peekAt(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

// advance consumes one rune and tracks line/column.
func (lx *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *Lexer) pos() diag.Pos { return diag.Pos{Line: lx.line, Column: lx.col} }

// Next returns the next token, or an EOF token once input is exhausted.
// Malformed input (unterminated string or block comment) returns an error.
func (lx *Lexer) Next() (Token, error) {
	for {
		lx.skipSpace()
		if lx.eof() {
			return Token{Kind: TokEOF, Pos: lx.pos()}, nil
		}

		start := lx.off
		pos := lx.pos()
		ch := lx.peek()

		switch {
		case ch == '-' && lx.peekAt(1) == '-':
			lx.scanLineComment()
			if lx.comments {
				return Token{Kind: TokComment, Text: lx.src[start:lx.off], Pos: pos}, nil
			}
			continue

		case ch == '/' && lx.peekAt(1) == '-':
			doc := lx.peekAt(2) == '-'
			if err := lx.scanBlockComment(pos); err != nil {
				return Token{}, err
			}
			if doc {
				return Token{Kind: TokDocComment, Text: lx.src[start:lx.off], Pos: pos}, nil
			}
			if lx.comments {
				return Token{Kind: TokComment, Text: lx.src[start:lx.off], Pos: pos}, nil
			}
			continue

		case ch == '#':
			lx.advance()
			lx.scanIdentTail()
			return Token{Kind: TokCommand, Text: lx.src[start:lx.off], Pos: pos}, nil

		case ch == '"':
			if err := lx.scanString(pos); err != nil {
				return Token{}, err
			}
			return Token{Kind: TokString, Text: lx.src[start:lx.off], Pos: pos}, nil

		case ch >= '0' && ch <= '9':
			for !lx.eof() && lx.peek() >= '0' && lx.peek() <= '9' {
				lx.advance()
			}
			return Token{Kind: TokInt, Text: lx.src[start:lx.off], Pos: pos}, nil

		case isIdentStart(ch):
			lx.scanIdentTail()
			text := lx.src[start:lx.off]
			kind := TokIdent
			if IsKeyword(text) {
				kind = TokKeyword
			}
			return Token{Kind: kind, Text: text, Pos: pos}, nil

		case ch == '(':
			lx.advance()
			return Token{Kind: TokLParen, Text: "(", Pos: pos}, nil

		case ch == ')':
			lx.advance()
			return Token{Kind: TokRParen, Text: ")", Pos: pos}, nil

		default:
			if op := lx.scanOp(); op != "" {
				return Token{Kind: TokOp, Text: op, Pos: pos}, nil
			}
			r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
			return Token{}, &ParseError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.eof() {
		switch lx.peek() {
		case ' ', '\t', '\r', '\n':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *Lexer) scanLineComment() {
	for !lx.eof() && lx.peek() != '\n' {
		lx.advance()
	}
}

func (lx *Lexer) scanBlockComment(pos diag.Pos) error {
	// Consume "/-"; terminated by "-/". No nesting.
	lx.advance()
	lx.advance()
	for !lx.eof() {
		if lx.peek() == '-' && lx.peekAt(1) == '/' {
			lx.advance()
			lx.advance()
			return nil
		}
		lx.advance()
	}
	return &ParseError{Pos: pos, Msg: "unterminated block comment"}
}

func (lx *Lexer) scanString(pos diag.Pos) error {
	lx.advance() // opening quote
	for !lx.eof() {
		switch lx.peek() {
		case '\\':
			lx.advance()
			if !lx.eof() {
				lx.advance()
			}
		case '"':
			lx.advance()
			return nil
		case '\n':
			return &ParseError{Pos: pos, Msg: "unterminated string literal"}
		default:
			lx.advance()
		}
	}
	return &ParseError{Pos: pos, Msg: "unterminated string literal"}
}

func (lx *Lexer) scanIdentTail() {
	for !lx.eof() {
		ch := lx.peek()
		if isIdentStart(ch) || (ch >= '0' && ch <= '9') || ch == '_' || ch == '.' {
			lx.advance()
			continue
		}
		return
	}
}

// Multi-byte operators first so "++" is not lexed as two "+".
var operators = []string{"++", ":=", "+", "*", ":", "_"}

func (lx *Lexer) scanOp() string {
	rest := lx.src[lx.off:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range op {
				lx.advance()
			}
			return op
		}
	}
	return ""
}

// A leading "_" is the type hole operator, not an identifier start;
// underscores inside names (set_option) are handled by scanIdentTail.
func isIdentStart(ch byte) bool {
	if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	// Non-ASCII letters (Greek idents are common in the snippet language).
	return ch >= utf8.RuneSelf
}
