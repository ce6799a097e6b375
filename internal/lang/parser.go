package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses snippet source one top-level statement at a time. The
// snippet processor owns the loop: each ParseStatement call consumes
// exactly one statement, so scope changes made while elaborating statement
// N are in force when statement N+1 is parsed.
type Parser struct {
	lx  *Lexer
	tok Token
}

func NewParser(src string) (*Parser, error) {
	p := &Parser{lx: NewLexer(src, LexerOptions{})}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// AtEOF reports whether all input has been consumed.
func (p *Parser) AtEOF() bool { return p.tok.Kind == TokEOF }

func (p *Parser) errf(format string, args ...any) error {
	return &ParseError{Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

// ParseStatement parses the next top-level statement. Callers must check
// AtEOF first; parsing at EOF is an error.
func (p *Parser) ParseStatement() (Stmt, error) {
	doc := ""
	if p.tok.Kind == TokDocComment {
		doc = stripDocComment(p.tok.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !(p.tok.Kind == TokKeyword && p.tok.Text == "def") {
			return nil, p.errf("doc comment must be followed by a def")
		}
	}

	switch {
	case p.tok.Kind == TokKeyword && p.tok.Text == "def":
		return p.parseDef(doc)
	case p.tok.Kind == TokKeyword && p.tok.Text == "open":
		return p.parseOpen()
	case p.tok.Kind == TokKeyword && p.tok.Text == "set_option":
		return p.parseSetOption()
	case p.tok.Kind == TokCommand:
		return p.parseCommand()
	case p.tok.Kind == TokEOF:
		return nil, p.errf("unexpected end of input")
	default:
		return nil, p.errf("expected statement, found %q", p.tok.Text)
	}
}

func (p *Parser) parseDef(doc string) (Stmt, error) {
	stmt := &DefStmt{Doc: doc, Pos: p.tok.Pos}
	if err := p.advance(); err != nil { // consume "def"
		return nil, err
	}
	if p.tok.Kind != TokIdent {
		return nil, p.errf("expected name after def, found %q", p.tok.Text)
	}
	stmt.Name = p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind == TokOp && p.tok.Text == ":" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		stmt.Type = ty
	}
	if !(p.tok.Kind == TokOp && p.tok.Text == ":=") {
		return nil, p.errf("expected := in def, found %q", p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Val = val
	return stmt, nil
}

func (p *Parser) parseOpen() (Stmt, error) {
	stmt := &OpenStmt{Pos: p.tok.Pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokIdent {
		return nil, p.errf("expected namespace after open, found %q", p.tok.Text)
	}
	stmt.Namespace = p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSetOption() (Stmt, error) {
	stmt := &SetOptionStmt{Pos: p.tok.Pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokIdent {
		return nil, p.errf("expected option name after set_option, found %q", p.tok.Text)
	}
	stmt.Option = p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch p.tok.Kind {
	case TokIdent, TokInt, TokString:
		stmt.Value = p.tok.Text
	case TokKeyword:
		if p.tok.Text != "true" && p.tok.Text != "false" {
			return nil, p.errf("expected option value, found %q", p.tok.Text)
		}
		stmt.Value = p.tok.Text
	default:
		return nil, p.errf("expected option value, found %q", p.tok.Text)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseCommand() (Stmt, error) {
	pos := p.tok.Pos
	name := p.tok.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch name {
	case "#eval":
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &EvalStmt{Val: val, Pos: pos}, nil
	case "#check":
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &CheckStmt{Val: val, Pos: pos}, nil
	case "#exit":
		return &ExitStmt{Pos: pos}, nil
	default:
		return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("unknown command %q", name)}
	}
}

// ParseExprOnly parses a single expression and requires that nothing
// follows it. Used by the inline (single-expression) snippet mode.
func (p *Parser) ParseExprOnly() (Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.AtEOF() {
		return nil, p.errf("unexpected %q after expression", p.tok.Text)
	}
	return e, nil
}

// parseExpr: additive level (+, ++), left-associative.
func (p *Parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokOp && (p.tok.Text == "+" || p.tok.Text == "++") {
		op := p.tok.Text
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinExpr{Op: op, L: left, R: right, Pos: pos}
	}
	return left, nil
}

// parseTerm: multiplicative level (*), left-associative.
func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokOp && p.tok.Text == "*" {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinExpr{Op: "*", L: left, R: right, Pos: pos}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case TokInt:
		n, err := strconv.ParseUint(tok.Text, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Msg: "integer literal out of range"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &IntLit{Value: n, Pos: tok.Pos}, nil

	case TokString:
		s, err := strconv.Unquote(tok.Text)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Msg: "invalid string literal"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StrLit{Value: s, Pos: tok.Pos}, nil

	case TokKeyword:
		if tok.Text == "true" || tok.Text == "false" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return &BoolLit{Value: tok.Text == "true", Pos: tok.Pos}, nil
		}
		return nil, p.errf("expected expression, found %q", tok.Text)

	case TokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &IdentExpr{Name: tok.Text, Pos: tok.Pos}, nil

	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokRParen {
			return nil, p.errf("expected ), found %q", p.tok.Text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errf("expected expression, found %q", tok.Text)
	}
}

// ParseTypeName parses a standalone written type (used for the inline
// mode's expected-type configuration).
func ParseTypeName(src string) (*TypeExpr, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.AtEOF() {
		return nil, p.errf("unexpected %q after type", p.tok.Text)
	}
	return ty, nil
}

func (p *Parser) parseType() (*TypeExpr, error) {
	tok := p.tok
	switch {
	case tok.Kind == TokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TypeExpr{Name: tok.Text, Pos: tok.Pos}, nil
	case tok.Kind == TokOp && tok.Text == "_":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &TypeExpr{Name: "_", Pos: tok.Pos}, nil
	default:
		return nil, p.errf("expected type, found %q", tok.Text)
	}
}

func stripDocComment(text string) string {
	text = strings.TrimPrefix(text, "/--")
	text = strings.TrimSuffix(text, "-/")
	return strings.TrimSpace(text)
}
