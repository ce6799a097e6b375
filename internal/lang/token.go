// Package lang implements the reference snippet language: a small typed
// statement language (defs, #eval, #check, open, set_option) used by the
// snippet pipeline. The lexer keeps exact source positions so the
// highlighter can rebuild the original layout token by token.
//
// Invariants:
//   - Token.Text is the exact source text of the token (no unescaping).
//   - Token positions are 1-based line/column of the first byte.
//   - Commands (#eval, #check) are single tokens of kind TokCommand.
//   - Doc comments (/-- ... -/) are tokens of kind TokDocComment; they are
//     attached by the parser to the following def.
package lang

import "git.home.luguber.info/inful/snipdoc/internal/diag"

// TokKind classifies a lexical token.
type TokKind uint8

const (
	TokEOF TokKind = iota
	TokIdent
	TokKeyword
	TokCommand
	TokInt
	TokString
	TokOp
	TokLParen
	TokRParen
	TokComment
	TokDocComment
)

func (k TokKind) String() string {
	switch k {
	case TokEOF:
		return "eof"
	case TokIdent:
		return "ident"
	case TokKeyword:
		return "keyword"
	case TokCommand:
		return "command"
	case TokInt:
		return "int"
	case TokString:
		return "string"
	case TokOp:
		return "op"
	case TokLParen:
		return "lparen"
	case TokRParen:
		return "rparen"
	case TokComment:
		return "comment"
	case TokDocComment:
		return "doccomment"
	}
	return "unknown"
}

// Token is one lexical token with its exact source text and position.
type Token struct {
	Kind TokKind
	Text string
	Pos  diag.Pos
}

var keywords = map[string]bool{
	"def":        true,
	"open":       true,
	"set_option": true,
	"true":       true,
	"false":      true,
}

// IsKeyword reports whether an identifier lexeme is a reserved word.
func IsKeyword(lexeme string) bool { return keywords[lexeme] }
