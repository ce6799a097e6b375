package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string, opts LexerOptions) []Token {
	t.Helper()
	lx := NewLexer(src, opts)
	var toks []Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexer_DefStatement_TokenKinds(t *testing.T) {
	toks := lexAll(t, `def x : Nat := 1 + 2`, LexerOptions{})

	kinds := make([]TokKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []TokKind{
		TokKeyword, TokIdent, TokOp, TokIdent, TokOp, TokInt, TokOp, TokInt,
	}, kinds)
	require.Equal(t, "def", toks[0].Text)
	require.Equal(t, ":=", toks[4].Text)
}

func TestLexer_Command_SingleToken(t *testing.T) {
	toks := lexAll(t, "#eval 1 + 1", LexerOptions{})
	require.Equal(t, TokCommand, toks[0].Kind)
	require.Equal(t, "#eval", toks[0].Text)
}

func TestLexer_Positions_AreOneBased(t *testing.T) {
	toks := lexAll(t, "def x := 1\n#check x", LexerOptions{})
	require.Equal(t, 1, toks[0].Pos.Line)
	require.Equal(t, 1, toks[0].Pos.Column)
	// "#check" starts the second line.
	var check Token
	for _, tok := range toks {
		if tok.Text == "#check" {
			check = tok
		}
	}
	require.Equal(t, 2, check.Pos.Line)
	require.Equal(t, 1, check.Pos.Column)
}

func TestLexer_DocComment_AlwaysEmitted(t *testing.T) {
	toks := lexAll(t, "/-- adds one -/\ndef f := 1", LexerOptions{})
	require.Equal(t, TokDocComment, toks[0].Kind)
	require.Contains(t, toks[0].Text, "adds one")
}

func TestLexer_LineComment_SkippedUnlessRequested(t *testing.T) {
	src := "-- note\ndef x := 1"

	plain := lexAll(t, src, LexerOptions{})
	require.Equal(t, TokKeyword, plain[0].Kind)

	withComments := lexAll(t, src, LexerOptions{Comments: true})
	require.Equal(t, TokComment, withComments[0].Kind)
	require.Equal(t, "-- note", withComments[0].Text)
}

func TestLexer_StringAppend_LexesDoublePlus(t *testing.T) {
	toks := lexAll(t, `"a" ++ "b"`, LexerOptions{})
	require.Len(t, toks, 3)
	require.Equal(t, TokOp, toks[1].Kind)
	require.Equal(t, "++", toks[1].Text)
}

func TestLexer_UnterminatedString_ReturnsParseError(t *testing.T) {
	lx := NewLexer(`def s := "oops`, LexerOptions{})
	var err error
	for err == nil {
		var tok Token
		tok, err = lx.Next()
		if err == nil && tok.Kind == TokEOF {
			t.Fatal("expected an error before EOF")
		}
	}
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Contains(t, perr.Msg, "unterminated string")
}

func TestLexer_UnderscoreAlone_IsHoleOperator(t *testing.T) {
	toks := lexAll(t, "_", LexerOptions{})
	require.Len(t, toks, 1)
	require.Equal(t, TokOp, toks[0].Kind)
	require.Equal(t, "_", toks[0].Text)
}

func TestLexer_SetOption_KeywordWithUnderscore(t *testing.T) {
	toks := lexAll(t, "set_option pp.unicode true", LexerOptions{})
	require.Equal(t, TokKeyword, toks[0].Kind)
	require.Equal(t, "set_option", toks[0].Text)
	require.Equal(t, "pp.unicode", toks[1].Text)
}
