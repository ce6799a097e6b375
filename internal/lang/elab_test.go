package lang

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

func elabSource(t *testing.T, env *Environment, scope *Scope, src string) diag.Log {
	t.Helper()
	p, err := NewParser(src)
	require.NoError(t, err)
	var log diag.Log
	for !p.AtEOF() {
		stmt, err := p.ParseStatement()
		require.NoError(t, err)
		log = append(log, Elaborate(stmt, env, scope)...)
		if stmt.Terminal() {
			break
		}
	}
	return log
}

func TestElaborate_EvalAddition_EmitsInfo(t *testing.T) {
	log := elabSource(t, NewEnvironment(), NewScope(), "#eval 1 + 1")
	require.Len(t, log, 1)
	require.Equal(t, diag.SevInfo, log[0].Severity)
	require.Equal(t, "2", log[0].Message)
}

func TestElaborate_DefTypeMismatch_OneErrorNoBinding(t *testing.T) {
	env := NewEnvironment()
	log := elabSource(t, env, NewScope(), `def f : Nat := "oops"`)
	require.Equal(t, 1, log.ErrorCount())
	require.Contains(t, log[0].Message, "type mismatch")
	_, ok := env.Lookup("f", nil)
	require.False(t, ok)
}

func TestElaborate_SequentialScope_SecondStatementSeesFirst(t *testing.T) {
	env := NewEnvironment()
	log := elabSource(t, env, NewScope(), "def x := 1\n#check x")
	require.False(t, log.HasErrors())
	require.Len(t, log, 1)
	require.Equal(t, "x : Nat", log[0].Message)
}

func TestElaborate_UnknownIdentifier_ErrorDiagnostic(t *testing.T) {
	log := elabSource(t, NewEnvironment(), NewScope(), "#eval y")
	require.Equal(t, 1, log.ErrorCount())
	require.Contains(t, log[0].Message, `unknown identifier "y"`)
}

func TestElaborate_StringAppend(t *testing.T) {
	log := elabSource(t, NewEnvironment(), NewScope(), `#eval "foo" ++ "bar"`)
	require.Len(t, log, 1)
	require.Equal(t, `"foobar"`, log[0].Message)
}

func TestElaborate_OpenNamespace_ResolvesQualifiedDecl(t *testing.T) {
	env := NewEnvironment()
	env.Define(Decl{Name: "List.length", Type: TypeNat, Val: Value{Type: TypeNat, Nat: 3}})
	scope := NewScope()
	log := elabSource(t, env, scope, "open List\n#eval length")
	require.False(t, log.HasErrors())
	require.Equal(t, "3", log[len(log)-1].Message)
}

func TestElaborate_OpenEmptyNamespace_Warns(t *testing.T) {
	log := elabSource(t, NewEnvironment(), NewScope(), "open Nothing")
	require.Len(t, log, 1)
	require.Equal(t, diag.SevWarning, log[0].Severity)
}

func TestElaborate_SetOption_VisibleInScopeAndEnv(t *testing.T) {
	env := NewEnvironment()
	scope := NewScope()
	log := elabSource(t, env, scope, "set_option pp.unicode true")
	require.Empty(t, log)
	require.Equal(t, "true", scope.Options["pp.unicode"])
	v, ok := env.Option("pp.unicode")
	require.True(t, ok)
	require.Equal(t, "true", v)
}

func TestElaborate_DocComment_StoredOnDecl(t *testing.T) {
	env := NewEnvironment()
	log := elabSource(t, env, NewScope(), "/-- the answer -/\ndef answer := 42")
	require.False(t, log.HasErrors())
	d, ok := env.Lookup("answer", nil)
	require.True(t, ok)
	require.Equal(t, "the answer", d.Doc)
	require.Equal(t, "answer : Nat", d.Signature())
}

func TestElaborateExpr_ExpectedTypeMismatch_Diagnostic(t *testing.T) {
	p, err := NewParser(`"oops"`)
	require.NoError(t, err)
	e, err := p.ParseExprOnly()
	require.NoError(t, err)

	expected := &TypeExpr{Name: "Nat"}
	_, _, log, eerr := ElaborateExpr(e, expected, NewEnvironment(), NewScope())
	require.NoError(t, eerr)
	require.Equal(t, 1, log.ErrorCount())
}

func TestElaborateExpr_HoleResolvedFromInference(t *testing.T) {
	p, err := NewParser("1 + 1")
	require.NoError(t, err)
	e, err := p.ParseExprOnly()
	require.NoError(t, err)

	val, ty, log, eerr := ElaborateExpr(e, &TypeExpr{Name: "_"}, NewEnvironment(), NewScope())
	require.NoError(t, eerr)
	require.Empty(t, log)
	require.Equal(t, TypeNat, ty)
	require.Equal(t, uint64(2), val.Nat)
}

func TestElaborateExpr_UnresolvableHole_TypeError(t *testing.T) {
	p, err := NewParser("nope")
	require.NoError(t, err)
	e, err := p.ParseExprOnly()
	require.NoError(t, err)

	_, _, _, eerr := ElaborateExpr(e, &TypeExpr{Name: "_"}, NewEnvironment(), NewScope())
	var terr *TypeError
	require.ErrorAs(t, eerr, &terr)
}

func TestElaborateExpr_UnknownExpectedTypeName_TypeError(t *testing.T) {
	p, err := NewParser("1")
	require.NoError(t, err)
	e, err := p.ParseExprOnly()
	require.NoError(t, err)

	_, _, _, eerr := ElaborateExpr(e, &TypeExpr{Name: "Natt"}, NewEnvironment(), NewScope())
	var terr *TypeError
	require.ErrorAs(t, eerr, &terr)
}

func TestEnvironment_CloneIsolation(t *testing.T) {
	env := NewEnvironment()
	env.Define(Decl{Name: "x", Type: TypeNat, Val: Value{Type: TypeNat, Nat: 1}})

	clone := env.Clone()
	require.True(t, env.Equal(clone))

	clone.Define(Decl{Name: "y", Type: TypeNat})
	clone.SetOption("opt", "v")
	require.False(t, env.Equal(clone))
	_, ok := env.Lookup("y", nil)
	require.False(t, ok)
}
