package highlight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/snipdoc/internal/lang"
)

func envWith(decls ...lang.Decl) *lang.Environment {
	env := lang.NewEnvironment()
	for _, d := range decls {
		env.Define(d)
	}
	return env
}

func findSpan(t *testing.T, tree *Tree, text string) Span {
	t.Helper()
	for _, line := range tree.Lines {
		for _, s := range line {
			if s.Text == text {
				return s
			}
		}
	}
	t.Fatalf("no span with text %q", text)
	return Span{}
}

func TestEmit_ClassifiesTokens(t *testing.T) {
	tree, err := Emit(`def x : Nat := 1 + "a"`, 0, []string{"x"}, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)

	require.Equal(t, KindKeyword, findSpan(t, tree, "def").Kind)
	require.Equal(t, KindIdent, findSpan(t, tree, "x").Kind)
	require.Equal(t, KindInt, findSpan(t, tree, "1").Kind)
	require.Equal(t, KindString, findSpan(t, tree, `"a"`).Kind)
	require.Equal(t, KindOp, findSpan(t, tree, ":=").Kind)
}

func TestEmit_RoundTripsSource(t *testing.T) {
	src := "def x := 1\n#check x"
	tree, err := Emit(src, 0, []string{"x"}, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)
	require.Equal(t, src, tree.Text())
}

func TestEmit_DedentAppliedUniformly(t *testing.T) {
	tree, err := Emit("  def x := 1\n    #check x", 2, []string{"x"}, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)
	// Two leading spaces stripped everywhere; relative indent preserved.
	require.Equal(t, "def x := 1\n  #check x", tree.Text())
}

func TestEmit_BindingSiteOnlyAfterDefKeyword(t *testing.T) {
	env := envWith(lang.Decl{Name: "x", Type: lang.TypeNat, Doc: "a number"})
	tree, err := Emit("def x := 1\n#check x", 0, []string{"x"}, env, lang.NewScope())
	require.NoError(t, err)

	require.Len(t, tree.Lines, 2)
	var defSite, refSite Span
	for _, s := range tree.Lines[0] {
		if s.Text == "x" {
			defSite = s
		}
	}
	for _, s := range tree.Lines[1] {
		if s.Text == "x" {
			refSite = s
		}
	}
	require.Equal(t, "x", defSite.Def)
	require.Empty(t, defSite.Ref)
	require.Equal(t, "x", refSite.Ref)
	require.Empty(t, refSite.Def)
}

func TestEmit_HoverCarriesSignatureAndDoc(t *testing.T) {
	env := envWith(lang.Decl{Name: "answer", Type: lang.TypeNat, Doc: "the answer"})
	tree, err := Emit("#eval answer", 0, nil, env, lang.NewScope())
	require.NoError(t, err)

	span := findSpan(t, tree, "answer")
	require.NotNil(t, span.Hover)
	require.Equal(t, "answer : Nat", span.Hover.Signature)
	require.Equal(t, "the answer", span.Hover.Doc)
}

func TestEmit_DefSiteSurvivesRolledBackEnvironment(t *testing.T) {
	// keep=false snippets roll the declaration back before emission; the
	// defined list still drives the binding-site annotation.
	tree, err := Emit("def gone := 1", 0, []string{"gone"}, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)

	span := findSpan(t, tree, "gone")
	require.Equal(t, "gone", span.Def)
	require.Nil(t, span.Hover)
}

func TestEmit_CommentsKept(t *testing.T) {
	tree, err := Emit("-- setup\ndef x := 1", 0, []string{"x"}, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)
	require.Equal(t, KindComment, findSpan(t, tree, "-- setup").Kind)
}

func TestEmit_TreeSerializesToJSON(t *testing.T) {
	tree, err := Emit("#eval 1", 0, nil, lang.NewEnvironment(), lang.NewScope())
	require.NoError(t, err)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"command"`)

	var back Tree
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, tree.Text(), back.Text())
}

func TestSymbolIndex_AddResolve(t *testing.T) {
	x := NewSymbolIndex()
	x.Add("List.length", "guide/lists.html")

	loc, ok := x.Resolve("List.length")
	require.True(t, ok)
	require.Equal(t, "guide/lists.html", loc.Document)
	require.Equal(t, "def-List.length", loc.Anchor)

	_, ok = x.Resolve("missing")
	require.False(t, ok)
	require.Equal(t, 1, x.Len())
}

func TestSymbolIndex_JSONSorted(t *testing.T) {
	x := NewSymbolIndex()
	x.Add("b", "doc.html")
	x.Add("a", "doc.html")

	data, err := json.Marshal(x)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"a": {"document": "doc.html", "anchor": "def-a"},
		"b": {"document": "doc.html", "anchor": "def-b"}
	}`, string(data))
}
