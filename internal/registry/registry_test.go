package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

func TestRegister_LastWriteWins(t *testing.T) {
	r := New()
	r.Register("out", []Entry{{Severity: diag.SevInfo, Text: "first"}})
	r.Register("out", []Entry{{Severity: diag.SevError, Text: "second"}})

	entries, err := r.Lookup("out")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "second", entries[0].Text)
	require.Equal(t, diag.SevError, entries[0].Severity)
}

func TestRegister_CopiesInput(t *testing.T) {
	r := New()
	in := []Entry{{Text: "a"}}
	r.Register("out", in)
	in[0].Text = "mutated"

	entries, err := r.Lookup("out")
	require.NoError(t, err)
	require.Equal(t, "a", entries[0].Text)
}

func TestLookup_AbsentName_UnknownNameError(t *testing.T) {
	r := New()
	r.Register("evalExample", nil)

	_, err := r.Lookup("missing")
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "missing", unknown.Name)
	require.Equal(t, []string{"evalExample"}, unknown.Known)
}

func TestLookup_NearMiss_Suggested(t *testing.T) {
	r := New()
	r.Register("evalExample", nil)
	r.Register("otherThing", nil)

	_, err := r.Lookup("evalExampl")
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	require.Contains(t, unknown.Suggestions, "evalExample")
	require.NotContains(t, unknown.Suggestions, "otherThing")
	require.Contains(t, unknown.Error(), "did you mean")
}

func TestLookup_SubstringBothDirections_Suggested(t *testing.T) {
	r := New()
	r.Register("short", nil)

	// Query contains a stored key.
	_, err := r.Lookup("short-and-longer")
	var unknown *UnknownNameError
	require.ErrorAs(t, err, &unknown)
	require.Contains(t, unknown.Suggestions, "short")
}

func TestNames_Sorted(t *testing.T) {
	r := New()
	r.Register("b", nil)
	r.Register("a", nil)
	require.Equal(t, []string{"a", "b"}, r.Names())
	require.Equal(t, 2, r.Len())
}
