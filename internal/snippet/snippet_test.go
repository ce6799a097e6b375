package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/expect"
	"git.home.luguber.info/inful/snipdoc/internal/lang"
	"git.home.luguber.info/inful/snipdoc/internal/registry"
	"git.home.luguber.info/inful/snipdoc/internal/snapshot"
)

func newProcessor() *Processor {
	return NewProcessor(
		snapshot.NewManager(lang.NewEnvironment(), lang.NewScope()),
		registry.New(),
	)
}

func boolPtr(b bool) *bool { return &b }

func TestProcessBlock_EvalDefault_OneInfo(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessBlock("#eval 1 + 1", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, diag.SevInfo, res.Diagnostics[0].Severity)
	require.Equal(t, "2", res.Diagnostics[0].Message)
}

func TestProcessBlock_EvalWithMustError_Violation(t *testing.T) {
	p := newProcessor()
	cfg := DefaultConfig()
	cfg.Error = boolPtr(true)

	_, err := p.ProcessBlock("#eval 1 + 1", cfg)
	var v *expect.ViolationError
	require.ErrorAs(t, err, &v)
}

func TestProcessBlock_TypeMismatch_SurfacedAsError(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessBlock(`def f : Nat := "oops"`, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, res.Diagnostics.ErrorCount())
}

func TestProcessBlock_TypeMismatchWithMustError_Demoted(t *testing.T) {
	p := newProcessor()
	cfg := DefaultConfig()
	cfg.Error = boolPtr(true)

	res, err := p.ProcessBlock(`def f : Nat := "oops"`, cfg)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, diag.SevWarning, res.Diagnostics[0].Severity)
	require.Contains(t, res.Diagnostics[0].Message, "type mismatch")
}

func TestProcessBlock_KeepFalse_EnvironmentUnchanged(t *testing.T) {
	p := newProcessor()
	before := p.Env().Clone()

	cfg := DefaultConfig()
	cfg.Keep = false
	_, err := p.ProcessBlock("def temp := 1", cfg)
	require.NoError(t, err)
	require.True(t, p.Env().Equal(before))
}

func TestProcessBlock_KeepTrue_NextSnippetSeesBinding(t *testing.T) {
	p := newProcessor()
	_, err := p.ProcessBlock("def x := 1", DefaultConfig())
	require.NoError(t, err)

	res, err := p.ProcessBlock("#check x", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "x : Nat", res.Diagnostics[0].Message)
}

func TestProcessBlock_SequentialStatements_ShareScope(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessBlock("def x := 1\n#check x", DefaultConfig())
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())
	require.Len(t, res.Statements, 2)
	require.Equal(t, []string{"x"}, res.Defined)
}

func TestProcessBlock_TerminalStatement_StopsParsing(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessBlock("#eval 1\n#exit\n#eval garbage that would not parse", DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Statements, 2)
}

func TestProcessBlock_ParseError_Fatal(t *testing.T) {
	p := newProcessor()
	before := p.Env().Clone()

	cfg := DefaultConfig()
	cfg.Keep = false
	_, err := p.ProcessBlock("def := nonsense", cfg)
	var perr *lang.ParseError
	require.ErrorAs(t, err, &perr)
	// Rollback still ran.
	require.True(t, p.Env().Equal(before))
}

func TestProcessBlock_LongLine_WarningCitesColumn(t *testing.T) {
	p := newProcessor()
	line := `def padded := "` + strings.Repeat("x", 59) + `"` // 75 columns total
	require.Len(t, line, 75)

	res, err := p.ProcessBlock(line, DefaultConfig())
	require.NoError(t, err)

	var warnings diag.Log
	for _, d := range res.Diagnostics {
		if d.Severity == diag.SevWarning {
			warnings = append(warnings, d)
		}
	}
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "75 columns")
	require.Contains(t, warnings[0].Message, "limit 60")
	require.Equal(t, 75, warnings[0].Pos.Column)
}

func TestProcessBlock_LongLine_SuppressedWhenHidden(t *testing.T) {
	p := newProcessor()
	line := `def padded := "` + strings.Repeat("x", 59) + `"`

	cfg := DefaultConfig()
	cfg.Show = false
	res, err := p.ProcessBlock(line, cfg)
	require.NoError(t, err)
	for _, d := range res.Diagnostics {
		require.NotEqual(t, diag.SevWarning, d.Severity)
	}
}

func TestProcessBlock_IndentOffset_WidensLimit(t *testing.T) {
	p := newProcessor()
	line := `def padded := "` + strings.Repeat("x", 59) + `"` // 75 columns

	cfg := DefaultConfig()
	cfg.IndentOffset = 20 // limit becomes 80
	res, err := p.ProcessBlock(line, cfg)
	require.NoError(t, err)
	for _, d := range res.Diagnostics {
		require.NotEqual(t, diag.SevWarning, d.Severity)
	}
}

func TestProcessBlock_Named_RegistersSurfacedOutput(t *testing.T) {
	p := newProcessor()
	cfg := DefaultConfig()
	cfg.Name = "two"

	_, err := p.ProcessBlock("#eval 1 + 1", cfg)
	require.NoError(t, err)

	entries, err := p.Registry().Lookup("two")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "2", entries[0].Text)
	require.Equal(t, diag.SevInfo, entries[0].Severity)
}

func TestProcessBlock_DedentColumn_Recorded(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessBlock("  def x := 1\n  #check x", DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 2, res.Dedent)
}

func TestProcessInline_Expression(t *testing.T) {
	p := newProcessor()
	res, err := p.ProcessInline("1 + 1", DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, res.Expr)
	require.Empty(t, res.Diagnostics)
}

func TestProcessInline_ExpectedType_Enforced(t *testing.T) {
	p := newProcessor()
	cfg := DefaultConfig()
	cfg.ExpectedType = "String"

	res, err := p.ProcessInline("1 + 1", cfg)
	require.NoError(t, err)
	require.Equal(t, 1, res.Diagnostics.ErrorCount())
}

func TestProcessInline_BadExpectedType_Fatal(t *testing.T) {
	p := newProcessor()
	cfg := DefaultConfig()
	cfg.ExpectedType = "Natt"

	_, err := p.ProcessInline("1", cfg)
	var terr *lang.TypeError
	require.ErrorAs(t, err, &terr)
}
