// Package snippet drives the embedded-snippet pipeline: parse statement by
// statement, elaborate against the live environment, reconcile diagnostics
// with the snippet's declared expectation, and record named output.
package snippet

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
	"git.home.luguber.info/inful/snipdoc/internal/expect"
	"git.home.luguber.info/inful/snipdoc/internal/lang"
	"git.home.luguber.info/inful/snipdoc/internal/registry"
	"git.home.luguber.info/inful/snipdoc/internal/snapshot"
)

// DefaultMaxWidth is the long-line lint limit in columns.
const DefaultMaxWidth = 60

// Config is the per-snippet configuration parsed from the document.
type Config struct {
	// Show renders the snippet in the output document.
	Show bool
	// Keep persists environment changes beyond this snippet.
	Keep bool
	// Name registers the snippet's output under this key.
	Name string
	// Error is the declared expectation: nil = don't care, true = require
	// at least one error, false = require none.
	Error *bool
	// ExpectedType is the written expected type for inline snippets.
	ExpectedType string
	// MaxWidth overrides DefaultMaxWidth when positive.
	MaxWidth int
	// IndentOffset widens the limit for nested display contexts.
	IndentOffset int
}

// DefaultConfig returns the documented defaults: shown and kept.
func DefaultConfig() Config {
	return Config{Show: true, Keep: true}
}

// Result is the structured artifact of one processing run.
type Result struct {
	// Source is the snippet text as written.
	Source string
	// Dedent is the common leading-space column shared by all non-blank
	// lines, recorded for presentation-only dedenting.
	Dedent int
	// Statements are the elaborated statements (block mode).
	Statements []lang.Stmt
	// Expr is the elaborated expression (inline mode).
	Expr lang.Expr
	// Diagnostics is the surfaced log, after expectation reconciliation
	// and long-line lint.
	Diagnostics diag.Log
	// Defined lists the qualified names this snippet declared.
	Defined []string
}

// Entries converts the surfaced diagnostics to registry entries.
func (r *Result) Entries() []registry.Entry {
	out := make([]registry.Entry, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		out = append(out, registry.Entry{Severity: d.Severity, Text: d.Message})
	}
	return out
}

// Processor runs snippets against one build's environment and registry.
type Processor struct {
	snap *snapshot.Manager
	reg  *registry.Registry
	log  *slog.Logger
}

func NewProcessor(snap *snapshot.Manager, reg *registry.Registry) *Processor {
	return &Processor{snap: snap, reg: reg, log: slog.Default()}
}

// Registry exposes the build's named-output registry.
func (p *Processor) Registry() *registry.Registry { return p.reg }

// Env exposes the live environment (read-only use by the highlighter).
func (p *Processor) Env() *lang.Environment { return p.snap.Env() }

// Scope exposes the live scope stack.
func (p *Processor) Scope() *lang.Scope { return p.snap.Scope() }

// ProcessBlock runs a multi-statement snippet. Statements are parsed and
// elaborated strictly in sequence, so scope and environment changes made
// by one statement are visible to the next. Environment disposition is
// governed by cfg.Keep on every exit path, including failures.
func (p *Processor) ProcessBlock(source string, cfg Config) (*Result, error) {
	res := &Result{Source: source, Dedent: dedentColumn(source)}

	runErr := p.snap.WithSnippet(cfg.Keep, func(env *lang.Environment, scope *lang.Scope) error {
		parser, err := lang.NewParser(source)
		if err != nil {
			return err
		}
		for !parser.AtEOF() {
			stmt, err := parser.ParseStatement()
			if err != nil {
				return err
			}
			res.Statements = append(res.Statements, stmt)
			stmtLog := lang.Elaborate(stmt, env, scope)
			res.Diagnostics = append(res.Diagnostics, stmtLog...)
			if def, ok := stmt.(*lang.DefStmt); ok && !stmtLog.HasErrors() {
				res.Defined = append(res.Defined, scope.Qualify(def.Name))
			}
			if stmt.Terminal() {
				break
			}
		}
		return nil
	})
	if runErr != nil {
		return nil, runErr
	}

	return p.finish(res, cfg)
}

// ProcessInline runs a single-expression snippet under the current scope,
// optionally against an explicit expected type. Inline snippets never
// mutate the environment; disposition is still routed through the snapshot
// manager so a misbehaving engine cannot leak state.
func (p *Processor) ProcessInline(source string, cfg Config) (*Result, error) {
	res := &Result{Source: source, Dedent: dedentColumn(source)}

	var expected *lang.TypeExpr
	if cfg.ExpectedType != "" {
		ty, err := lang.ParseTypeName(cfg.ExpectedType)
		if err != nil {
			return nil, fmt.Errorf("expected type %q: %w", cfg.ExpectedType, err)
		}
		expected = ty
	}

	runErr := p.snap.WithSnippet(false, func(env *lang.Environment, scope *lang.Scope) error {
		parser, err := lang.NewParser(source)
		if err != nil {
			return err
		}
		e, err := parser.ParseExprOnly()
		if err != nil {
			return err
		}
		res.Expr = e
		_, _, log, err := lang.ElaborateExpr(e, expected, env, scope)
		res.Diagnostics = append(res.Diagnostics, log...)
		return err
	})
	if runErr != nil {
		return nil, runErr
	}

	return p.finish(res, cfg)
}

// finish reconciles the expectation, runs the long-line lint, and records
// named output.
func (p *Processor) finish(res *Result, cfg Config) (*Result, error) {
	surfaced, err := expect.Apply(expect.BehaviorFor(cfg.Error), res.Diagnostics)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = surfaced

	if cfg.Show {
		res.Diagnostics = append(res.Diagnostics, longLineWarnings(res.Source, cfg)...)
	}

	if cfg.Name != "" {
		if _, prior := p.reg.Lookup(cfg.Name); prior == nil {
			// Silent overwrite by contract; log so duplicate names are
			// at least discoverable.
			p.log.Debug("overwriting named snippet output", "name", cfg.Name)
		}
		p.reg.Register(cfg.Name, res.Entries())
	}
	return res, nil
}

// longLineWarnings flags every source line wider than the limit. Width is
// counted in runes against the original (pre-dedent) text; the lint is a
// style side effect, independent of elaboration.
func longLineWarnings(source string, cfg Config) diag.Log {
	limit := cfg.MaxWidth
	if limit <= 0 {
		limit = DefaultMaxWidth
	}
	limit += cfg.IndentOffset

	var out diag.Log
	for i, line := range strings.Split(source, "\n") {
		width := utf8.RuneCountInString(strings.TrimRight(line, " \t\r"))
		if width > limit {
			out = append(out, diag.Diagnostic{
				Severity: diag.SevWarning,
				Message:  fmt.Sprintf("line is %d columns wide (limit %d)", width, limit),
				Pos:      diag.Pos{Line: i + 1, Column: width},
			})
		}
	}
	return out
}

// dedentColumn finds the common leading-space count over non-blank lines.
func dedentColumn(source string) int {
	dedent := -1
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := len(line) - len(strings.TrimLeft(line, " \t"))
		if dedent < 0 || lead < dedent {
			dedent = lead
		}
	}
	if dedent < 0 {
		return 0
	}
	return dedent
}
