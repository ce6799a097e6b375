package lang

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/snipdoc/internal/diag"
)

// Elaborate processes one parsed statement against the environment and
// scope, mutating both in place and returning the diagnostics it produced.
// Semantic failures (type mismatch, unknown identifier) become
// error-severity diagnostics, never hard errors; a failed def does not
// bind its name.
func Elaborate(s Stmt, env *Environment, scope *Scope) diag.Log {
	switch stmt := s.(type) {
	case *DefStmt:
		return elabDef(stmt, env, scope)
	case *EvalStmt:
		return elabEval(stmt, env, scope)
	case *CheckStmt:
		return elabCheck(stmt, env, scope)
	case *OpenStmt:
		return elabOpen(stmt, env, scope)
	case *SetOptionStmt:
		scope.Options[stmt.Option] = stmt.Value
		env.SetOption(stmt.Option, stmt.Value)
		return nil
	case *ExitStmt:
		return nil
	default:
		return diag.Log{{
			Severity: diag.SevError,
			Message:  fmt.Sprintf("unsupported statement %T", s),
			Pos:      s.StmtPos(),
		}}
	}
}

func elabDef(stmt *DefStmt, env *Environment, scope *Scope) diag.Log {
	val, inferred, log := infer(stmt.Val, env, scope)
	if stmt.Type != nil && !stmt.Type.Hole() {
		want, err := ResolveTypeName(stmt.Type.Name)
		if err != nil {
			log = append(log, diag.Diagnostic{
				Severity: diag.SevError,
				Message:  err.Error(),
				Pos:      stmt.Type.Pos,
			})
			return log
		}
		if inferred != TypeUnknown && inferred != want {
			log = append(log, diag.Diagnostic{
				Severity: diag.SevError,
				Message:  fmt.Sprintf("type mismatch: expected %s, got %s", want, inferred),
				Pos:      stmt.Val.ExprPos(),
			})
			return log
		}
	}
	if log.HasErrors() {
		return log
	}
	env.Define(Decl{
		Name: scope.Qualify(stmt.Name),
		Type: inferred,
		Val:  val,
		Doc:  stmt.Doc,
	})
	return log
}

func elabEval(stmt *EvalStmt, env *Environment, scope *Scope) diag.Log {
	val, _, log := infer(stmt.Val, env, scope)
	if log.HasErrors() {
		return log
	}
	log = append(log, diag.Diagnostic{
		Severity: diag.SevInfo,
		Message:  val.Render(),
		Pos:      stmt.Pos,
	})
	return log
}

func elabCheck(stmt *CheckStmt, env *Environment, scope *Scope) diag.Log {
	_, ty, log := infer(stmt.Val, env, scope)
	if log.HasErrors() {
		return log
	}
	log = append(log, diag.Diagnostic{
		Severity: diag.SevInfo,
		Message:  fmt.Sprintf("%s : %s", ExprString(stmt.Val), ty),
		Pos:      stmt.Pos,
	})
	return log
}

func elabOpen(stmt *OpenStmt, env *Environment, scope *Scope) diag.Log {
	scope.Open(stmt.Namespace)
	for _, name := range env.Names() {
		if strings.HasPrefix(name, stmt.Namespace+".") {
			return nil
		}
	}
	// Opening an empty namespace is legal but almost always a typo.
	return diag.Log{{
		Severity: diag.SevWarning,
		Message:  fmt.Sprintf("namespace %q has no declarations", stmt.Namespace),
		Pos:      stmt.Pos,
	}}
}

// infer type-checks and evaluates an expression in one pass. On failure the
// returned type is TypeUnknown and the log carries the error.
func infer(e Expr, env *Environment, scope *Scope) (Value, Type, diag.Log) {
	switch ex := e.(type) {
	case *IntLit:
		return Value{Type: TypeNat, Nat: ex.Value}, TypeNat, nil
	case *StrLit:
		return Value{Type: TypeString, Str: ex.Value}, TypeString, nil
	case *BoolLit:
		return Value{Type: TypeBool, Bool: ex.Value}, TypeBool, nil

	case *IdentExpr:
		d, ok := env.Lookup(ex.Name, scope)
		if !ok {
			return Value{}, TypeUnknown, diag.Log{{
				Severity: diag.SevError,
				Message:  fmt.Sprintf("unknown identifier %q", ex.Name),
				Pos:      ex.Pos,
			}}
		}
		return d.Val, d.Type, nil

	case *BinExpr:
		lv, lt, llog := infer(ex.L, env, scope)
		rv, rt, rlog := infer(ex.R, env, scope)
		log := append(llog, rlog...)
		if log.HasErrors() {
			return Value{}, TypeUnknown, log
		}
		val, ty, err := applyOp(ex.Op, lv, lt, rv, rt)
		if err != nil {
			log = append(log, diag.Diagnostic{
				Severity: diag.SevError,
				Message:  err.Error(),
				Pos:      ex.Pos,
			})
			return Value{}, TypeUnknown, log
		}
		return val, ty, log

	default:
		return Value{}, TypeUnknown, diag.Log{{
			Severity: diag.SevError,
			Message:  fmt.Sprintf("unsupported expression %T", e),
			Pos:      e.ExprPos(),
		}}
	}
}

func applyOp(op string, lv Value, lt Type, rv Value, rt Type) (Value, Type, error) {
	switch op {
	case "+", "*":
		if lt != TypeNat || rt != TypeNat {
			return Value{}, TypeUnknown,
				fmt.Errorf("operator %s expects Nat operands, got %s and %s", op, lt, rt)
		}
		n := lv.Nat + rv.Nat
		if op == "*" {
			n = lv.Nat * rv.Nat
		}
		return Value{Type: TypeNat, Nat: n}, TypeNat, nil
	case "++":
		if lt != TypeString || rt != TypeString {
			return Value{}, TypeUnknown,
				fmt.Errorf("operator ++ expects String operands, got %s and %s", lt, rt)
		}
		return Value{Type: TypeString, Str: lv.Str + rv.Str}, TypeString, nil
	}
	return Value{}, TypeUnknown, fmt.Errorf("unknown operator %s", op)
}

// ElaborateExpr elaborates a standalone expression (inline snippet mode),
// optionally against an explicit expected type. Pending inference
// placeholders in the expected type are resolved eagerly from the inferred
// type; a placeholder that cannot be resolved, or an unknown expected type
// name, is a *TypeError (a configuration error, not a snippet diagnostic).
func ElaborateExpr(e Expr, expected *TypeExpr, env *Environment, scope *Scope) (Value, Type, diag.Log, error) {
	val, inferred, log := infer(e, env, scope)
	if expected == nil {
		return val, inferred, log, nil
	}
	want, err := ResolveTypeName(expected.Name)
	if err != nil {
		return Value{}, TypeUnknown, log, &TypeError{Pos: expected.Pos, Msg: err.Error()}
	}
	if want == TypeUnknown { // hole: resolve from the inferred type
		if inferred == TypeUnknown {
			return Value{}, TypeUnknown, log, &TypeError{
				Pos: expected.Pos,
				Msg: "cannot resolve type placeholder in expected type",
			}
		}
		return val, inferred, log, nil
	}
	if inferred != TypeUnknown && inferred != want {
		log = append(log, diag.Diagnostic{
			Severity: diag.SevError,
			Message:  fmt.Sprintf("type mismatch: expected %s, got %s", want, inferred),
			Pos:      e.ExprPos(),
		})
	}
	return val, want, log, nil
}

// ExprString renders an expression back to display text.
func ExprString(e Expr) string {
	switch ex := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", ex.Value)
	case *StrLit:
		return fmt.Sprintf("%q", ex.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", ex.Value)
	case *IdentExpr:
		return ex.Name
	case *BinExpr:
		return fmt.Sprintf("%s %s %s", ExprString(ex.L), ex.Op, ExprString(ex.R))
	}
	return "?"
}
