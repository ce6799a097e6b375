package lang

import "git.home.luguber.info/inful/snipdoc/internal/diag"

// Stmt is one top-level statement of a snippet.
type Stmt interface {
	StmtPos() diag.Pos
	// Terminal reports whether the statement ends a multi-statement
	// snippet (nothing after it is parsed).
	Terminal() bool
}

// DefStmt introduces a named declaration: def NAME [: TYPE] := EXPR.
type DefStmt struct {
	Name string
	Type *TypeExpr // nil when the type is inferred
	Val  Expr
	Doc  string // text of a preceding doc comment, empty if none
	Pos  diag.Pos
}

// EvalStmt evaluates an expression and reports its value: #eval EXPR.
type EvalStmt struct {
	Val Expr
	Pos diag.Pos
}

// CheckStmt reports the type of an expression: #check EXPR.
type CheckStmt struct {
	Val Expr
	Pos diag.Pos
}

// OpenStmt brings a namespace into scope: open NAME.
type OpenStmt struct {
	Namespace string
	Pos       diag.Pos
}

// SetOptionStmt sets a per-scope option: set_option NAME VALUE.
type SetOptionStmt struct {
	Option string
	Value  string
	Pos    diag.Pos
}

// ExitStmt is the terminal form: #exit stops statement parsing.
type ExitStmt struct {
	Pos diag.Pos
}

func (s *DefStmt) StmtPos() diag.Pos       { return s.Pos }
func (s *EvalStmt) StmtPos() diag.Pos      { return s.Pos }
func (s *CheckStmt) StmtPos() diag.Pos     { return s.Pos }
func (s *OpenStmt) StmtPos() diag.Pos      { return s.Pos }
func (s *SetOptionStmt) StmtPos() diag.Pos { return s.Pos }
func (s *ExitStmt) StmtPos() diag.Pos      { return s.Pos }

func (s *DefStmt) Terminal() bool       { return false }
func (s *EvalStmt) Terminal() bool      { return false }
func (s *CheckStmt) Terminal() bool     { return false }
func (s *OpenStmt) Terminal() bool      { return false }
func (s *SetOptionStmt) Terminal() bool { return false }
func (s *ExitStmt) Terminal() bool      { return true }

// Expr is an expression node.
type Expr interface {
	ExprPos() diag.Pos
}

// IntLit is a natural number literal.
type IntLit struct {
	Value uint64
	Pos   diag.Pos
}

// StrLit is a string literal (Value is the unescaped content).
type StrLit struct {
	Value string
	Pos   diag.Pos
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	Pos   diag.Pos
}

// IdentExpr references a declaration by (possibly dotted) name.
type IdentExpr struct {
	Name string
	Pos  diag.Pos
}

// BinExpr is a binary operation: +, * or ++.
type BinExpr struct {
	Op   string
	L, R Expr
	Pos  diag.Pos // position of the operator
}

func (e *IntLit) ExprPos() diag.Pos    { return e.Pos }
func (e *StrLit) ExprPos() diag.Pos    { return e.Pos }
func (e *BoolLit) ExprPos() diag.Pos   { return e.Pos }
func (e *IdentExpr) ExprPos() diag.Pos { return e.Pos }
func (e *BinExpr) ExprPos() diag.Pos   { return e.Pos }

// TypeExpr is a (possibly holey) type annotation as written.
type TypeExpr struct {
	Name string // "Nat", "String", "Bool", or "_" for a hole
	Pos  diag.Pos
}

// Hole reports whether the annotation is an inference placeholder.
func (t *TypeExpr) Hole() bool { return t.Name == "_" }
