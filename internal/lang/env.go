package lang

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Type is the closed set of value types in the snippet language.
type Type uint8

const (
	// TypeUnknown is the pre-inference placeholder; it never survives a
	// successful elaboration.
	TypeUnknown Type = iota
	TypeNat
	TypeString
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeNat:
		return "Nat"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	}
	return "?"
}

// ResolveTypeName maps a written type name to a Type. A hole ("_") maps to
// TypeUnknown without error; the caller decides whether an unresolved hole
// is acceptable.
func ResolveTypeName(name string) (Type, error) {
	switch name {
	case "Nat":
		return TypeNat, nil
	case "String":
		return TypeString, nil
	case "Bool":
		return TypeBool, nil
	case "_":
		return TypeUnknown, nil
	}
	return TypeUnknown, fmt.Errorf("unknown type %q", name)
}

// Value is a runtime value of the snippet language.
type Value struct {
	Type Type
	Nat  uint64
	Str  string
	Bool bool
}

// Render is the display form used by #eval output.
func (v Value) Render() string {
	switch v.Type {
	case TypeNat:
		return fmt.Sprintf("%d", v.Nat)
	case TypeString:
		return fmt.Sprintf("%q", v.Str)
	case TypeBool:
		return fmt.Sprintf("%t", v.Bool)
	}
	return "?"
}

// Decl is one named declaration held by the Environment.
type Decl struct {
	Name string // fully qualified (namespace-prefixed) name
	Type Type
	Val  Value
	Doc  string
}

// Signature is the hover text for the declaration.
func (d Decl) Signature() string { return d.Name + " : " + d.Type.String() }

// Environment is the mutable world state snippets elaborate against:
// declarations plus global option settings. It is owned by one document
// build, mutated in place by elaboration, and checkpointed by value-copy
// around each snippet (see internal/snapshot).
type Environment struct {
	decls   map[string]Decl
	order   []string // declaration order, for stable listings
	options map[string]string
}

func NewEnvironment() *Environment {
	return &Environment{
		decls:   map[string]Decl{},
		options: map[string]string{},
	}
}

// Clone deep-copies the environment. The copy shares nothing with the
// receiver; mutating one never affects the other.
func (e *Environment) Clone() *Environment {
	return &Environment{
		decls:   maps.Clone(e.decls),
		order:   slices.Clone(e.order),
		options: maps.Clone(e.options),
	}
}

// Equal reports structural equality. Used by tests to verify that a
// discarded snippet left no trace.
func (e *Environment) Equal(other *Environment) bool {
	return maps.Equal(e.decls, other.decls) &&
		slices.Equal(e.order, other.order) &&
		maps.Equal(e.options, other.options)
}

// Define inserts or replaces a declaration under its qualified name.
func (e *Environment) Define(d Decl) {
	if _, exists := e.decls[d.Name]; !exists {
		e.order = append(e.order, d.Name)
	}
	e.decls[d.Name] = d
}

// SetOption records a global option value.
func (e *Environment) SetOption(name, value string) { e.options[name] = value }

// Option returns a global option value.
func (e *Environment) Option(name string) (string, bool) {
	v, ok := e.options[name]
	return v, ok
}

// Lookup resolves a written name against the scope: the scope's current
// namespace first, then each open namespace in order, then the bare name.
func (e *Environment) Lookup(name string, scope *Scope) (Decl, bool) {
	if scope != nil {
		if scope.Namespace != "" {
			if d, ok := e.decls[scope.Namespace+"."+name]; ok {
				return d, true
			}
		}
		for _, ns := range scope.Opens {
			if d, ok := e.decls[ns+"."+name]; ok {
				return d, true
			}
		}
	}
	d, ok := e.decls[name]
	return d, ok
}

// Names lists all declared qualified names in declaration order.
func (e *Environment) Names() []string { return slices.Clone(e.order) }

// Scope is the stack of naming context a statement elaborates under:
// current namespace, opened namespaces, and option overrides. It is read at
// parse start and threaded through each statement; changes made by one
// statement are visible to the next statement of the same snippet.
type Scope struct {
	Namespace string
	Opens     []string
	Options   map[string]string
}

func NewScope() *Scope {
	return &Scope{Options: map[string]string{}}
}

// Clone deep-copies the scope.
func (s *Scope) Clone() *Scope {
	return &Scope{
		Namespace: s.Namespace,
		Opens:     slices.Clone(s.Opens),
		Options:   maps.Clone(s.Options),
	}
}

// Equal reports structural equality.
func (s *Scope) Equal(other *Scope) bool {
	return s.Namespace == other.Namespace &&
		slices.Equal(s.Opens, other.Opens) &&
		maps.Equal(s.Options, other.Options)
}

// Open adds a namespace to the open list (idempotent).
func (s *Scope) Open(ns string) {
	if !slices.Contains(s.Opens, ns) {
		s.Opens = append(s.Opens, ns)
	}
}

// Qualify prefixes a name with the current namespace, if any.
func (s *Scope) Qualify(name string) string {
	if s.Namespace == "" || strings.Contains(name, ".") {
		return name
	}
	return s.Namespace + "." + name
}
